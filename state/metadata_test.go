package state

import (
	"errors"
	"testing"

	"dropletvault/core/types"
	"dropletvault/native/collection"
	"dropletvault/storage"
)

func TestMetadataRegistryRoundTrip(t *testing.T) {
	registry := NewMetadataRegistry(storage.NewMemDB())
	item := types.ItemID(fill(0x01))

	if _, err := registry.ItemMetadata(item); !errors.Is(err, ErrMetadataNotFound) {
		t.Fatalf("missing item: %v", err)
	}

	in := &collection.ItemMetadata{
		Item:   item,
		Symbol: "DRPLT",
		Creators: []collection.Creator{
			{Address: fill(0xC1), Verified: true},
			{Address: fill(0xC2), Verified: false},
		},
		Collection: &collection.CollectionRef{Mint: fill(0x22), Verified: true},
	}
	if err := registry.Register(in); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := registry.ItemMetadata(item)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Symbol != in.Symbol || len(out.Creators) != 2 || out.Creators[1].Verified {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.Collection == nil || out.Collection.Mint != in.Collection.Mint || !out.Collection.Verified {
		t.Fatalf("collection ref mismatch: %+v", out.Collection)
	}
}

func TestMetadataRegistryWithoutCollection(t *testing.T) {
	registry := NewMetadataRegistry(storage.NewMemDB())
	item := types.ItemID(fill(0x02))
	if err := registry.Register(&collection.ItemMetadata{Item: item, Symbol: "X"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := registry.ItemMetadata(item)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Collection != nil {
		t.Fatalf("collection should stay nil: %+v", out.Collection)
	}
}

func TestMetadataRecordVersionTag(t *testing.T) {
	registry := NewMetadataRegistry(storage.NewMemDB())
	item := types.ItemID(fill(0x03))
	if err := registry.Register(&collection.ItemMetadata{Item: item, Symbol: "DRPLT"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	raw, err := registry.db.Get(metadataKey(item))
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	if len(raw) == 0 || raw[0] != recordVersion {
		t.Fatalf("stored payload does not lead with the version tag: %x", raw)
	}

	raw[0] = recordVersion + 1
	if err := registry.db.Put(metadataKey(item), raw); err != nil {
		t.Fatalf("raw put: %v", err)
	}
	if _, err := registry.ItemMetadata(item); !errors.Is(err, errRecordVersion) {
		t.Fatalf("unknown tag: got %v", err)
	}
}

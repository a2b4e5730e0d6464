package state

import (
	"errors"

	"github.com/ethereum/go-ethereum/rlp"

	"dropletvault/core/types"
	"dropletvault/native/collection"
	"dropletvault/storage"
)

// ErrMetadataNotFound is returned when no metadata is registered for an item.
var ErrMetadataNotFound = errors.New("state: item metadata not found")

var metadataPrefix = []byte("vault/metadata/")

type storedCreator struct {
	Address  types.Address
	Verified bool
}

type storedCollectionRef struct {
	Mint     types.TokenID
	Verified bool
}

type storedMetadata struct {
	Item       types.ItemID
	Symbol     string
	Creators   []storedCreator
	Collection *storedCollectionRef `rlp:"nil"`
}

// MetadataRegistry is a storage-backed item metadata source. Self-contained
// deployments feed it through the admin API; deployments with an external
// metadata authority replace it behind the engine's metadata interface.
type MetadataRegistry struct {
	db storage.Database
}

// NewMetadataRegistry wraps a database in a registry.
func NewMetadataRegistry(db storage.Database) *MetadataRegistry {
	return &MetadataRegistry{db: db}
}

func metadataKey(item types.ItemID) []byte {
	return append(append([]byte(nil), metadataPrefix...), item[:]...)
}

// Register stores the metadata record for an item, replacing any previous
// record.
func (r *MetadataRegistry) Register(meta *collection.ItemMetadata) error {
	if meta == nil {
		return errors.New("state: nil metadata")
	}
	stored := &storedMetadata{
		Item:   meta.Item,
		Symbol: meta.Symbol,
	}
	for _, creator := range meta.Creators {
		stored.Creators = append(stored.Creators, storedCreator{Address: creator.Address, Verified: creator.Verified})
	}
	if meta.Collection != nil {
		stored.Collection = &storedCollectionRef{Mint: meta.Collection.Mint, Verified: meta.Collection.Verified}
	}
	encoded, err := rlp.EncodeToBytes(stored)
	if err != nil {
		return err
	}
	payload := make([]byte, 1, 1+len(encoded))
	payload[0] = recordVersion
	return r.db.Put(metadataKey(meta.Item), append(payload, encoded...))
}

// ItemMetadata implements collection.MetadataSource.
func (r *MetadataRegistry) ItemMetadata(item types.ItemID) (*collection.ItemMetadata, error) {
	raw, err := r.db.Get(metadataKey(item))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrMetadataNotFound
		}
		return nil, err
	}
	if len(raw) == 0 || raw[0] != recordVersion {
		return nil, errRecordVersion
	}
	var stored storedMetadata
	if err := rlp.DecodeBytes(raw[1:], &stored); err != nil {
		return nil, err
	}
	meta := &collection.ItemMetadata{
		Item:   stored.Item,
		Symbol: stored.Symbol,
	}
	for _, creator := range stored.Creators {
		meta.Creators = append(meta.Creators, collection.Creator{Address: creator.Address, Verified: creator.Verified})
	}
	if stored.Collection != nil {
		meta.Collection = &collection.CollectionRef{Mint: stored.Collection.Mint, Verified: stored.Collection.Verified}
	}
	return meta, nil
}

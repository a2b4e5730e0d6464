package collection

import "dropletvault/core/types"

// Creator is one entry of an item's creator list. Verified marks creators
// that signed the item at mint time; unverified entries never satisfy the
// creator check.
type Creator struct {
	Address  types.Address
	Verified bool
}

// CollectionRef is the optional collection membership declared by newer
// item metadata. Verified means the collection authority co-signed the
// membership.
type CollectionRef struct {
	Mint     types.TokenID
	Verified bool
}

// ItemMetadata is the read-only metadata record for one item, supplied by
// an external metadata source. The engine never mutates it.
type ItemMetadata struct {
	Item       types.ItemID
	Symbol     string
	Creators   []Creator
	Collection *CollectionRef
}

// MetadataSource resolves item metadata by item identity.
type MetadataSource interface {
	ItemMetadata(item types.ItemID) (*ItemMetadata, error)
}

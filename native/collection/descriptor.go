// Package collection decides whether a presented item belongs to the
// collection configured for a bucket. Two descriptor shapes exist: the
// legacy symbol/verified-creator/allow-list form, and the newer form keyed
// by a single collection identifier.
package collection

import (
	"errors"
	"fmt"

	"dropletvault/core/types"
)

const (
	// MaxSymbolLen bounds the configured collection symbol in bytes.
	MaxSymbolLen = 32

	// MaxVerifiedCreators bounds the creator allow-list of a legacy
	// descriptor. At least one creator is always required.
	MaxVerifiedCreators = 5
)

// DescriptorKind tags the two descriptor variants.
type DescriptorKind uint8

const (
	// KindLegacy matches on symbol, verified creators and an optional
	// Merkle allow-list.
	KindLegacy DescriptorKind = iota + 1
	// KindCertified matches on a verified collection reference embedded
	// in the item metadata.
	KindCertified
)

var (
	// ErrDescriptorInvalid is returned when a descriptor fails shape
	// validation at create/update time.
	ErrDescriptorInvalid = errors.New("collection: descriptor invalid")

	// ErrVerificationFailed is returned when an item cannot be proven to
	// belong to the configured collection. Callers must abort the whole
	// operation; nothing may be minted or burned beforehand.
	ErrVerificationFailed = errors.New("collection: verification failed")
)

// Descriptor is the tagged union stored per bucket. Exactly one variant's
// fields are meaningful, selected by Kind.
type Descriptor struct {
	Kind DescriptorKind

	// Legacy variant.
	Symbol           string
	VerifiedCreators []types.Address
	AllowlistRoot    [32]byte
	HasAllowlist     bool

	// Certified variant.
	CollectionMint types.TokenID
}

// Validate checks the descriptor shape. Called on bucket creation and on
// every administrator update; a descriptor that validated once is treated
// as immutable until the next update.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindLegacy:
		if len(d.Symbol) == 0 || len(d.Symbol) > MaxSymbolLen {
			return fmt.Errorf("%w: symbol length %d", ErrDescriptorInvalid, len(d.Symbol))
		}
		if len(d.VerifiedCreators) == 0 || len(d.VerifiedCreators) > MaxVerifiedCreators {
			return fmt.Errorf("%w: %d verified creators", ErrDescriptorInvalid, len(d.VerifiedCreators))
		}
		for _, creator := range d.VerifiedCreators {
			if creator.IsZero() {
				return fmt.Errorf("%w: zero creator", ErrDescriptorInvalid)
			}
		}
		return nil
	case KindCertified:
		if d.CollectionMint == (types.TokenID{}) {
			return fmt.Errorf("%w: zero collection mint", ErrDescriptorInvalid)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrDescriptorInvalid, d.Kind)
	}
}

// Clone returns a deep copy so stored descriptors cannot be mutated through
// a caller-held slice.
func (d Descriptor) Clone() Descriptor {
	clone := d
	clone.VerifiedCreators = append([]types.Address(nil), d.VerifiedCreators...)
	return clone
}

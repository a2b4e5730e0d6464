package types

import (
	"encoding/hex"
	"fmt"
)

// Address is a 32-byte account identifier. Holding accounts, treasuries and
// revenue partners are all addressed this way; the engine never interprets
// the bytes beyond equality.
type Address [32]byte

// TokenID identifies a fungible mint. Each bucket owns exactly one droplet
// mint, so the TokenID doubles as the bucket key.
type TokenID [32]byte

// ItemID identifies a non-fungible item.
type ItemID [32]byte

func (a Address) String() string { return hex.EncodeToString(a[:]) }

func (t TokenID) String() string { return hex.EncodeToString(t[:]) }

func (i ItemID) String() string { return hex.EncodeToString(i[:]) }

// IsZero reports whether the address is the all-zero value, which is never a
// valid balance destination.
func (a Address) IsZero() bool { return a == Address{} }

// ParseAddress decodes a 64-character hex string into an Address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address encoding: %w", err)
	}
	if len(raw) != len(a) {
		return Address{}, fmt.Errorf("invalid address length: %d", len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

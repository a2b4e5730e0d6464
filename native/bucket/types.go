package bucket

import (
	"fmt"

	"dropletvault/core/types"
	"dropletvault/native/collection"
	"dropletvault/native/droplet"
)

// StakingParams points the bucket at the external farm it auto-stakes held
// items into. Either all identifiers are present or staking is unset.
type StakingParams struct {
	FarmProgram types.Address
	BankProgram types.Address
	Farm        types.Address
	FeeAccount  types.Address
}

// Valid reports whether every identifier is populated.
func (p StakingParams) Valid() bool {
	return !p.FarmProgram.IsZero() && !p.BankProgram.IsZero() &&
		!p.Farm.IsZero() && !p.FeeAccount.IsZero()
}

// Bucket is the per-collection container. The droplet mint doubles as the
// bucket key. Counters track direct backing (ItemsHeld) and loan collateral
// (ItemsInLockers) separately; their sum times the full item value is the
// droplet supply the bucket must stand behind.
type Bucket struct {
	DropletMint types.TokenID
	Collection  collection.Descriptor

	LockingEnabled    bool
	MaxLockerDuration uint64
	InterestScaler    uint8

	ItemsHeld      uint64
	ItemsInLockers uint64

	StakingEnabled bool
	Staking        *StakingParams
}

// Clone returns a deep copy so stored buckets cannot be mutated through a
// caller-held pointer.
func (b *Bucket) Clone() *Bucket {
	if b == nil {
		return nil
	}
	clone := *b
	clone.Collection = b.Collection.Clone()
	if b.Staking != nil {
		staking := *b.Staking
		clone.Staking = &staking
	}
	return &clone
}

// SanitizeBucket validates a bucket definition before it is persisted.
func SanitizeBucket(b *Bucket) (*Bucket, error) {
	if b == nil {
		return nil, fmt.Errorf("nil bucket")
	}
	clone := b.Clone()
	if clone.DropletMint == (types.TokenID{}) {
		return nil, fmt.Errorf("bucket: zero droplet mint")
	}
	if err := clone.Collection.Validate(); err != nil {
		return nil, err
	}
	if clone.InterestScaler > droplet.MaxInterestScaler {
		return nil, ErrInterestScalerInvalid
	}
	if clone.Staking != nil && !clone.Staking.Valid() {
		return nil, ErrStakingParamsInvalid
	}
	if clone.StakingEnabled && clone.Staking == nil {
		return nil, ErrStakingParamsInvalid
	}
	return clone, nil
}

// DepositRecord exists for every (bucket, item) pair held directly by the
// bucket, outside any locker.
type DepositRecord struct {
	DropletMint types.TokenID
	Item        types.ItemID
}

// LockerRecord exists while an item collateralizes an open loan.
type LockerRecord struct {
	DropletMint       types.TokenID
	Item              types.ItemID
	Depositor         types.Address
	CreationTimestamp uint64
	Duration          uint64
	Principal         uint64
	MaxInterest       uint64
}

// Expiry is the instant the loan defaults.
func (l *LockerRecord) Expiry() uint64 {
	return l.CreationTimestamp + l.Duration
}

// Clone returns a copy of the locker record.
func (l *LockerRecord) Clone() *LockerRecord {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

// Config carries the fixed identities the engine routes value through. It
// is injected at construction so tests can substitute alternate treasuries.
type Config struct {
	// Admin authorizes the administrative surface.
	Admin types.Address
	// CustodyAuthority holds pooled items and swept residual balances.
	CustodyAuthority types.Address
	// Treasury receives the treasury share of redemption and swap fees.
	Treasury types.Address
	// LockersTreasury receives loan interest and the liquidation vault.
	LockersTreasury types.Address
	// Distributor accumulates the distributor fee share for later
	// revenue distribution.
	Distributor types.Address
}

// Validate rejects configs with missing identities.
func (c Config) Validate() error {
	for _, addr := range []types.Address{c.Admin, c.CustodyAuthority, c.Treasury, c.LockersTreasury, c.Distributor} {
		if addr.IsZero() {
			return fmt.Errorf("bucket engine: config address not set")
		}
	}
	return nil
}

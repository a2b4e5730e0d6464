package bucket

import (
	"dropletvault/core/types"
	"dropletvault/native/fees"
	"dropletvault/native/loan"
)

// Bucket returns a copy of the stored bucket.
func (e *Engine) Bucket(mint types.TokenID) (*Bucket, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return nil, err
	}
	return b.Clone(), nil
}

// Locker returns a copy of the open locker for an item.
func (e *Engine) Locker(mint types.TokenID, item types.ItemID) (*LockerRecord, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	locker, ok, err := e.state.LockerGet(mint, item)
	if err != nil {
		return nil, err
	}
	if !ok || locker == nil {
		return nil, ErrLockerNotFound
	}
	return locker.Clone(), nil
}

// IsDeposited reports whether the bucket holds the item directly.
func (e *Engine) IsDeposited(mint types.TokenID, item types.ItemID) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	_, ok, err := e.state.DepositGet(mint, item)
	return ok, err
}

// SwapEligible reports whether the caller holds an unconsumed swap
// eligibility for the bucket.
func (e *Engine) SwapEligible(mint types.TokenID, caller types.Address) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	return e.state.SwapFlagGet(mint, caller)
}

// RevenuePartners returns the configured revenue split for a bucket.
func (e *Engine) RevenuePartners(mint types.TokenID) ([]fees.RevenuePartner, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	partners, err := e.state.RevenuePartnersGet(mint)
	if err != nil {
		return nil, err
	}
	return fees.ClonePartners(partners), nil
}

// QuoteLock prices a prospective loan without mutating anything. The quote
// includes the new locker's own weight, matching what Lock would mint.
func (e *Engine) QuoteLock(mint types.TokenID, duration uint64) (loan.QuoteResult, error) {
	if e == nil || e.state == nil {
		return loan.QuoteResult{}, errNilState
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return loan.QuoteResult{}, err
	}
	if !b.LockingEnabled {
		return loan.QuoteResult{}, ErrLockersDisabled
	}
	if b.ItemsHeld == 0 {
		return loan.QuoteResult{}, ErrBucketEmpty
	}
	if duration == 0 || duration > b.MaxLockerDuration {
		return loan.QuoteResult{}, ErrLockerDurationInvalid
	}
	return loan.Quote(loan.QuoteArgs{
		MaxDuration:    b.MaxLockerDuration,
		ItemsHeld:      b.ItemsHeld,
		ItemsInLockers: b.ItemsInLockers + 1,
		InterestScaler: b.InterestScaler,
		Duration:       duration,
	})
}

// AccruedInterest reports the interest owed on a locker at the engine
// clock's current instant.
func (e *Engine) AccruedInterest(mint types.TokenID, item types.ItemID) (uint64, error) {
	locker, err := e.Locker(mint, item)
	if err != nil {
		return 0, err
	}
	return loan.Accrue(e.now(), locker.CreationTimestamp, locker.Duration, locker.MaxInterest)
}

package bucket

import (
	"dropletvault/core/types"
	"dropletvault/native/collection"
	"dropletvault/native/droplet"
	"dropletvault/native/fees"
)

func (e *Engine) requireAdmin(caller types.Address) error {
	if caller != e.cfg.Admin {
		return ErrAdminAccessUnauthorized
	}
	return nil
}

// SetLockingEnabled toggles locker creation and liquidation for a bucket.
// Existing lockers keep accruing and may still be unlocked while disabled.
func (e *Engine) SetLockingEnabled(caller types.Address, mint types.TokenID, enabled bool) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	b.LockingEnabled = enabled
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	e.emit(&LockingToggled{DropletMint: mint, Signer: caller, Enabled: enabled})
	return nil
}

// UpdateLockingParams replaces the loan pricing inputs for a bucket.
// Ongoing lockers are untouched; the new parameters apply from the next
// Lock onward.
func (e *Engine) UpdateLockingParams(caller types.Address, mint types.TokenID, maxDuration uint64, interestScaler uint8) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if maxDuration == 0 {
		return ErrLockerDurationInvalid
	}
	if interestScaler > droplet.MaxInterestScaler {
		return ErrInterestScalerInvalid
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	b.MaxLockerDuration = maxDuration
	b.InterestScaler = interestScaler
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	e.emit(&LockingParamsUpdated{DropletMint: mint, Signer: caller, MaxDuration: maxDuration, InterestScaler: interestScaler})
	return nil
}

// UpdateCollectionInfo replaces the membership descriptor for a bucket.
// Items already held stay held; the new descriptor gates future deposits
// and locks only.
func (e *Engine) UpdateCollectionInfo(caller types.Address, mint types.TokenID, descriptor collection.Descriptor) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := descriptor.Validate(); err != nil {
		return err
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	b.Collection = descriptor.Clone()
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	e.emit(&CollectionUpdated{DropletMint: mint, Signer: caller})
	return nil
}

// UpdateRevenuePartners installs the revenue split for a bucket. Shares
// must cover the whole distribution exactly.
func (e *Engine) UpdateRevenuePartners(caller types.Address, mint types.TokenID, partners []fees.RevenuePartner) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if _, err := e.loadBucket(mint); err != nil {
		return err
	}
	if err := fees.ValidatePartners(partners); err != nil {
		return err
	}
	if err := e.state.RevenuePartnersPut(mint, fees.ClonePartners(partners)); err != nil {
		return err
	}
	e.emit(&RevenuePartnersUpdated{DropletMint: mint, Signer: caller, Partners: len(partners)})
	return nil
}

// DistributeRevenue pays out the distributor's entire droplet balance to
// the configured partners according to their basis point shares. Rounding
// dust from floor division stays with the distributor.
func (e *Engine) DistributeRevenue(caller types.Address, mint types.TokenID) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if _, err := e.loadBucket(mint); err != nil {
		return err
	}
	partners, err := e.state.RevenuePartnersGet(mint)
	if err != nil {
		return err
	}
	if len(partners) == 0 {
		return ErrRevenueDistributionInvalid
	}
	balance, err := e.ledger.BalanceFungible(mint, e.cfg.Distributor)
	if err != nil {
		return err
	}
	shares, err := fees.RevenueShares(balance, partners)
	if err != nil {
		return err
	}
	var paid uint64
	for _, share := range shares {
		if share.Amount == 0 {
			continue
		}
		if err := e.ledger.MoveFungible(mint, e.cfg.Distributor, share.Recipient, share.Amount); err != nil {
			return err
		}
		paid += share.Amount
	}
	e.emit(&RevenueDistributed{DropletMint: mint, Signer: caller, Total: paid, Partners: len(shares)})
	return nil
}

// ClaimBalance sweeps any droplets stranded on the custody authority into
// the treasury.
func (e *Engine) ClaimBalance(caller types.Address, mint types.TokenID) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if _, err := e.loadBucket(mint); err != nil {
		return err
	}
	balance, err := e.ledger.BalanceFungible(mint, e.cfg.CustodyAuthority)
	if err != nil {
		return err
	}
	if balance == 0 {
		return nil
	}
	if err := e.ledger.MoveFungible(mint, e.cfg.CustodyAuthority, e.cfg.Treasury, balance); err != nil {
		return err
	}
	e.emit(&BalanceClaimed{DropletMint: mint, Signer: caller, Amount: balance})
	return nil
}

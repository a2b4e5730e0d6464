package bucket

import (
	"dropletvault/core/types"
)

// SetStakingEnabled toggles the external staking integration for a bucket.
// Staking parameters must already be configured before it can be enabled.
func (e *Engine) SetStakingEnabled(caller types.Address, mint types.TokenID, enabled bool) error {
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
	if enabled && (b.Staking == nil || !b.Staking.Valid()) {
		return ErrStakingParamsInvalid
	}
	b.StakingEnabled = enabled
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	e.emit(&StakingToggled{DropletMint: mint, Signer: caller, Enabled: enabled})
	return nil
}

// UpdateStakingParams records the identities of the external farm the
// bucket's held items may be staked into.
func (e *Engine) UpdateStakingParams(caller types.Address, mint types.TokenID, params StakingParams) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if !params.Valid() {
		return ErrStakingParamsInvalid
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	clone := params
	b.Staking = &clone
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	e.emit(&StakingParamsUpdated{DropletMint: mint, Signer: caller})
	return nil
}

func (e *Engine) stakingReady(mint types.TokenID, item types.ItemID) (*Bucket, error) {
	if e.farm == nil {
		return nil, errNilFarm
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return nil, err
	}
	if !b.StakingEnabled || b.Staking == nil || !b.Staking.Valid() {
		return nil, ErrStakingDisabled
	}
	if _, ok, err := e.state.DepositGet(mint, item); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrDepositNotFound
	}
	cfg, err := e.farm.Config()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// StakeItem places a held item into the configured external farm. The item
// stays a member of the bucket; only custody of the physical token moves.
func (e *Engine) StakeItem(caller types.Address, mint types.TokenID, item types.ItemID) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if _, err := e.stakingReady(mint, item); err != nil {
		return err
	}
	if err := e.farm.Stake(item); err != nil {
		return err
	}
	e.emit(&ItemStaked{DropletMint: mint, Item: item, Signer: caller})
	return nil
}

// UnstakeItem withdraws a held item from the external farm back into plain
// custody. Cooldown errors from the farm surface unchanged so callers can
// retry once the period lapses.
func (e *Engine) UnstakeItem(caller types.Address, mint types.TokenID, item types.ItemID) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if _, err := e.stakingReady(mint, item); err != nil {
		return err
	}
	if err := e.farm.Unstake(item); err != nil {
		return err
	}
	e.emit(&ItemUnstaked{DropletMint: mint, Item: item, Signer: caller})
	return nil
}

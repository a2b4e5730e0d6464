// Package farm is the boundary to the external staking integration. The
// engine only validates the farm's configuration and delegates stake and
// unstake requests; reward mechanics stay entirely on the farm side.
package farm

import (
	"errors"

	"dropletvault/core/types"
)

// MinUnstakingFee is the smallest non-zero unstaking fee a farm may charge
// for its configuration to be considered sane.
const MinUnstakingFee uint64 = 890_880

var (
	// ErrConfigInvalid is returned when a farm's configuration is not
	// suitable for custody staking.
	ErrConfigInvalid = errors.New("farm: config not suitable for staking")

	// ErrCooldownPending is returned when an unstake request is made
	// while the farm still holds the item in its cooldown window.
	ErrCooldownPending = errors.New("farm: cooldown period pending")
)

// Config is the subset of farm configuration the engine inspects before
// engaging.
type Config struct {
	MinStakingPeriodSec uint64
	CooldownPeriodSec   uint64
	UnstakingFee        uint64
}

// Validate rejects farms whose configuration could trap custody items:
// any minimum staking period or cooldown would block redemption, and a
// dust-level unstaking fee signals a misconfigured treasury.
func (c Config) Validate() error {
	if c.MinStakingPeriodSec != 0 || c.CooldownPeriodSec != 0 {
		return ErrConfigInvalid
	}
	if c.UnstakingFee != 0 && c.UnstakingFee < MinUnstakingFee {
		return ErrConfigInvalid
	}
	return nil
}

// Farm is the external staking collaborator.
type Farm interface {
	Config() (Config, error)
	Stake(item types.ItemID) error
	Unstake(item types.ItemID) error
}

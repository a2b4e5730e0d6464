package farm

import (
	"errors"
	"sync"

	"dropletvault/core/types"
)

// ErrNotStaked is returned when an unstake request names an item the farm
// does not hold.
var ErrNotStaked = errors.New("farm: item not staked")

// Passthrough is the farm used by self-contained deployments: it accepts
// stakes immediately, charges nothing and enforces no cooldown. It exists
// so the staking surface stays exercised without an external reward
// program.
type Passthrough struct {
	mu     sync.Mutex
	staked map[types.ItemID]bool
}

// NewPassthrough returns an empty passthrough farm.
func NewPassthrough() *Passthrough {
	return &Passthrough{staked: make(map[types.ItemID]bool)}
}

// Config implements the Farm interface.
func (f *Passthrough) Config() (Config, error) {
	return Config{}, nil
}

// Stake implements the Farm interface.
func (f *Passthrough) Stake(item types.ItemID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staked[item] = true
	return nil
}

// Unstake implements the Farm interface.
func (f *Passthrough) Unstake(item types.ItemID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.staked[item] {
		return ErrNotStaked
	}
	delete(f.staked, item)
	return nil
}

// Staked reports whether the farm currently holds the item.
func (f *Passthrough) Staked(item types.ItemID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.staked[item]
}

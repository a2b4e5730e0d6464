package bucket

import "dropletvault/core/types"

// Ledger is the external balance-moving collaborator. In production the
// calls are remote invocations with their own failure modes; every method
// returns an explicit error and the engine issues them only after all
// validation has passed. The engine never inspects ledger internals.
type Ledger interface {
	// MoveFungible transfers droplet base units between holding accounts.
	MoveFungible(token types.TokenID, from, to types.Address, amount uint64) error
	// MintFungible creates new droplet base units in the destination.
	MintFungible(token types.TokenID, to types.Address, amount uint64) error
	// BurnFungible destroys droplet base units held by the source.
	BurnFungible(token types.TokenID, from types.Address, amount uint64) error
	// BalanceFungible reports the droplet balance of an account. Unlock
	// needs it to gate repayment before issuing any burn.
	BalanceFungible(token types.TokenID, account types.Address) (uint64, error)
	// MoveItem transfers custody of a single item.
	MoveItem(item types.ItemID, from, to types.Address) error
	// CloseEmptyAccount reclaims the emptied per-item custody account
	// after an item leaves the pool.
	CloseEmptyAccount(holder types.Address, item types.ItemID) error
}

// Package bank is the in-process balance ledger used when the daemon runs
// self-contained. It keeps droplet balances, per-token supply and item
// custody on the same key-value database as the vault records. Deployments
// that settle against an external token program replace it behind the
// engine's ledger interface.
package bank

import (
	"encoding/binary"
	"errors"
	"fmt"

	"dropletvault/core/types"
	"dropletvault/storage"
)

var (
	// ErrInsufficientBalance is returned when a transfer or burn exceeds
	// the source balance.
	ErrInsufficientBalance = errors.New("bank ledger: insufficient balance")

	// ErrItemNotHeld is returned when an item transfer names a source
	// that does not hold the item.
	ErrItemNotHeld = errors.New("bank ledger: item not held by source")
)

var (
	balancePrefix = []byte("bank/balance/")
	supplyPrefix  = []byte("bank/supply/")
	itemPrefix    = []byte("bank/item/")
)

// Ledger is a storage-backed implementation of the engine's ledger
// collaborator.
type Ledger struct {
	db storage.Database
}

// NewLedger wraps a database in a ledger.
func NewLedger(db storage.Database) *Ledger {
	return &Ledger{db: db}
}

func balanceKey(token types.TokenID, account types.Address) []byte {
	key := append(append([]byte(nil), balancePrefix...), token[:]...)
	return append(key, account[:]...)
}

func supplyKey(token types.TokenID) []byte {
	return append(append([]byte(nil), supplyPrefix...), token[:]...)
}

func itemKey(item types.ItemID) []byte {
	return append(append([]byte(nil), itemPrefix...), item[:]...)
}

func (l *Ledger) readAmount(key []byte) (uint64, error) {
	raw, err := l.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("bank ledger: corrupt amount record")
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (l *Ledger) writeAmount(key []byte, amount uint64) error {
	if amount == 0 {
		return l.db.Delete(key)
	}
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, amount)
	return l.db.Put(key, raw)
}

// BalanceFungible reports the droplet balance of an account.
func (l *Ledger) BalanceFungible(token types.TokenID, account types.Address) (uint64, error) {
	return l.readAmount(balanceKey(token, account))
}

// Supply reports the outstanding supply of a token.
func (l *Ledger) Supply(token types.TokenID) (uint64, error) {
	return l.readAmount(supplyKey(token))
}

// MoveFungible transfers droplet base units between accounts.
func (l *Ledger) MoveFungible(token types.TokenID, from, to types.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	fromBalance, err := l.readAmount(balanceKey(token, from))
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return ErrInsufficientBalance
	}
	toBalance, err := l.readAmount(balanceKey(token, to))
	if err != nil {
		return err
	}
	if toBalance+amount < toBalance {
		return fmt.Errorf("bank ledger: balance overflow")
	}
	if err := l.writeAmount(balanceKey(token, from), fromBalance-amount); err != nil {
		return err
	}
	return l.writeAmount(balanceKey(token, to), toBalance+amount)
}

// MintFungible creates new droplet base units in the destination account.
func (l *Ledger) MintFungible(token types.TokenID, to types.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	supply, err := l.readAmount(supplyKey(token))
	if err != nil {
		return err
	}
	if supply+amount < supply {
		return fmt.Errorf("bank ledger: supply overflow")
	}
	balance, err := l.readAmount(balanceKey(token, to))
	if err != nil {
		return err
	}
	if err := l.writeAmount(supplyKey(token), supply+amount); err != nil {
		return err
	}
	return l.writeAmount(balanceKey(token, to), balance+amount)
}

// BurnFungible destroys droplet base units held by the source account.
func (l *Ledger) BurnFungible(token types.TokenID, from types.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance, err := l.readAmount(balanceKey(token, from))
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientBalance
	}
	supply, err := l.readAmount(supplyKey(token))
	if err != nil {
		return err
	}
	if supply < amount {
		return fmt.Errorf("bank ledger: supply underflow")
	}
	if err := l.writeAmount(balanceKey(token, from), balance-amount); err != nil {
		return err
	}
	return l.writeAmount(supplyKey(token), supply-amount)
}

// ItemOwner reports the current holder of an item, if recorded.
func (l *Ledger) ItemOwner(item types.ItemID) (types.Address, bool, error) {
	raw, err := l.db.Get(itemKey(item))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.Address{}, false, nil
		}
		return types.Address{}, false, err
	}
	var owner types.Address
	if len(raw) != len(owner) {
		return types.Address{}, false, fmt.Errorf("bank ledger: corrupt item record")
	}
	copy(owner[:], raw)
	return owner, true, nil
}

// MoveItem transfers custody of an item. A first transfer registers the
// item; later transfers must name the recorded holder as the source.
func (l *Ledger) MoveItem(item types.ItemID, from, to types.Address) error {
	owner, known, err := l.ItemOwner(item)
	if err != nil {
		return err
	}
	if known && owner != from {
		return ErrItemNotHeld
	}
	return l.db.Put(itemKey(item), to[:])
}

// CloseEmptyAccount is a no-op for the in-process ledger; item custody
// is a single record, not a per-holder account that needs reclaiming.
func (l *Ledger) CloseEmptyAccount(holder types.Address, item types.ItemID) error {
	return nil
}

package bank

import (
	"errors"
	"testing"

	"dropletvault/core/types"
	"dropletvault/storage"
)

func id32(b byte) [32]byte {
	var out [32]byte
	out[0] = b
	return out
}

func TestMintMoveBurn(t *testing.T) {
	ledger := NewLedger(storage.NewMemDB())
	token := types.TokenID(id32(0x10))
	alice := types.Address(id32(0x01))
	bob := types.Address(id32(0x02))

	if err := ledger.MintFungible(token, alice, 1_000); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if supply, _ := ledger.Supply(token); supply != 1_000 {
		t.Fatalf("supply = %d", supply)
	}
	if err := ledger.MoveFungible(token, alice, bob, 400); err != nil {
		t.Fatalf("move: %v", err)
	}
	if balance, _ := ledger.BalanceFungible(token, alice); balance != 600 {
		t.Fatalf("alice = %d", balance)
	}
	if balance, _ := ledger.BalanceFungible(token, bob); balance != 400 {
		t.Fatalf("bob = %d", balance)
	}
	if err := ledger.MoveFungible(token, alice, bob, 601); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("overdraft: %v", err)
	}
	if err := ledger.BurnFungible(token, bob, 400); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if supply, _ := ledger.Supply(token); supply != 600 {
		t.Fatalf("supply after burn = %d", supply)
	}
	if err := ledger.BurnFungible(token, bob, 1); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("burn from empty: %v", err)
	}
}

func TestZeroAmountsAreNoops(t *testing.T) {
	ledger := NewLedger(storage.NewMemDB())
	token := types.TokenID(id32(0x10))
	alice := types.Address(id32(0x01))

	if err := ledger.MoveFungible(token, alice, alice, 0); err != nil {
		t.Fatalf("zero move: %v", err)
	}
	if err := ledger.MintFungible(token, alice, 0); err != nil {
		t.Fatalf("zero mint: %v", err)
	}
	if err := ledger.BurnFungible(token, alice, 0); err != nil {
		t.Fatalf("zero burn: %v", err)
	}
}

func TestItemCustody(t *testing.T) {
	ledger := NewLedger(storage.NewMemDB())
	item := types.ItemID(id32(0x01))
	alice := types.Address(id32(0x01))
	custody := types.Address(id32(0x02))

	if _, known, _ := ledger.ItemOwner(item); known {
		t.Fatal("item should be unknown")
	}
	if err := ledger.MoveItem(item, alice, custody); err != nil {
		t.Fatalf("first move: %v", err)
	}
	if owner, known, _ := ledger.ItemOwner(item); !known || owner != custody {
		t.Fatalf("owner = %v known=%v", owner, known)
	}
	if err := ledger.MoveItem(item, alice, alice); !errors.Is(err, ErrItemNotHeld) {
		t.Fatalf("move from wrong source: %v", err)
	}
	if err := ledger.MoveItem(item, custody, alice); err != nil {
		t.Fatalf("move back: %v", err)
	}
}

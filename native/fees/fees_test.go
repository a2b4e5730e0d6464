package fees

import (
	"errors"
	"testing"

	"dropletvault/core/types"
	"dropletvault/native/droplet"
)

func partnerAddr(b byte) types.Address {
	var out types.Address
	out[0] = b
	return out
}

func TestFlatFee(t *testing.T) {
	fee, err := FlatFee(droplet.FullItemValue, droplet.RedeemFeeBps)
	if err != nil {
		t.Fatalf("redeem fee: %v", err)
	}
	if fee != 200_000_000 {
		t.Fatalf("redeem fee = %d", fee)
	}
	fee, err = FlatFee(droplet.FullItemValue, droplet.SwapFeeBps)
	if err != nil {
		t.Fatalf("swap fee: %v", err)
	}
	if fee != 50_000_000 {
		t.Fatalf("swap fee = %d", fee)
	}
	// Fees floor toward zero on small totals.
	if fee, _ := FlatFee(49, droplet.SwapFeeBps); fee != 0 {
		t.Fatalf("dust fee = %d", fee)
	}
}

func TestDistributorShare(t *testing.T) {
	distributor, treasury, err := DistributorShare(200_000_000, droplet.DistributorFeeBps)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if distributor != 20_000_000 || treasury != 180_000_000 {
		t.Fatalf("split = %d/%d", distributor, treasury)
	}
	// Odd totals must still reconstitute exactly.
	distributor, treasury, err = DistributorShare(7, droplet.DistributorFeeBps)
	if err != nil {
		t.Fatalf("odd split: %v", err)
	}
	if distributor+treasury != 7 {
		t.Fatalf("odd split = %d/%d", distributor, treasury)
	}
}

func TestLiquidationSplit(t *testing.T) {
	reward, vault, err := LiquidationSplit(333_333_334)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if reward != 66_666_666 {
		t.Fatalf("reward = %d", reward)
	}
	if reward+vault != 333_333_334 {
		t.Fatalf("split does not reconstitute: %d + %d", reward, vault)
	}
	reward, vault, err = LiquidationSplit(0)
	if err != nil || reward != 0 || vault != 0 {
		t.Fatalf("zero deficit: %d %d %v", reward, vault, err)
	}
}

func TestValidatePartners(t *testing.T) {
	valid := []RevenuePartner{
		{Recipient: partnerAddr(1), ShareBps: 6_000},
		{Recipient: partnerAddr(2), ShareBps: 4_000},
	}
	if err := ValidatePartners(valid); err != nil {
		t.Fatalf("valid table: %v", err)
	}
	cases := map[string][]RevenuePartner{
		"empty":      {},
		"zero addr":  {{Recipient: types.Address{}, ShareBps: 10_000}},
		"short sum":  {{Recipient: partnerAddr(1), ShareBps: 9_999}},
		"over sum":   {{Recipient: partnerAddr(1), ShareBps: 10_001}},
		"split sum":  {{Recipient: partnerAddr(1), ShareBps: 5_000}, {Recipient: partnerAddr(2), ShareBps: 5_001}},
	}
	for name, partners := range cases {
		if err := ValidatePartners(partners); !errors.Is(err, ErrPartnersInvalid) {
			t.Fatalf("%s: %v", name, err)
		}
	}
	tooMany := make([]RevenuePartner, 11)
	for i := range tooMany {
		tooMany[i] = RevenuePartner{Recipient: partnerAddr(byte(i + 1)), ShareBps: 1_000}
	}
	if err := ValidatePartners(tooMany); !errors.Is(err, ErrPartnersInvalid) {
		t.Fatalf("too many partners: %v", err)
	}
}

func TestRevenueShares(t *testing.T) {
	partners := []RevenuePartner{
		{Recipient: partnerAddr(1), ShareBps: 7_000},
		{Recipient: partnerAddr(2), ShareBps: 3_000},
	}
	shares, err := RevenueShares(1_000_003, partners)
	if err != nil {
		t.Fatalf("shares: %v", err)
	}
	if shares[0].Amount != 700_002 || shares[1].Amount != 300_000 {
		t.Fatalf("shares = %d/%d", shares[0].Amount, shares[1].Amount)
	}
	// Floor division may leave dust; payouts never exceed the total.
	if shares[0].Amount+shares[1].Amount > 1_000_003 {
		t.Fatal("shares exceed total")
	}
}

func TestClonePartners(t *testing.T) {
	original := []RevenuePartner{{Recipient: partnerAddr(1), ShareBps: 10_000}}
	clone := ClonePartners(original)
	clone[0].ShareBps = 1
	if original[0].ShareBps != 10_000 {
		t.Fatal("clone aliases original")
	}
	if ClonePartners(nil) != nil {
		t.Fatal("nil table should clone to nil")
	}
}

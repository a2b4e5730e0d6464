// Package fees computes the fee splits applied on every value-moving
// operation: flat redemption and swap fees, the distributor/treasury carve,
// revenue partner payouts, and the liquidation reward. All splits are pure
// integer arithmetic and must reconstitute their totals exactly.
package fees

import (
	"errors"
	"fmt"

	"dropletvault/core/types"
	"dropletvault/native/droplet"
)

var (
	// ErrSplitIncorrect is returned when a computed split fails to sum
	// back to its input total. This is a fatal condition, never coerced.
	ErrSplitIncorrect = errors.New("fees: split does not reconstitute total")

	// ErrPartnersInvalid is returned when a revenue partner table is
	// malformed or its shares do not sum to exactly 10,000 basis points.
	ErrPartnersInvalid = errors.New("fees: revenue partner table invalid")
)

// RevenuePartner is one recipient of the collected revenue and its share in
// basis points.
type RevenuePartner struct {
	Recipient types.Address
	ShareBps  uint16
}

// Share is one computed payout of a revenue distribution.
type Share struct {
	Recipient types.Address
	Amount    uint64
}

// FlatFee computes floor(total * feeBps / 10000).
func FlatFee(total, feeBps uint64) (uint64, error) {
	return droplet.MulDivFloor(total, feeBps, droplet.BpsDenominator)
}

// DistributorShare carves the distributor's cut out of a collected fee. The
// remainder goes to the treasury; the two parts always sum back to the fee.
func DistributorShare(feeAmount, distributorBps uint64) (distributor, treasury uint64, err error) {
	distributor, err = droplet.MulDivFloor(feeAmount, distributorBps, droplet.BpsDenominator)
	if err != nil {
		return 0, 0, err
	}
	treasury, err = droplet.CheckedSub(feeAmount, distributor)
	if err != nil {
		return 0, 0, err
	}
	if distributor+treasury != feeAmount {
		return 0, 0, ErrSplitIncorrect
	}
	return distributor, treasury, nil
}

// LiquidationSplit divides the minted deficit between the liquidator and the
// vault. The reward percentage is scaled by DropletsPerItem, mirroring the
// principal formula's percent-of-full-item convention.
func LiquidationSplit(deficit uint64) (reward, vault uint64, err error) {
	reward, err = droplet.MulDivFloor(deficit, droplet.LiquidationRewardPercent, droplet.DropletsPerItem)
	if err != nil {
		return 0, 0, err
	}
	vault, err = droplet.CheckedSub(deficit, reward)
	if err != nil {
		return 0, 0, err
	}
	if reward+vault != deficit {
		return 0, 0, ErrSplitIncorrect
	}
	return reward, vault, nil
}

// ValidatePartners checks a replacement revenue partner table: 1 to 10
// entries, no zero recipients, shares summing to exactly 10,000 basis
// points. Anything else rejects the whole update.
func ValidatePartners(partners []RevenuePartner) error {
	if len(partners) == 0 || len(partners) > 10 {
		return fmt.Errorf("%w: %d partners", ErrPartnersInvalid, len(partners))
	}
	var sum uint64
	for _, partner := range partners {
		if partner.Recipient.IsZero() {
			return fmt.Errorf("%w: zero recipient", ErrPartnersInvalid)
		}
		sum += uint64(partner.ShareBps)
	}
	if sum != droplet.BpsDenominator {
		return fmt.Errorf("%w: shares sum to %d basis points", ErrPartnersInvalid, sum)
	}
	return nil
}

// RevenueShares computes each partner's cut of the collected total. The
// table is assumed validated; rounding dust stays with the distributor
// account rather than being re-assigned.
func RevenueShares(total uint64, partners []RevenuePartner) ([]Share, error) {
	shares := make([]Share, 0, len(partners))
	for _, partner := range partners {
		amount, err := droplet.MulDivFloor(total, uint64(partner.ShareBps), droplet.BpsDenominator)
		if err != nil {
			return nil, err
		}
		shares = append(shares, Share{Recipient: partner.Recipient, Amount: amount})
	}
	return shares, nil
}

// ClonePartners returns a deep copy so stored tables cannot be mutated
// through a caller-held slice.
func ClonePartners(partners []RevenuePartner) []RevenuePartner {
	if partners == nil {
		return nil
	}
	return append([]RevenuePartner(nil), partners...)
}

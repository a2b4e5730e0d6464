// Package loan holds the pure locker-economics math: the quote computed when
// an item is pledged and the linear interest accrual applied while the loan
// is open. The functions are stateless; callers feed them live bucket
// counters and persist the results themselves.
package loan

import (
	"errors"

	"dropletvault/native/droplet"
)

var (
	// ErrDurationInvalid is returned when the requested duration is zero
	// or exceeds the bucket's maximum.
	ErrDurationInvalid = errors.New("loan: duration invalid")

	// ErrScalerInvalid is returned for interest scalers above 100.
	ErrScalerInvalid = errors.New("loan: interest scaler invalid")

	// ErrNotAccruing is returned when accrual is evaluated outside the
	// loan's active window.
	ErrNotAccruing = errors.New("loan: loan past its expiry")
)

// QuoteArgs carries the live bucket counters a quote is computed against.
// ItemsInLockers must already include the locker being opened.
type QuoteArgs struct {
	MaxDuration    uint64
	ItemsHeld      uint64
	ItemsInLockers uint64
	InterestScaler uint8
	Duration       uint64
}

// QuoteResult is the principal minted to the borrower and the maximum
// interest repayable at full term, both in droplet base units.
type QuoteResult struct {
	Principal   uint64
	MaxInterest uint64
}

// Quote prices a new locker. Interest grows with the share of the
// collection already locked and with the requested duration:
//
//	rawInterest = ceil(duration * itemsInLockers * fullValue /
//	                   (maxDuration * (itemsHeld + itemsInLockers)))
//
// The repayable interest is rawInterest scaled down by the bucket's
// interest scaler, while the principal is reduced by the unscaled
// rawInterest. The asymmetry is deliberate and load-bearing for solvency
// accounting; do not "fix" it here.
func Quote(args QuoteArgs) (QuoteResult, error) {
	if args.Duration == 0 || args.Duration > args.MaxDuration {
		return QuoteResult{}, ErrDurationInvalid
	}
	if args.InterestScaler > droplet.MaxInterestScaler {
		return QuoteResult{}, ErrScalerInvalid
	}

	total, err := droplet.CheckedAdd(args.ItemsHeld, args.ItemsInLockers)
	if err != nil {
		return QuoteResult{}, err
	}

	numerator, err := droplet.CheckedMul(args.Duration, args.ItemsInLockers)
	if err != nil {
		return QuoteResult{}, err
	}
	numerator, err = droplet.CheckedMul(numerator, droplet.DropletsPerItem)
	if err != nil {
		return QuoteResult{}, err
	}
	numerator, err = droplet.CheckedMul(numerator, droplet.UnitsPerDroplet)
	if err != nil {
		return QuoteResult{}, err
	}

	denominator, err := droplet.CheckedMul(args.MaxDuration, total)
	if err != nil {
		return QuoteResult{}, err
	}

	rawInterest, err := droplet.CeilDiv(numerator, denominator)
	if err != nil {
		return QuoteResult{}, err
	}

	scaledInterest, err := droplet.MulDivFloor(rawInterest, uint64(args.InterestScaler), uint64(droplet.MaxInterestScaler))
	if err != nil {
		return QuoteResult{}, err
	}

	principal, err := droplet.CheckedSub(droplet.FullItemValue, rawInterest)
	if err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{Principal: principal, MaxInterest: scaledInterest}, nil
}

// Accrue computes the interest owed at the given instant. Accrual is linear
// in elapsed time and reaches MaxInterest exactly at the end of the term;
// past the term the loan is in default and must be liquidated instead.
func Accrue(now, creationTimestamp, duration, maxInterest uint64) (uint64, error) {
	if duration == 0 {
		return 0, ErrDurationInvalid
	}
	expiry, err := droplet.CheckedAdd(creationTimestamp, duration)
	if err != nil {
		return 0, err
	}
	if now < creationTimestamp || now > expiry {
		return 0, ErrNotAccruing
	}
	elapsed := now - creationTimestamp
	return droplet.MulDivFloor(elapsed, maxInterest, duration)
}

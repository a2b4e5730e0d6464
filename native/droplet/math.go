package droplet

import (
	"errors"
	"math/bits"
)

// ErrAmountOverflow is returned when a checked uint64 operation would wrap.
// Overflow is always a fatal abort of the surrounding transition, never a
// silent wrap or clamp.
var ErrAmountOverflow = errors.New("droplet: amount overflow")

// CheckedMul multiplies two base-unit amounts, failing on overflow.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrAmountOverflow
	}
	return lo, nil
}

// CheckedAdd adds two base-unit amounts, failing on overflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// CheckedSub subtracts b from a, failing on underflow.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrAmountOverflow
	}
	return diff, nil
}

// CeilDiv divides rounding up: ceil(a/b). The divisor must be non-zero.
func CeilDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrAmountOverflow
	}
	adjusted, err := CheckedAdd(a, b-1)
	if err != nil {
		return 0, err
	}
	return adjusted / b, nil
}

// MulDivFloor computes floor(a*b/c) with an intermediate 128-bit product so
// fee splits on full-item values never overflow. The divisor must be
// non-zero and the quotient must fit in a uint64.
func MulDivFloor(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrAmountOverflow
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, ErrAmountOverflow
	}
	quo, _ := bits.Div64(hi, lo, c)
	return quo, nil
}

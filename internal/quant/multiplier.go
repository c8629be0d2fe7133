// Package quant converts real-valued requantization ratios into integer
// fixed-point multipliers and applies them without floating point.
package quant

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidScale is returned when a quantization scale is not a positive finite number.
	ErrInvalidScale = errors.New("quantization scale must be positive and finite")

	// ErrMultiplierOutOfRange is returned when a real multiplier lies outside (0, 1).
	// Quantized Mul does not support output scales smaller than the product of the
	// input scales.
	ErrMultiplierOutOfRange = errors.New("real multiplier must be in (0, 1)")
)

// maxShift is the largest total right shift Apply evaluates in int64.
// Products of an int32 and a Q0.31 mantissa are below 2^62 in magnitude,
// so beyond this shift every result rounds to zero.
const maxShift = 62

// Multiplier is a fixed-point approximation of a real number in (0, 1).
//
// It represents Value * 2^-(31+Shift), where Value holds the mantissa in
// [2^30, 2^31) (Q0.31) and Shift is the extra right shift.
type Multiplier struct {
	Value int32
	Shift int
}

// ComputeMultiplier derives the requantization multiplier for a quantized
// product: the real ratio is scaleA*scaleB/scaleOut.
func ComputeMultiplier(scaleA, scaleB, scaleOut float64) (Multiplier, error) {
	for _, s := range [...]float64{scaleA, scaleB, scaleOut} {
		if !(s > 0) || math.IsInf(s, 0) {
			return Multiplier{}, fmt.Errorf("%w: got %g", ErrInvalidScale, s)
		}
	}
	return QuantizeMultiplierSmallerThanOne(scaleA * scaleB / scaleOut)
}

// QuantizeMultiplierSmallerThanOne converts r in (0, 1) into a Multiplier.
//
// r is doubled until it lies in [0.5, 1), counting the doublings as the right
// shift; the normalized value is then rounded to a Q0.31 mantissa. A mantissa
// that rounds up to 2^31 saturates at MaxInt32.
func QuantizeMultiplierSmallerThanOne(r float64) (Multiplier, error) {
	if !(r > 0 && r < 1) {
		return Multiplier{}, fmt.Errorf("%w: got %g", ErrMultiplierOutOfRange, r)
	}

	shift := 0
	for r < 0.5 {
		r *= 2
		shift++
	}

	q := math.Round(r * (1 << 31))
	if q > math.MaxInt32 {
		q = math.MaxInt32
	}

	return Multiplier{Value: int32(q), Shift: shift}, nil
}

// Apply multiplies x by the fixed-point value and rounds once, half up:
//
//	floor((x*Value + 2^(30+Shift)) / 2^(31+Shift))
//
// Only integer arithmetic is used.
func (m Multiplier) Apply(x int32) int32 {
	total := 31 + m.Shift
	if total > maxShift {
		return 0
	}
	prod := int64(x) * int64(m.Value)
	return int32((prod + int64(1)<<(total-1)) >> total)
}

// Real returns the real number the multiplier stands for.
// Used for diagnostics; never on the evaluation path.
func (m Multiplier) Real() float64 {
	return math.Ldexp(float64(m.Value), -(31 + m.Shift))
}

// String formats the multiplier for logs.
func (m Multiplier) String() string {
	return fmt.Sprintf("%d>>%d (%.9g)", m.Value, 31+m.Shift, m.Real())
}

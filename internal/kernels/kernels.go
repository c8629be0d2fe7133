// Package kernels implements the elementwise multiply engines.
//
// Three strategies implement the same four kernels:
//   - Reference: scalar loops, the correctness oracle
//   - GenericOptimized: portable loop restructuring, no architecture-specific code
//   - SIMDOptimized: vector float rows where the CPU supports them, lane-blocked quantized rows
//
// Quantized results are bit-identical across strategies. Float results are
// identical too, since every path performs one correctly rounded multiply
// followed by the same clamp.
package kernels

import (
	"fmt"
	"strings"

	"github.com/born-ml/litemul/internal/quant"
	"github.com/born-ml/litemul/internal/tensor"
)

// Strategy selects a compute implementation.
type Strategy int

// Available strategies.
const (
	Reference Strategy = iota
	GenericOptimized
	SIMDOptimized
)

// Strategies lists every strategy in table order.
var Strategies = []Strategy{Reference, GenericOptimized, SIMDOptimized}

// String returns the canonical strategy name.
func (s Strategy) String() string {
	switch s {
	case Reference:
		return "reference"
	case GenericOptimized:
		return "generic"
	case SIMDOptimized:
		return "simd"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps a name to a Strategy. Accepts the canonical names and
// a few common aliases.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reference", "ref":
		return Reference, nil
	case "generic", "generic_opt", "generic-optimized":
		return GenericOptimized, nil
	case "simd", "simd_opt", "neon", "neon_opt", "simd-optimized":
		return SIMDOptimized, nil
	default:
		return Reference, fmt.Errorf("unknown kernel strategy %q (want reference, generic or simd)", name)
	}
}

// FloatArgs carries the operands of a float32 kernel.
type FloatArgs struct {
	A, B, Out                []float32
	AShape, BShape, OutShape tensor.Shape

	// Min and Max are the activation clamp bounds.
	Min, Max float32
}

// QuantArgs carries the operands of a quantized uint8 kernel.
type QuantArgs struct {
	A, B, Out                []uint8
	AShape, BShape, OutShape tensor.Shape

	// AOffset and BOffset are the negated input zero points, OutOffset is the
	// output zero point.
	AOffset, BOffset, OutOffset int32

	// Multiplier rescales the raw product into the output's scale.
	Multiplier quant.Multiplier

	// Min and Max are the activation clamp bounds, within [0, 255].
	Min, Max int32
}

// Kernels is the flat function table of one strategy.
type Kernels struct {
	Strategy Strategy

	// Mul multiplies same-shaped float operands.
	Mul func(args *FloatArgs)
	// BroadcastMul multiplies broadcast-compatible float operands.
	BroadcastMul func(args *FloatArgs)
	// MulQuantized multiplies same-shaped quantized operands. It saturates
	// to [0, 255] but ignores Min and Max; callers that need activation
	// bounds use BroadcastMulQuantized.
	MulQuantized func(args *QuantArgs)
	// BroadcastMulQuantized multiplies broadcast-compatible quantized operands.
	BroadcastMulQuantized func(args *QuantArgs)
}

var table = [...]Kernels{
	Reference: {
		Strategy:              Reference,
		Mul:                   referenceMulFloat32,
		BroadcastMul:          referenceBroadcastMulFloat32,
		MulQuantized:          referenceMulUint8,
		BroadcastMulQuantized: referenceBroadcastMulUint8,
	},
	GenericOptimized: {
		Strategy:              GenericOptimized,
		Mul:                   genericMulFloat32,
		BroadcastMul:          genericBroadcastMulFloat32,
		MulQuantized:          genericMulUint8,
		BroadcastMulQuantized: genericBroadcastMulUint8,
	},
	SIMDOptimized: {
		Strategy:              SIMDOptimized,
		Mul:                   simdMulFloat32,
		BroadcastMul:          simdBroadcastMulFloat32,
		MulQuantized:          simdMulUint8,
		BroadcastMulQuantized: simdBroadcastMulUint8,
	},
}

// For returns the kernel table of s. Panics on an unknown strategy.
func For(s Strategy) Kernels {
	if s < 0 || int(s) >= len(table) {
		panic(fmt.Sprintf("kernels: unknown strategy %d", int(s)))
	}
	return table[s]
}

// Default returns the fastest strategy usable on this machine.
func Default() Strategy {
	if Detected().Enabled {
		return SIMDOptimized
	}
	return GenericOptimized
}

// checkSameShape panics unless the operand lengths agree.
func checkSameShape(op string, na, nb, nout int) {
	if na != nb || nout < na {
		panic(fmt.Sprintf("%s: operand lengths differ: a=%d b=%d out=%d", op, na, nb, nout))
	}
}

// checkBroadcast panics unless every buffer covers its shape.
func checkBroadcast(op string, na, nb, nout int, aShape, bShape, outShape tensor.Shape) {
	if na < aShape.NumElements() || nb < bShape.NumElements() || nout < outShape.NumElements() {
		panic(fmt.Sprintf("%s: buffers too small for shapes a=%v b=%v out=%v", op, aShape, bShape, outShape))
	}
}

// Package activation computes the clamp bounds implied by a fused activation.
package activation

import (
	"fmt"
	"math"
	"strings"

	"github.com/chewxy/math32"

	"github.com/born-ml/litemul/internal/tensor"
)

// Activation is a fused activation applied to an operator's output.
type Activation int

// Supported fused activations.
const (
	None Activation = iota
	Relu
	ReluN1To1
	Relu6
)

// Representable range of a uint8 quantized value.
const (
	QuantizedMin int32 = 0
	QuantizedMax int32 = 255
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case None:
		return "none"
	case Relu:
		return "relu"
	case ReluN1To1:
		return "relu_n1_to_1"
	case Relu6:
		return "relu6"
	default:
		return fmt.Sprintf("activation(%d)", int(a))
	}
}

// ParseActivation maps a name (as printed by String) to an Activation.
func ParseActivation(s string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "relu":
		return Relu, nil
	case "relu1", "relu_n1_to_1":
		return ReluN1To1, nil
	case "relu6":
		return Relu6, nil
	default:
		return None, fmt.Errorf("unknown activation %q", s)
	}
}

// RangeFloat32 returns the float clamp bounds for act.
// Panics on an unknown activation.
func RangeFloat32(act Activation) (lo, hi float32) {
	switch act {
	case None:
		return -math32.MaxFloat32, math32.MaxFloat32
	case Relu:
		return 0, math32.MaxFloat32
	case ReluN1To1:
		return -1, 1
	case Relu6:
		return 0, 6
	default:
		panic(fmt.Sprintf("activation: unsupported fused activation %s", act))
	}
}

// RangeUint8 returns the clamp bounds for act in the integer domain of a
// uint8 tensor quantized with q, intersected with [0, 255].
// Panics on an unknown activation.
func RangeUint8(act Activation, q tensor.QuantParams) (lo, hi int32) {
	quantize := func(f float64) int32 {
		v := float64(q.ZeroPoint) + math.Round(f/float64(q.Scale))
		return int32(math.Max(math.MinInt32, math.Min(math.MaxInt32, v)))
	}

	switch act {
	case None:
		return QuantizedMin, QuantizedMax
	case Relu:
		return max(QuantizedMin, quantize(0)), QuantizedMax
	case ReluN1To1:
		return max(QuantizedMin, quantize(-1)), min(QuantizedMax, quantize(1))
	case Relu6:
		return max(QuantizedMin, quantize(0)), min(QuantizedMax, quantize(6))
	default:
		panic(fmt.Sprintf("activation: unsupported fused activation %s", act))
	}
}

// ClampFloat32 bounds x to [lo, hi]. NaN passes through unchanged.
func ClampFloat32(x, lo, hi float32) float32 {
	if x < lo {
		x = lo
	}
	if hi < x {
		x = hi
	}
	return x
}

// ClampInt32 bounds x to [lo, hi].
func ClampInt32(x, lo, hi int32) int32 {
	if x < lo {
		x = lo
	}
	if hi < x {
		x = hi
	}
	return x
}

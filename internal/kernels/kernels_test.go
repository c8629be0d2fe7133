package kernels

import (
	"fmt"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/litemul/internal/activation"
	"github.com/born-ml/litemul/internal/quant"
	"github.com/born-ml/litemul/internal/tensor"
)

// forEachStrategy runs fn under every strategy, and for the SIMD strategy
// also with its vector paths disabled.
func forEachStrategy(t *testing.T, fn func(t *testing.T, k Kernels)) {
	t.Helper()
	for _, s := range Strategies {
		t.Run(s.String(), func(t *testing.T) {
			fn(t, For(s))
		})
	}
	t.Run("simd-fallback", func(t *testing.T) {
		withFeatures(t, scalarFeatures())
		fn(t, For(SIMDOptimized))
	})
}

// withFeatures overrides the detected CPU features for the duration of a test.
func withFeatures(t *testing.T, f Features) {
	t.Helper()
	saved := detected
	detected = f
	t.Cleanup(func() { detected = saved })
}

func noClamp() (float32, float32) {
	return activation.RangeFloat32(activation.None)
}

func TestMulFloat32SameShape(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, k Kernels) {
		lo, hi := noClamp()
		out := make([]float32, 3)
		k.Mul(&FloatArgs{
			A: []float32{1, 2, 3}, B: []float32{4, 5, 6}, Out: out,
			AShape: tensor.Shape{3}, BShape: tensor.Shape{3}, OutShape: tensor.Shape{3},
			Min: lo, Max: hi,
		})
		assert.Equal(t, []float32{4, 10, 18}, out)
	})
}

func TestBroadcastMulFloat32(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, k Kernels) {
		lo, hi := noClamp()
		out := make([]float32, 4)
		k.BroadcastMul(&FloatArgs{
			A: []float32{2, 3}, B: []float32{1, 2, 3, 4}, Out: out,
			AShape: tensor.Shape{2, 1}, BShape: tensor.Shape{2, 2}, OutShape: tensor.Shape{2, 2},
			Min: lo, Max: hi,
		})
		assert.Equal(t, []float32{2, 4, 9, 12}, out)
	})
}

func TestBroadcastMulFloat32Shapes(t *testing.T) {
	tests := []struct {
		name                     string
		aShape, bShape, outShape tensor.Shape
		a, b, want               []float32
	}{
		{
			name:   "scalar times matrix",
			aShape: tensor.Shape{}, bShape: tensor.Shape{2, 3}, outShape: tensor.Shape{2, 3},
			a: []float32{2}, b: []float32{1, 2, 3, 4, 5, 6},
			want: []float32{2, 4, 6, 8, 10, 12},
		},
		{
			name:   "row times column",
			aShape: tensor.Shape{1, 3}, bShape: tensor.Shape{2, 1}, outShape: tensor.Shape{2, 3},
			a: []float32{1, 2, 3}, b: []float32{10, 100},
			want: []float32{10, 20, 30, 100, 200, 300},
		},
		{
			name:   "rank extension",
			aShape: tensor.Shape{3}, bShape: tensor.Shape{2, 3}, outShape: tensor.Shape{2, 3},
			a: []float32{1, 2, 3}, b: []float32{1, 1, 1, 2, 2, 2},
			want: []float32{1, 2, 3, 2, 4, 6},
		},
		{
			name:   "same shape through broadcast kernel",
			aShape: tensor.Shape{2, 2}, bShape: tensor.Shape{2, 2}, outShape: tensor.Shape{2, 2},
			a: []float32{1, 2, 3, 4}, b: []float32{5, 6, 7, 8},
			want: []float32{5, 12, 21, 32},
		},
		{
			name:   "empty",
			aShape: tensor.Shape{0, 1}, bShape: tensor.Shape{1, 4}, outShape: tensor.Shape{0, 4},
			a: nil, b: []float32{1, 2, 3, 4},
			want: []float32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forEachStrategy(t, func(t *testing.T, k Kernels) {
				lo, hi := noClamp()
				out := make([]float32, tt.outShape.NumElements())
				k.BroadcastMul(&FloatArgs{
					A: tt.a, B: tt.b, Out: out,
					AShape: tt.aShape, BShape: tt.bShape, OutShape: tt.outShape,
					Min: lo, Max: hi,
				})
				assert.Equal(t, tt.want, out)
			})
		})
	}
}

func TestMulFloat32Activation(t *testing.T) {
	a := []float32{-3, -0.5, 0.5, 1, 2, 3, 4, 5, 6, 7}
	b := []float32{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}

	tests := []struct {
		act  activation.Activation
		want []float32
	}{
		{activation.Relu, []float32{0, 0, 0.5, 1, 2, 3, 4, 5, 6, 7}},
		{activation.Relu6, []float32{0, 0, 0.5, 1, 2, 3, 4, 5, 6, 6}},
		{activation.ReluN1To1, []float32{-1, -0.5, 0.5, 1, 1, 1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.act.String(), func(t *testing.T) {
			forEachStrategy(t, func(t *testing.T, k Kernels) {
				lo, hi := activation.RangeFloat32(tt.act)
				shape := tensor.Shape{len(a)}

				out := make([]float32, len(a))
				k.Mul(&FloatArgs{A: a, B: b, Out: out, AShape: shape, BShape: shape, OutShape: shape, Min: lo, Max: hi})
				assert.Equal(t, tt.want, out, "mul")

				out = make([]float32, len(a))
				k.BroadcastMul(&FloatArgs{A: a, B: b[:1], Out: out, AShape: shape, BShape: tensor.Shape{1}, OutShape: shape, Min: lo, Max: hi})
				assert.Equal(t, tt.want, out, "broadcast mul")
			})
		})
	}
}

func TestMulFloat32ClampsInfinity(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, k Kernels) {
		lo, hi := noClamp()
		a := make([]float32, 9)
		b := make([]float32, 9)
		for i := range a {
			a[i], b[i] = 1e30, 1e30
		}
		b[0] = -1e30
		out := make([]float32, 9)
		shape := tensor.Shape{9}
		k.Mul(&FloatArgs{A: a, B: b, Out: out, AShape: shape, BShape: shape, OutShape: shape, Min: lo, Max: hi})

		assert.Equal(t, -float32(math32.MaxFloat32), out[0])
		assert.Equal(t, lo, out[0])
		for _, v := range out[1:] {
			assert.Equal(t, float32(math32.MaxFloat32), v)
			assert.Equal(t, hi, v)
		}
	})
}

func TestMulFloat32InPlace(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, k Kernels) {
		lo, hi := noClamp()
		a := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		b := []float32{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
		shape := tensor.Shape{10}

		// Output written over the second operand.
		k.Mul(&FloatArgs{A: a, B: b, Out: b, AShape: shape, BShape: shape, OutShape: shape, Min: lo, Max: hi})
		assert.Equal(t, []float32{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}, b)

		// Output written over the first operand.
		k.Mul(&FloatArgs{A: a, B: b, Out: a, AShape: shape, BShape: shape, OutShape: shape, Min: lo, Max: hi})
		assert.Equal(t, []float32{2, 8, 18, 32, 50, 72, 98, 128, 162, 200}, a)
	})
}

// quarterArgs builds quantized operands whose products requantize by 0.25.
func quarterArgs(t *testing.T, a, b []uint8, aShape, bShape, outShape tensor.Shape, lo, hi int32) *QuantArgs {
	t.Helper()
	m, err := quant.ComputeMultiplier(1, 1, 4)
	require.NoError(t, err)
	return &QuantArgs{
		A: a, B: b, Out: make([]uint8, outShape.NumElements()),
		AShape: aShape, BShape: bShape, OutShape: outShape,
		AOffset: 0, BOffset: -1, OutOffset: 10,
		Multiplier: m,
		Min:        lo, Max: hi,
	}
}

func TestBroadcastMulUint8(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, k Kernels) {
		shape := tensor.Shape{4}

		// (a - 0) * (b - 1) = 4, 8, 12, 16 -> *0.25 = 1, 2, 3, 4 -> +10.
		args := quarterArgs(t, []uint8{2, 4, 6, 8}, []uint8{3, 3, 3, 3}, shape, shape, shape, 0, 255)
		k.BroadcastMulQuantized(args)
		assert.Equal(t, []uint8{11, 12, 13, 14}, args.Out)

		args = quarterArgs(t, []uint8{2, 4, 6, 8}, []uint8{3}, shape, tensor.Shape{1}, shape, 0, 12)
		k.BroadcastMulQuantized(args)
		assert.Equal(t, []uint8{11, 12, 12, 12}, args.Out)
	})
}

func TestMulUint8IgnoresActivationBounds(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, k Kernels) {
		shape := tensor.Shape{4}
		args := quarterArgs(t, []uint8{2, 4, 6, 8}, []uint8{3, 3, 3, 3}, shape, shape, shape, 0, 12)
		k.MulQuantized(args)
		assert.Equal(t, []uint8{11, 12, 13, 14}, args.Out)
	})
}

func TestMulUint8Saturates(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, k Kernels) {
		n := 2 * laneWidth
		a := make([]uint8, n)
		b := make([]uint8, n)
		for i := range a {
			a[i] = 255
			b[i] = uint8(i % 2 * 255)
		}
		shape := tensor.Shape{n}

		m, err := quant.ComputeMultiplier(1, 1, 2)
		require.NoError(t, err)
		args := &QuantArgs{
			A: a, B: b, Out: make([]uint8, n),
			AShape: shape, BShape: shape, OutShape: shape,
			AOffset: -128, BOffset: -128, OutOffset: 128,
			Multiplier: m, Min: 0, Max: 255,
		}
		k.BroadcastMulQuantized(args)

		// 127 * -128 / 2 + 128 < 0 and 127 * 127 / 2 + 128 > 255.
		for i, v := range args.Out {
			if i%2 == 0 {
				assert.Equal(t, uint8(0), v, "index %d", i)
			} else {
				assert.Equal(t, uint8(255), v, "index %d", i)
			}
		}
	})
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for name, want := range map[string]Strategy{
		"ref":         Reference,
		"generic_opt": GenericOptimized,
		"NEON":        SIMDOptimized,
	} {
		got, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseStrategy("cuda")
	assert.Error(t, err)
}

func TestForUnknownStrategyPanics(t *testing.T) {
	assert.Panics(t, func() { For(Strategy(7)) })
	assert.Panics(t, func() { For(Strategy(-1)) })
}

func TestKernelsPanicOnShortBuffers(t *testing.T) {
	for _, s := range Strategies {
		k := For(s)
		t.Run(fmt.Sprint(s), func(t *testing.T) {
			assert.Panics(t, func() {
				k.Mul(&FloatArgs{A: make([]float32, 3), B: make([]float32, 2), Out: make([]float32, 3)})
			})
			assert.Panics(t, func() {
				k.BroadcastMul(&FloatArgs{
					A: make([]float32, 1), B: make([]float32, 4), Out: make([]float32, 3),
					AShape: tensor.Shape{1}, BShape: tensor.Shape{4}, OutShape: tensor.Shape{4},
				})
			})
		})
	}
}

func TestDefaultStrategy(t *testing.T) {
	withFeatures(t, Features{Level: "avx2", VectorBytes: 32, Enabled: true})
	assert.Equal(t, SIMDOptimized, Default())

	withFeatures(t, scalarFeatures())
	assert.Equal(t, GenericOptimized, Default())
}

package kernels

import (
	"math/rand"
	"testing"

	"github.com/born-ml/litemul/internal/activation"
	"github.com/born-ml/litemul/internal/quant"
	"github.com/born-ml/litemul/internal/tensor"
)

func BenchmarkMulFloat32(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	shape := tensor.Shape{64, 1024}
	n := shape.NumElements()
	lo, hi := activation.RangeFloat32(activation.Relu6)
	args := FloatArgs{
		A: randomFloat32(rng, n), B: randomFloat32(rng, n), Out: make([]float32, n),
		AShape: shape, BShape: shape, OutShape: shape, Min: lo, Max: hi,
	}

	for _, s := range Strategies {
		k := For(s)
		b.Run(s.String(), func(b *testing.B) {
			b.SetBytes(int64(n * 4))
			for i := 0; i < b.N; i++ {
				k.Mul(&args)
			}
		})
	}
}

func BenchmarkBroadcastMulFloat32(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	aShape, bShape, outShape := tensor.Shape{64, 1}, tensor.Shape{1, 1024}, tensor.Shape{64, 1024}
	lo, hi := activation.RangeFloat32(activation.None)
	args := FloatArgs{
		A: randomFloat32(rng, 64), B: randomFloat32(rng, 1024), Out: make([]float32, outShape.NumElements()),
		AShape: aShape, BShape: bShape, OutShape: outShape, Min: lo, Max: hi,
	}

	for _, s := range Strategies {
		k := For(s)
		b.Run(s.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				k.BroadcastMul(&args)
			}
		})
	}
}

func BenchmarkBroadcastMulUint8(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	shape := tensor.Shape{64, 1024}
	n := shape.NumElements()
	m, err := quant.ComputeMultiplier(0.05, 0.05, 0.1)
	if err != nil {
		b.Fatal(err)
	}
	args := QuantArgs{
		A: randomUint8(rng, n), B: randomUint8(rng, n), Out: make([]uint8, n),
		AShape: shape, BShape: shape, OutShape: shape,
		AOffset: -128, BOffset: -128, OutOffset: 128,
		Multiplier: m, Min: 0, Max: 255,
	}

	for _, s := range Strategies {
		k := For(s)
		b.Run(s.String(), func(b *testing.B) {
			b.SetBytes(int64(n))
			for i := 0; i < b.N; i++ {
				k.BroadcastMulQuantized(&args)
			}
		})
	}
}

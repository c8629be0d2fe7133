package kernels

import (
	"gorgonia.org/vecf32"

	"github.com/born-ml/litemul/internal/activation"
)

// laneWidth is the number of int32 lanes per quantized block.
const laneWidth = 8

// SIMD kernels. Float rows go through vecf32, which dispatches to vector
// assembly on amd64. Quantized rows are plain Go loops over fixed lane
// blocks; they are not vectorized.
// Without vector support every kernel runs the generic loops.
//
// Out may alias A or B exactly but must not partially overlap them.

func simdMulFloat32(args *FloatArgs) {
	checkSameShape("mul", len(args.A), len(args.B), len(args.Out))
	if !detected.Enabled {
		genericMulFloat32(args)
		return
	}
	n := len(args.A)
	vecMulRowFloat32(args.Out[:n], args.A, args.B, args.Min, args.Max)
}

func simdBroadcastMulFloat32(args *FloatArgs) {
	checkBroadcast("broadcast mul", len(args.A), len(args.B), len(args.Out), args.AShape, args.BShape, args.OutShape)
	if !detected.Enabled {
		genericBroadcastMulFloat32(args)
		return
	}
	planBroadcast(args.AShape, args.BShape, args.OutShape).forEachRow(func(r row) {
		if r.n < laneWidth {
			genericRowFloat32(args, r)
			return
		}
		out := args.Out[r.out : r.out+r.n]
		switch {
		case r.aStep == 1 && r.bStep == 1:
			vecMulRowFloat32(out, args.A[r.a:r.a+r.n], args.B[r.b:r.b+r.n], args.Min, args.Max)
		case r.aStep == 0 && r.bStep == 1:
			vecScaleRowFloat32(out, args.B[r.b:r.b+r.n], args.A[r.a], args.Min, args.Max)
		case r.aStep == 1 && r.bStep == 0:
			vecScaleRowFloat32(out, args.A[r.a:r.a+r.n], args.B[r.b], args.Min, args.Max)
		default:
			genericRowFloat32(args, r)
		}
	})
}

func vecMulRowFloat32(dst, a, b []float32, lo, hi float32) {
	n := len(dst)
	a, b = a[:n], b[:n]
	if n == 0 {
		return
	}
	if &dst[0] == &b[0] {
		// Product is commutative; multiply into b's storage directly.
		vecf32.Mul(dst, a)
	} else {
		copy(dst, a)
		vecf32.Mul(dst, b)
	}
	clampRowFloat32(dst, lo, hi)
}

func vecScaleRowFloat32(dst, src []float32, s, lo, hi float32) {
	copy(dst, src[:len(dst)])
	vecf32.Scale(dst, s)
	clampRowFloat32(dst, lo, hi)
}

func clampRowFloat32(dst []float32, lo, hi float32) {
	for i, v := range dst {
		dst[i] = activation.ClampFloat32(v, lo, hi)
	}
}

func simdMulUint8(args *QuantArgs) {
	checkSameShape("mul quantized", len(args.A), len(args.B), len(args.Out))
	r := row{n: len(args.A), aStep: 1, bStep: 1}
	if !detected.Enabled {
		genericRowUint8(args, r, activation.QuantizedMin, activation.QuantizedMax)
		return
	}
	laneRowUint8(args, r, activation.QuantizedMin, activation.QuantizedMax)
}

func simdBroadcastMulUint8(args *QuantArgs) {
	checkBroadcast("broadcast mul quantized", len(args.A), len(args.B), len(args.Out), args.AShape, args.BShape, args.OutShape)
	lo, hi := quantBounds(args)
	if !detected.Enabled {
		planBroadcast(args.AShape, args.BShape, args.OutShape).forEachRow(func(r row) {
			genericRowUint8(args, r, lo, hi)
		})
		return
	}
	planBroadcast(args.AShape, args.BShape, args.OutShape).forEachRow(func(r row) {
		laneRowUint8(args, r, lo, hi)
	})
}

// laneRowUint8 processes a row in laneWidth blocks of scalar Go code:
// widen to int32, multiply, requantize, clamp and narrow. Strided rows and the tail are
// handled element by element with the same arithmetic.
func laneRowUint8(args *QuantArgs, r row, lo, hi int32) {
	out := args.Out[r.out : r.out+r.n]
	m := args.Multiplier
	aOff, bOff, outOff := args.AOffset, args.BOffset, args.OutOffset

	if r.aStep > 1 || r.bStep > 1 || (r.aStep == 0 && r.bStep == 0) {
		genericRowUint8(args, r, lo, hi)
		return
	}

	var av, bv, acc [laneWidth]int32
	if r.aStep == 0 {
		for l := range av {
			av[l] = int32(args.A[r.a]) + aOff
		}
	}
	if r.bStep == 0 {
		for l := range bv {
			bv[l] = int32(args.B[r.b]) + bOff
		}
	}

	i := 0
	for ; i+laneWidth <= r.n; i += laneWidth {
		if r.aStep == 1 {
			a := args.A[r.a+i : r.a+i+laneWidth]
			for l := range av {
				av[l] = int32(a[l]) + aOff
			}
		}
		if r.bStep == 1 {
			b := args.B[r.b+i : r.b+i+laneWidth]
			for l := range bv {
				bv[l] = int32(b[l]) + bOff
			}
		}
		for l := range acc {
			acc[l] = av[l] * bv[l]
		}
		for l := range acc {
			acc[l] = m.Apply(acc[l]) + outOff
		}
		o := out[i : i+laneWidth]
		for l := range acc {
			o[l] = uint8(activation.ClampInt32(acc[l], lo, hi))
		}
	}

	for ; i < r.n; i++ {
		p := (int32(args.A[r.a+i*r.aStep]) + aOff) * (int32(args.B[r.b+i*r.bStep]) + bOff)
		out[i] = uint8(activation.ClampInt32(m.Apply(p)+outOff, lo, hi))
	}
}

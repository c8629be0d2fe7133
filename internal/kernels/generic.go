package kernels

import (
	"github.com/born-ml/litemul/internal/activation"
)

// Generic kernels: portable loop restructuring. Contiguous loops are
// unrolled by four and broadcasting walks rows instead of dividing out
// every output index.

func genericMulFloat32(args *FloatArgs) {
	checkSameShape("mul", len(args.A), len(args.B), len(args.Out))
	mulRowFloat32(args.Out[:len(args.A)], args.A, args.B, args.Min, args.Max)
}

func genericBroadcastMulFloat32(args *FloatArgs) {
	checkBroadcast("broadcast mul", len(args.A), len(args.B), len(args.Out), args.AShape, args.BShape, args.OutShape)
	planBroadcast(args.AShape, args.BShape, args.OutShape).forEachRow(func(r row) {
		genericRowFloat32(args, r)
	})
}

func genericRowFloat32(args *FloatArgs, r row) {
	out := args.Out[r.out : r.out+r.n]
	switch {
	case r.aStep == 1 && r.bStep == 1:
		mulRowFloat32(out, args.A[r.a:r.a+r.n], args.B[r.b:r.b+r.n], args.Min, args.Max)
	case r.aStep == 0 && r.bStep == 1:
		scaleRowFloat32(out, args.B[r.b:r.b+r.n], args.A[r.a], args.Min, args.Max)
	case r.aStep == 1 && r.bStep == 0:
		scaleRowFloat32(out, args.A[r.a:r.a+r.n], args.B[r.b], args.Min, args.Max)
	default:
		ai, bi := r.a, r.b
		for i := range out {
			out[i] = activation.ClampFloat32(args.A[ai]*args.B[bi], args.Min, args.Max)
			ai += r.aStep
			bi += r.bStep
		}
	}
}

func mulRowFloat32(dst, a, b []float32, lo, hi float32) {
	n := len(dst)
	a, b = a[:n], b[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = activation.ClampFloat32(a[i]*b[i], lo, hi)
		dst[i+1] = activation.ClampFloat32(a[i+1]*b[i+1], lo, hi)
		dst[i+2] = activation.ClampFloat32(a[i+2]*b[i+2], lo, hi)
		dst[i+3] = activation.ClampFloat32(a[i+3]*b[i+3], lo, hi)
	}
	for ; i < n; i++ {
		dst[i] = activation.ClampFloat32(a[i]*b[i], lo, hi)
	}
}

// scaleRowFloat32 multiplies a row by a stretched scalar operand.
func scaleRowFloat32(dst, src []float32, s, lo, hi float32) {
	n := len(dst)
	src = src[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = activation.ClampFloat32(src[i]*s, lo, hi)
		dst[i+1] = activation.ClampFloat32(src[i+1]*s, lo, hi)
		dst[i+2] = activation.ClampFloat32(src[i+2]*s, lo, hi)
		dst[i+3] = activation.ClampFloat32(src[i+3]*s, lo, hi)
	}
	for ; i < n; i++ {
		dst[i] = activation.ClampFloat32(src[i]*s, lo, hi)
	}
}

func genericMulUint8(args *QuantArgs) {
	checkSameShape("mul quantized", len(args.A), len(args.B), len(args.Out))
	r := row{n: len(args.A), aStep: 1, bStep: 1}
	genericRowUint8(args, r, activation.QuantizedMin, activation.QuantizedMax)
}

func genericBroadcastMulUint8(args *QuantArgs) {
	checkBroadcast("broadcast mul quantized", len(args.A), len(args.B), len(args.Out), args.AShape, args.BShape, args.OutShape)
	lo, hi := quantBounds(args)
	planBroadcast(args.AShape, args.BShape, args.OutShape).forEachRow(func(r row) {
		genericRowUint8(args, r, lo, hi)
	})
}

func genericRowUint8(args *QuantArgs, r row, lo, hi int32) {
	out := args.Out[r.out : r.out+r.n]
	m := args.Multiplier
	aOff, bOff, outOff := args.AOffset, args.BOffset, args.OutOffset

	switch {
	case r.aStep == 1 && r.bStep == 1:
		a := args.A[r.a : r.a+r.n]
		b := args.B[r.b : r.b+r.n]
		i := 0
		for ; i+4 <= len(out); i += 4 {
			p0 := (int32(a[i]) + aOff) * (int32(b[i]) + bOff)
			p1 := (int32(a[i+1]) + aOff) * (int32(b[i+1]) + bOff)
			p2 := (int32(a[i+2]) + aOff) * (int32(b[i+2]) + bOff)
			p3 := (int32(a[i+3]) + aOff) * (int32(b[i+3]) + bOff)
			out[i] = uint8(activation.ClampInt32(m.Apply(p0)+outOff, lo, hi))
			out[i+1] = uint8(activation.ClampInt32(m.Apply(p1)+outOff, lo, hi))
			out[i+2] = uint8(activation.ClampInt32(m.Apply(p2)+outOff, lo, hi))
			out[i+3] = uint8(activation.ClampInt32(m.Apply(p3)+outOff, lo, hi))
		}
		for ; i < len(out); i++ {
			p := (int32(a[i]) + aOff) * (int32(b[i]) + bOff)
			out[i] = uint8(activation.ClampInt32(m.Apply(p)+outOff, lo, hi))
		}
	default:
		ai, bi := r.a, r.b
		for i := range out {
			p := (int32(args.A[ai]) + aOff) * (int32(args.B[bi]) + bOff)
			out[i] = uint8(activation.ClampInt32(m.Apply(p)+outOff, lo, hi))
			ai += r.aStep
			bi += r.bStep
		}
	}
}

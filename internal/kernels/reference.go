package kernels

import (
	"github.com/born-ml/litemul/internal/activation"
)

// Reference kernels: one element at a time, no restructuring.

func referenceMulFloat32(args *FloatArgs) {
	checkSameShape("mul", len(args.A), len(args.B), len(args.Out))
	for i := range args.A {
		args.Out[i] = activation.ClampFloat32(args.A[i]*args.B[i], args.Min, args.Max)
	}
}

func referenceBroadcastMulFloat32(args *FloatArgs) {
	checkBroadcast("broadcast mul", len(args.A), len(args.B), len(args.Out), args.AShape, args.BShape, args.OutShape)

	outStrides := args.OutShape.ComputeStrides()
	aStrides := broadcastStrides(args.AShape, args.OutShape)
	bStrides := broadcastStrides(args.BShape, args.OutShape)

	n := args.OutShape.NumElements()
	for i := 0; i < n; i++ {
		aIdx := flatIndex(i, outStrides, aStrides)
		bIdx := flatIndex(i, outStrides, bStrides)
		args.Out[i] = activation.ClampFloat32(args.A[aIdx]*args.B[bIdx], args.Min, args.Max)
	}
}

// mulUint8 computes one quantized product: offset both inputs, rescale the
// integer product to the output scale, add the output zero point and clamp.
func mulUint8(a, b uint8, args *QuantArgs, lo, hi int32) uint8 {
	prod := (int32(a) + args.AOffset) * (int32(b) + args.BOffset)
	v := args.Multiplier.Apply(prod) + args.OutOffset
	return uint8(activation.ClampInt32(v, lo, hi))
}

func referenceMulUint8(args *QuantArgs) {
	checkSameShape("mul quantized", len(args.A), len(args.B), len(args.Out))
	for i := range args.A {
		args.Out[i] = mulUint8(args.A[i], args.B[i], args, activation.QuantizedMin, activation.QuantizedMax)
	}
}

func referenceBroadcastMulUint8(args *QuantArgs) {
	checkBroadcast("broadcast mul quantized", len(args.A), len(args.B), len(args.Out), args.AShape, args.BShape, args.OutShape)

	outStrides := args.OutShape.ComputeStrides()
	aStrides := broadcastStrides(args.AShape, args.OutShape)
	bStrides := broadcastStrides(args.BShape, args.OutShape)
	lo, hi := quantBounds(args)

	n := args.OutShape.NumElements()
	for i := 0; i < n; i++ {
		aIdx := flatIndex(i, outStrides, aStrides)
		bIdx := flatIndex(i, outStrides, bStrides)
		args.Out[i] = mulUint8(args.A[aIdx], args.B[bIdx], args, lo, hi)
	}
}

// quantBounds intersects the activation bounds with the uint8 range.
func quantBounds(args *QuantArgs) (lo, hi int32) {
	return max(args.Min, activation.QuantizedMin), min(args.Max, activation.QuantizedMax)
}

package kernels

import (
	"github.com/born-ml/litemul/internal/tensor"
)

// broadcastStrides computes strides for reading inShape as if it had outShape.
// Dimensions of size 1 and missing leading dimensions get stride 0, so every
// output index along them maps to input index 0.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	// Pad input shape with 1s on the left
	inDim := len(inShape)
	offset := outDim - inDim

	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// flatIndex computes the flat index in the source array for a given output index.
// outStrides: strides of the output shape.
// inStrides: broadcast-adjusted strides of the input shape.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	flat := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flat += coord * inStrides[i]
	}
	return flat
}

// row is one contiguous run of output elements. Inputs advance by aStep and
// bStep per element; a step of 0 means the operand is stretched along the row.
type row struct {
	out, a, b    int
	n            int
	aStep, bStep int
}

// layout is a broadcast iteration plan with redundant dimensions folded away.
type layout struct {
	shape    []int
	aStrides []int
	bStrides []int
}

// planBroadcast builds the iteration plan for outShape. Output dimensions of
// extent 1 are dropped and adjacent dimensions that both inputs traverse
// uniformly are merged, so rows are as long as the layouts allow.
func planBroadcast(aShape, bShape, outShape tensor.Shape) layout {
	aStr := broadcastStrides(aShape, outShape)
	bStr := broadcastStrides(bShape, outShape)

	var l layout
	for i, extent := range outShape {
		if extent == 1 {
			continue
		}
		last := len(l.shape) - 1
		if last >= 0 &&
			l.aStrides[last] == aStr[i]*extent &&
			l.bStrides[last] == bStr[i]*extent {
			l.shape[last] *= extent
			l.aStrides[last] = aStr[i]
			l.bStrides[last] = bStr[i]
			continue
		}
		l.shape = append(l.shape, extent)
		l.aStrides = append(l.aStrides, aStr[i])
		l.bStrides = append(l.bStrides, bStr[i])
	}
	return l
}

// forEachRow walks the output once in row-major order, calling fn for every
// innermost row. Input offsets are advanced incrementally, odometer style.
func (l layout) forEachRow(fn func(r row)) {
	rank := len(l.shape)
	if rank == 0 {
		fn(row{n: 1})
		return
	}
	for _, extent := range l.shape {
		if extent == 0 {
			return
		}
	}

	inner := l.shape[rank-1]
	r := row{n: inner, aStep: l.aStrides[rank-1], bStep: l.bStrides[rank-1]}
	idx := make([]int, rank-1)

	for {
		fn(r)
		r.out += inner

		d := rank - 2
		for ; d >= 0; d-- {
			idx[d]++
			r.a += l.aStrides[d]
			r.b += l.bStrides[d]
			if idx[d] < l.shape[d] {
				break
			}
			r.a -= l.aStrides[d] * l.shape[d]
			r.b -= l.bStrides[d] * l.shape[d]
			idx[d] = 0
		}
		if d < 0 {
			return
		}
	}
}

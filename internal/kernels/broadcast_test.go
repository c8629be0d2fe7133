package kernels

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/litemul/internal/tensor"
)

func TestBroadcastStrides(t *testing.T) {
	tests := []struct {
		in, out tensor.Shape
		want    []int
	}{
		{tensor.Shape{2, 1}, tensor.Shape{2, 2}, []int{1, 0}},
		{tensor.Shape{3}, tensor.Shape{2, 3}, []int{0, 1}},
		{tensor.Shape{}, tensor.Shape{2, 3}, []int{0, 0}},
		{tensor.Shape{2, 3, 4}, tensor.Shape{2, 3, 4}, []int{12, 4, 1}},
		{tensor.Shape{1, 3, 1}, tensor.Shape{2, 3, 4}, []int{0, 1, 0}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, broadcastStrides(tt.in, tt.out), "%v -> %v", tt.in, tt.out)
	}
}

func TestPlanBroadcastMergesDimensions(t *testing.T) {
	l := planBroadcast(tensor.Shape{2, 3, 4}, tensor.Shape{2, 3, 4}, tensor.Shape{2, 3, 4})
	assert.Equal(t, []int{24}, l.shape)

	l = planBroadcast(tensor.Shape{2, 1, 3, 4}, tensor.Shape{1, 5, 3, 4}, tensor.Shape{2, 5, 3, 4})
	assert.Equal(t, []int{2, 5, 12}, l.shape)

	l = planBroadcast(tensor.Shape{1, 1}, tensor.Shape{1}, tensor.Shape{1, 1})
	assert.Empty(t, l.shape)
}

// Every output index must be visited once, in order, with the same input
// offsets the div/mod mapping produces.
func TestForEachRowMatchesFlatIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for iter := 0; iter < 200; iter++ {
		aShape, bShape, outShape := randomShapes(rng)
		outStrides := outShape.ComputeStrides()
		aStrides := broadcastStrides(aShape, outShape)
		bStrides := broadcastStrides(bShape, outShape)

		next := 0
		planBroadcast(aShape, bShape, outShape).forEachRow(func(r row) {
			if !assert.Equal(t, next, r.out, "row start for %v x %v", aShape, bShape) {
				return
			}
			for i := 0; i < r.n; i++ {
				assert.Equal(t, flatIndex(r.out+i, outStrides, aStrides), r.a+i*r.aStep)
				assert.Equal(t, flatIndex(r.out+i, outStrides, bStrides), r.b+i*r.bStep)
			}
			next += r.n
		})
		assert.Equal(t, outShape.NumElements(), next, "%v x %v", aShape, bShape)
	}
}

func TestForEachRowEmptyOutput(t *testing.T) {
	calls := 0
	planBroadcast(tensor.Shape{0, 1}, tensor.Shape{1, 3}, tensor.Shape{0, 3}).forEachRow(func(row) {
		calls++
	})
	assert.Zero(t, calls)
}

package host

import (
	"fmt"

	"github.com/born-ml/litemul/internal/tensor"
)

// NewFloat32 allocates a float32 tensor holding a copy of values.
func NewFloat32(shape tensor.Shape, values []float32) (*tensor.Tensor, error) {
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(values))
	}
	buf := make([]byte, len(values)*tensor.Float32.Size())
	t, err := tensor.NewView(shape, tensor.Float32, tensor.QuantParams{}, buf)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat32(), values)
	return t, nil
}

// NewUint8 allocates a quantized uint8 tensor holding a copy of values.
func NewUint8(shape tensor.Shape, q tensor.QuantParams, values []uint8) (*tensor.Tensor, error) {
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(values))
	}
	buf := make([]byte, len(values))
	copy(buf, values)
	return tensor.NewView(shape, tensor.Uint8, q, buf)
}

// NewOutput returns an unshaped tensor for Prepare to type and resize.
func NewOutput() *tensor.Tensor {
	t, err := tensor.NewView(tensor.Shape{0}, tensor.Float32, tensor.QuantParams{}, nil)
	if err != nil {
		panic(err) // unreachable: an empty shape always fits
	}
	return t
}

// NewQuantizedOutput returns an unshaped tensor with output quantization q.
func NewQuantizedOutput(q tensor.QuantParams) *tensor.Tensor {
	t := NewOutput()
	t.SetQuant(q)
	return t
}

// NewRaw allocates a zeroed tensor of any dtype, for exercising type checks.
func NewRaw(shape tensor.Shape, dtype tensor.DataType) (*tensor.Tensor, error) {
	return tensor.NewView(shape, dtype, tensor.QuantParams{}, make([]byte, shape.NumElements()*dtype.Size()))
}

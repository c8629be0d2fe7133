package tensor

import (
	"fmt"
	"unsafe"
)

// Tensor is a host-owned tensor handle.
//
// The operator borrows tensors for the duration of a call: it reads shape,
// type and quantization metadata and writes into the output buffer, but
// never allocates or frees storage itself. Resizing is done by the host.
type Tensor struct {
	shape Shape
	dtype DataType
	quant QuantParams
	data  []byte
}

// NewView wraps an existing host buffer. The buffer is not copied.
func NewView(shape Shape, dtype DataType, quant QuantParams, data []byte) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if need := shape.NumElements() * dtype.Size(); len(data) < need {
		return nil, fmt.Errorf("buffer too small for %v %s: have %d bytes, need %d", shape, dtype, len(data), need)
	}
	return &Tensor{
		shape: shape.Clone(),
		dtype: dtype,
		quant: quant,
		data:  data,
	}, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// Quant returns the tensor's quantization parameters.
// Meaningful only for Uint8 tensors.
func (t *Tensor) Quant() QuantParams {
	return t.quant
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (t *Tensor) ByteSize() int {
	return t.NumElements() * t.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (t *Tensor) Data() []byte {
	return t.data
}

// SetDType changes the element type. Used while preparing an output tensor.
func (t *Tensor) SetDType(dtype DataType) {
	t.dtype = dtype
}

// SetQuant changes the quantization parameters.
func (t *Tensor) SetQuant(q QuantParams) {
	t.quant = q
}

// SetShape records a new shape and backing buffer. Only the host calls this,
// from its resize hook.
func (t *Tensor) SetShape(shape Shape, data []byte) {
	if need := shape.NumElements() * t.dtype.Size(); len(data) < need {
		panic(fmt.Sprintf("buffer too small for %v %s: have %d bytes, need %d", shape, t.dtype, len(data), need))
	}
	t.shape = shape.Clone()
	t.data = data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) AsFloat32() []float32 {
	if t.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", t.dtype))
	}
	n := t.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NewView/SetShape
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), n)
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (t *Tensor) AsUint8() []uint8 {
	if t.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", t.dtype))
	}
	return t.data[:t.NumElements()] // Already []byte = []uint8
}

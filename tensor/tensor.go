// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/litemul/internal/tensor"
)

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
// The empty shape is a scalar.
type Shape = tensor.Shape

// QuantParams are the affine quantization parameters of a uint8 tensor.
type QuantParams = tensor.QuantParams

// Tensor is a host-owned tensor handle.
type Tensor = tensor.Tensor

// ErrIncompatibleShapes is returned when two shapes cannot be broadcast.
var ErrIncompatibleShapes = tensor.ErrIncompatibleShapes

// NewView wraps an existing buffer without copying it.
func NewView(shape Shape, dtype DataType, quant QuantParams, data []byte) (*Tensor, error) {
	return tensor.NewView(shape, dtype, quant, data)
}

// BroadcastShapes computes the broadcast shape of a and b.
//
// The boolean reports whether the shapes differ, in which case element
// indices of the output do not map one to one onto the inputs.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

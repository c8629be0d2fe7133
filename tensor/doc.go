// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor handles consumed by the litemul operators.
//
// # Overview
//
// A Tensor is a host-owned, row-major buffer with a shape, an element type
// and, for uint8 data, affine quantization parameters:
//
//	real = Scale * (q - ZeroPoint)
//
// Operators borrow tensors for the duration of a call. They never allocate
// storage themselves: outputs are resized by the host during preparation.
//
// # Basic Usage
//
//	a, _ := tensor.NewView(tensor.Shape{2, 3}, tensor.Float32, tensor.QuantParams{}, buf)
//	values := a.AsFloat32()
//
// # Broadcasting
//
// Shapes combine under NumPy rules. They are right-aligned and each
// dimension pair must be equal or contain a 1:
//
//	out, needsBroadcast, err := tensor.BroadcastShapes(tensor.Shape{4, 1}, tensor.Shape{4, 5})
//	// out = [4 5], needsBroadcast = true
//
// # Supported Data Types
//
// Float32 and Uint8 are computed by Mul. The remaining types exist so that
// hosts can describe graphs the operator must reject.
package tensor

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mul provides the elementwise Mul operator for host-driven graphs.
//
// # Overview
//
// Mul multiplies two tensors elementwise with NumPy broadcasting, then
// clamps the result with an optional fused activation. Float32 tensors and
// affine-quantized uint8 tensors are supported.
//
// Three compute strategies are available and produce the same results:
//   - Reference: scalar loops, the correctness baseline
//   - GenericOptimized: unrolled portable loops with coalesced broadcasting
//   - SIMDOptimized: vectorized float rows on CPUs with SSE2, AVX2 or NEON,
//     lane-blocked quantized rows
//
// # Basic Usage
//
//	h := mul.NewHost(nil)
//	a, _ := mul.NewFloat32(tensor.Shape{2, 1}, []float32{2, 3})
//	b, _ := mul.NewFloat32(tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
//
//	out, err := h.Run(mul.Register(), a, b, &mul.Params{Activation: mul.Relu})
//	// out.AsFloat32() = [2 4 9 12]
//
// # Lifecycle
//
// A host that owns its own graph drives a Registration directly:
//
//	Init → Prepare → Invoke* → (Prepare on shape change) → Free
//
// Prepare failures are reported with KindPrecondition. Evaluating an
// unsupported element type is reported with KindUnsupported.
//
// # Environment
//
//	BORN_MUL_KERNEL  reference | generic | simd, read by RegisterFromEnv
//	BORN_NO_SIMD     disable vector detection
//	BORN_DEBUG       enable debug logging
package mul

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package mul_test

import (
	"fmt"

	"github.com/born-ml/litemul/mul"
	"github.com/born-ml/litemul/tensor"
)

func Example() {
	h := mul.NewHost(nil)
	a, _ := mul.NewFloat32(tensor.Shape{2, 1}, []float32{2, 3})
	b, _ := mul.NewFloat32(tensor.Shape{2, 2}, []float32{1, 2, 3, 4})

	out, err := h.Run(mul.RegisterReference(), a, b, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out.Shape(), out.AsFloat32())
	// Output: [2 2] [2 4 9 12]
}

func Example_quantized() {
	h := mul.NewHost(nil)
	a, _ := mul.NewUint8(tensor.Shape{4}, tensor.QuantParams{Scale: 0.5}, []uint8{2, 4, 6, 8})
	b, _ := mul.NewUint8(tensor.Shape{4}, tensor.QuantParams{Scale: 0.5, ZeroPoint: 1}, []uint8{3, 3, 3, 3})
	out := mul.NewQuantizedOutput(tensor.QuantParams{Scale: 1, ZeroPoint: 10})

	in := h.NewInstance(mul.RegisterGenericOptimized(), a, b, out, &mul.Params{Activation: mul.Relu})
	defer in.Close()

	if err := in.Prepare(); err != nil {
		fmt.Println(err)
		return
	}
	if err := in.Invoke(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out.AsUint8())
	// Output: [11 12 13 14]
}

func ExampleParseStrategy() {
	s, err := mul.ParseStrategy("neon")
	fmt.Println(s, err)
	// Output: simd <nil>
}

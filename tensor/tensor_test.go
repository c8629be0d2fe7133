// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/litemul/tensor"
)

func TestNewView(t *testing.T) {
	buf := make([]byte, 6*4)
	x, err := tensor.NewView(tensor.Shape{2, 3}, tensor.Float32, tensor.QuantParams{}, buf)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 3}, x.Shape())
	assert.Equal(t, tensor.Float32, x.DType())
	assert.Len(t, x.AsFloat32(), 6)

	_, err = tensor.NewView(tensor.Shape{2, 3}, tensor.Float32, tensor.QuantParams{}, buf[:8])
	assert.Error(t, err)
}

func TestBroadcastShapes(t *testing.T) {
	out, needs, err := tensor.BroadcastShapes(tensor.Shape{4, 1}, tensor.Shape{4, 5})
	require.NoError(t, err)
	assert.True(t, needs)
	assert.Equal(t, tensor.Shape{4, 5}, out)

	_, _, err = tensor.BroadcastShapes(tensor.Shape{3, 2}, tensor.Shape{4, 2})
	assert.ErrorIs(t, err, tensor.ErrIncompatibleShapes)
}

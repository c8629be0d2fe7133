// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package mul

import (
	"log/slog"

	"github.com/born-ml/litemul/internal/activation"
	"github.com/born-ml/litemul/internal/host"
	"github.com/born-ml/litemul/internal/kernels"
	"github.com/born-ml/litemul/internal/mul"
	"github.com/born-ml/litemul/tensor"
)

// Activation is a fused activation applied after the product.
type Activation = activation.Activation

// Fused activations.
const (
	None      Activation = activation.None
	Relu      Activation = activation.Relu
	ReluN1To1 Activation = activation.ReluN1To1
	Relu6     Activation = activation.Relu6
)

// ParseActivation resolves an activation by name.
func ParseActivation(name string) (Activation, error) {
	return activation.ParseActivation(name)
}

// Strategy selects a compute implementation.
type Strategy = kernels.Strategy

// Compute strategies.
const (
	Reference        Strategy = kernels.Reference
	GenericOptimized Strategy = kernels.GenericOptimized
	SIMDOptimized    Strategy = kernels.SIMDOptimized
)

// Strategies lists every compute strategy, reference first.
var Strategies = kernels.Strategies

// ParseStrategy resolves a strategy by name.
func ParseStrategy(name string) (Strategy, error) {
	return kernels.ParseStrategy(name)
}

// Features describes the vector support detected at startup.
type Features = kernels.Features

// DetectedFeatures returns the vector support of this machine.
func DetectedFeatures() Features {
	return kernels.Detected()
}

// Operator types.
type (
	// Params are the builtin options of a Mul node.
	Params = mul.Params
	// Node is the host's view of one Mul invocation site.
	Node = mul.Node
	// OpData is the per-instance working state returned by Init.
	OpData = mul.OpData
	// Context is the host boundary used by Prepare and Invoke.
	Context = mul.Context
	// Registration is the operator's entry-point table.
	Registration = mul.Registration
	// ErrorKind classifies a failure reported to the host.
	ErrorKind = mul.ErrorKind
)

// Error classifications.
const (
	KindPrecondition = mul.KindPrecondition
	KindUnsupported  = mul.KindUnsupported
	KindInternal     = mul.KindInternal
)

// Operator errors.
var (
	ErrArity           = mul.ErrArity
	ErrTypeMismatch    = mul.ErrTypeMismatch
	ErrQuantization    = mul.ErrQuantization
	ErrResize          = mul.ErrResize
	ErrNotPrepared     = mul.ErrNotPrepared
	ErrInvalidUserData = mul.ErrInvalidUserData
	ErrUnsupportedType = mul.ErrUnsupportedType
)

// Register returns the fastest registration this machine supports.
func Register() *Registration { return mul.Register() }

// RegisterReference returns the scalar reference registration.
func RegisterReference() *Registration { return mul.RegisterReference() }

// RegisterGenericOptimized returns the portable optimized registration.
func RegisterGenericOptimized() *Registration { return mul.RegisterGenericOptimized() }

// RegisterSIMDOptimized returns the vectorized registration.
func RegisterSIMDOptimized() *Registration { return mul.RegisterSIMDOptimized() }

// RegisterFor returns the registration running strategy s.
func RegisterFor(s Strategy) *Registration { return mul.RegisterFor(s) }

// RegisterFromEnv honours BORN_MUL_KERNEL and falls back to Register.
func RegisterFromEnv() (*Registration, error) { return mul.RegisterFromEnv() }

// Host is an in-memory graph host implementing Context.
type Host = host.Host

// Instance is a Mul node bound to a registration and a host.
type Instance = host.Instance

// Report is one error report received by a Host.
type Report = host.Report

// NewHost creates a host logging to logger, or slog.Default() if nil.
func NewHost(logger *slog.Logger) *Host {
	return host.New(logger)
}

// NewFloat32 allocates a float32 tensor holding a copy of values.
func NewFloat32(shape tensor.Shape, values []float32) (*tensor.Tensor, error) {
	return host.NewFloat32(shape, values)
}

// NewUint8 allocates a quantized uint8 tensor holding a copy of values.
func NewUint8(shape tensor.Shape, q tensor.QuantParams, values []uint8) (*tensor.Tensor, error) {
	return host.NewUint8(shape, q, values)
}

// NewOutput returns an unshaped float32 output for Prepare to resize.
func NewOutput() *tensor.Tensor {
	return host.NewOutput()
}

// NewQuantizedOutput returns an unshaped output with quantization q.
func NewQuantizedOutput(q tensor.QuantParams) *tensor.Tensor {
	return host.NewQuantizedOutput(q)
}

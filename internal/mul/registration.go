package mul

import (
	"fmt"

	"github.com/born-ml/litemul/internal/envconfig"
	"github.com/born-ml/litemul/internal/kernels"
)

// Registration is the operator's entry-point table, bound to one strategy.
type Registration struct {
	Name     string
	Strategy kernels.Strategy

	Init    func() *OpData
	Free    func(data *OpData)
	Prepare func(ctx Context, node *Node) error
	Invoke  func(ctx Context, node *Node) error
}

// RegisterFor returns the Mul registration running strategy s.
func RegisterFor(s kernels.Strategy) *Registration {
	return &Registration{
		Name:     "MUL",
		Strategy: s,
		Init:     Init,
		Free:     Free,
		Prepare:  Prepare,
		Invoke: func(ctx Context, node *Node) error {
			return Eval(ctx, node, s)
		},
	}
}

// RegisterReference returns the scalar reference variant.
func RegisterReference() *Registration {
	return RegisterFor(kernels.Reference)
}

// RegisterGenericOptimized returns the portable optimized variant.
func RegisterGenericOptimized() *Registration {
	return RegisterFor(kernels.GenericOptimized)
}

// RegisterSIMDOptimized returns the vectorized variant.
func RegisterSIMDOptimized() *Registration {
	return RegisterFor(kernels.SIMDOptimized)
}

// Register returns the fastest variant this machine supports: SIMD when
// vector instructions are available, generic otherwise.
func Register() *Registration {
	return RegisterFor(kernels.Default())
}

// RegisterFromEnv honours BORN_MUL_KERNEL and falls back to Register.
func RegisterFromEnv() (*Registration, error) {
	name := envconfig.Kernel()
	if name == "" {
		return Register(), nil
	}
	s, err := kernels.ParseStrategy(name)
	if err != nil {
		return nil, fmt.Errorf("BORN_MUL_KERNEL: %w", err)
	}
	return RegisterFor(s), nil
}

// Package mul implements the elementwise Mul operator frontend.
//
// The host drives an operator instance through a fixed lifecycle:
//
//	Init → Prepare → Invoke* → (Prepare on shape change) → Free
//
// Prepare validates the node, resolves the broadcast output shape and asks
// the host to resize the output. Invoke runs one of the compute strategies.
// All working state lives in the instance's OpData; instances never share it.
package mul

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/litemul/internal/activation"
	"github.com/born-ml/litemul/internal/kernels"
	"github.com/born-ml/litemul/internal/quant"
	"github.com/born-ml/litemul/internal/tensor"
)

// Operand positions.
const (
	InputTensor1 = 0
	InputTensor2 = 1
	OutputTensor = 0
)

// Context is the host boundary: tensor resizing and error reporting.
type Context interface {
	// ResizeTensor gives t the requested shape and a buffer to match.
	ResizeTensor(t *tensor.Tensor, shape tensor.Shape) error
	// ReportError records a formatted failure message with its classification.
	ReportError(kind ErrorKind, format string, args ...any)
}

// loggerProvider is implemented by hosts that route operator logs.
type loggerProvider interface {
	Logger() *slog.Logger
}

// Params are the builtin options of a Mul node.
type Params struct {
	Activation activation.Activation
}

// Node is the host's view of one Mul invocation site.
type Node struct {
	Inputs  []*tensor.Tensor
	Outputs []*tensor.Tensor
	Params  *Params

	// UserData holds the value returned by Init.
	UserData any
}

// OpData is the per-instance working state.
type OpData struct {
	// RequiresBroadcast is resolved by Prepare and reused by every Invoke
	// until the next Prepare.
	RequiresBroadcast bool

	prepared bool
}

// Init allocates the working state of a new operator instance.
func Init() *OpData {
	return &OpData{RequiresBroadcast: false}
}

// Free releases the working state. The instance must not be used afterwards.
func Free(data *OpData) {
	if data == nil {
		return
	}
	*data = OpData{}
}

// Prepare validates the node and sizes its output.
//
// Both inputs must share an element type, which the output inherits from
// the second input. The output is resized to the broadcast shape of the
// inputs. Every failure is reported to ctx as a precondition failure.
func Prepare(ctx Context, node *Node) error {
	data, err := opData(node)
	if err != nil {
		return fail(ctx, KindInternal, err)
	}
	data.prepared = false

	in1, in2, out, err := operands(node)
	if err != nil {
		return fail(ctx, KindPrecondition, err)
	}

	if in1.DType() != in2.DType() {
		return fail(ctx, KindPrecondition, fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, in1.DType(), in2.DType()))
	}
	out.SetDType(in2.DType())

	outShape, requiresBroadcast, err := tensor.BroadcastShapes(in1.Shape(), in2.Shape())
	if err != nil {
		return fail(ctx, KindPrecondition, err)
	}

	if out.DType() == tensor.Uint8 {
		if err := validateQuantized(in1, in2, out); err != nil {
			return fail(ctx, KindPrecondition, err)
		}
	}

	if err := ctx.ResizeTensor(out, outShape); err != nil {
		return fail(ctx, KindPrecondition, fmt.Errorf("%w: %w", ErrResize, err))
	}

	data.RequiresBroadcast = requiresBroadcast
	data.prepared = true

	logger(ctx).Debug("mul prepared",
		"a", in1.Shape(), "b", in2.Shape(), "out", outShape,
		"dtype", out.DType(), "broadcast", requiresBroadcast)
	return nil
}

// Eval computes the product with the kernels of strategy s.
//
// Float32 outputs use the same-shape or broadcast kernel according to the
// state resolved by Prepare. Uint8 outputs always use the broadcast kernel,
// the only quantized kernel that applies activation bounds. Any other
// element type is reported as unsupported and fails this invocation only.
func Eval(ctx Context, node *Node, s kernels.Strategy) error {
	data, err := opData(node)
	if err != nil {
		return fail(ctx, KindInternal, err)
	}
	if !data.prepared {
		return fail(ctx, KindInternal, ErrNotPrepared)
	}

	in1, in2, out, err := operands(node)
	if err != nil {
		return fail(ctx, KindInternal, err)
	}

	act := activation.None
	if node.Params != nil {
		act = node.Params.Activation
	}
	k := kernels.For(s)

	switch out.DType() {
	case tensor.Float32:
		evalFloat(k, act, data, in1, in2, out)
		return nil
	case tensor.Uint8:
		return evalQuantized(ctx, k, act, in1, in2, out)
	default:
		ctx.ReportError(KindUnsupported, "Mul only supports FLOAT32 and quantized UINT8 now, got %s.", out.DType())
		return fmt.Errorf("%w: got %s", ErrUnsupportedType, out.DType())
	}
}

func evalFloat(k kernels.Kernels, act activation.Activation, data *OpData, in1, in2, out *tensor.Tensor) {
	lo, hi := activation.RangeFloat32(act)
	args := kernels.FloatArgs{
		A:        in1.AsFloat32(),
		B:        in2.AsFloat32(),
		Out:      out.AsFloat32(),
		AShape:   in1.Shape(),
		BShape:   in2.Shape(),
		OutShape: out.Shape(),
		Min:      lo,
		Max:      hi,
	}
	if data.RequiresBroadcast {
		k.BroadcastMul(&args)
	} else {
		k.Mul(&args)
	}
}

func evalQuantized(ctx Context, k kernels.Kernels, act activation.Activation, in1, in2, out *tensor.Tensor) error {
	q1, q2, qo := in1.Quant(), in2.Quant(), out.Quant()

	m, err := quant.ComputeMultiplier(float64(q1.Scale), float64(q2.Scale), float64(qo.Scale))
	if err != nil {
		return fail(ctx, KindPrecondition, fmt.Errorf("%w: %w", ErrQuantization, err))
	}
	lo, hi := activation.RangeUint8(act, qo)

	args := kernels.QuantArgs{
		A:          in1.AsUint8(),
		B:          in2.AsUint8(),
		Out:        out.AsUint8(),
		AShape:     in1.Shape(),
		BShape:     in2.Shape(),
		OutShape:   out.Shape(),
		AOffset:    -q1.ZeroPoint,
		BOffset:    -q2.ZeroPoint,
		OutOffset:  qo.ZeroPoint,
		Multiplier: m,
		Min:        lo,
		Max:        hi,
	}

	// The quantized same-shape kernel does not apply activations, so the
	// broadcast kernel runs even for identical shapes.
	k.BroadcastMulQuantized(&args)
	return nil
}

// validateQuantized checks the quantization parameters of a uint8 node.
func validateQuantized(in1, in2, out *tensor.Tensor) error {
	for i, t := range [...]*tensor.Tensor{in1, in2, out} {
		zp := t.Quant().ZeroPoint
		if zp < activation.QuantizedMin || zp > activation.QuantizedMax {
			return fmt.Errorf("%w: operand %d zero point %d outside [0, 255]", ErrQuantization, i, zp)
		}
	}
	_, err := quant.ComputeMultiplier(
		float64(in1.Quant().Scale), float64(in2.Quant().Scale), float64(out.Quant().Scale))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrQuantization, err)
	}
	return nil
}

func opData(node *Node) (*OpData, error) {
	if node == nil || node.UserData == nil {
		return nil, ErrNotPrepared
	}
	data, ok := node.UserData.(*OpData)
	if !ok || data == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidUserData, node.UserData)
	}
	return data, nil
}

func operands(node *Node) (in1, in2, out *tensor.Tensor, err error) {
	if len(node.Inputs) != 2 || len(node.Outputs) != 1 {
		return nil, nil, nil, fmt.Errorf("%w: got %d inputs and %d outputs", ErrArity, len(node.Inputs), len(node.Outputs))
	}
	in1, in2, out = node.Inputs[InputTensor1], node.Inputs[InputTensor2], node.Outputs[OutputTensor]
	if in1 == nil || in2 == nil || out == nil {
		return nil, nil, nil, fmt.Errorf("%w: missing tensor", ErrArity)
	}
	return in1, in2, out, nil
}

func logger(ctx Context) *slog.Logger {
	if p, ok := ctx.(loggerProvider); ok {
		if l := p.Logger(); l != nil {
			return l
		}
	}
	return slog.Default()
}

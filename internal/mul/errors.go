package mul

import (
	"errors"
	"fmt"
)

// Preparation failures. These stop graph preparation.
var (
	ErrArity           = errors.New("mul requires exactly 2 inputs and 1 output")
	ErrTypeMismatch    = errors.New("mul inputs must share an element type")
	ErrQuantization    = errors.New("invalid quantization parameters")
	ErrResize          = errors.New("output resize failed")
	ErrNotPrepared     = errors.New("mul node has not been prepared")
	ErrInvalidUserData = errors.New("mul node carries foreign user data")
)

// ErrUnsupportedType is the evaluation failure for element types Mul cannot compute.
var ErrUnsupportedType = errors.New("mul only supports FLOAT32 and quantized UINT8")

// ErrorKind classifies a failure reported to the host.
type ErrorKind int

// Error classifications.
const (
	// KindPrecondition marks a failed preparation precondition.
	KindPrecondition ErrorKind = iota
	// KindUnsupported marks an evaluation the operator cannot perform.
	KindUnsupported
	// KindInternal marks misuse of the operator by the host.
	KindInternal
)

// String returns the classification name.
func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindUnsupported:
		return "unsupported"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// fail reports err to the host sink and returns it.
func fail(ctx Context, kind ErrorKind, err error) error {
	ctx.ReportError(kind, "%v", err)
	return err
}

// Package host is a minimal in-memory graph host for the Mul operator.
//
// It owns tensor storage, implements the operator's Context, and drives an
// instance through its lifecycle. Tests, examples and the CLI use it.
package host

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/born-ml/litemul/internal/mul"
	"github.com/born-ml/litemul/internal/tensor"
)

// Report is one error report received from an operator.
type Report struct {
	Kind    mul.ErrorKind
	Message string
}

// Host allocates tensors and collects operator error reports.
// It is safe for concurrent use by independent operator instances.
type Host struct {
	logger *slog.Logger

	// ResizeHook, when set, runs before every resize and can veto it.
	ResizeHook func(t *tensor.Tensor, shape tensor.Shape) error

	mu      sync.Mutex
	reports []Report
}

// New creates a host logging to logger, or slog.Default() if nil.
func New(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{logger: logger}
}

// Logger returns the logger operators should use.
func (h *Host) Logger() *slog.Logger {
	return h.logger
}

// ResizeTensor gives t the requested shape. The existing buffer is reused
// when it is large enough.
func (h *Host) ResizeTensor(t *tensor.Tensor, shape tensor.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if h.ResizeHook != nil {
		if err := h.ResizeHook(t, shape); err != nil {
			return err
		}
	}

	size := shape.NumElements() * t.DType().Size()
	buf := t.Data()
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	t.SetShape(shape, buf[:size])
	return nil
}

// ReportError records a report and logs it.
func (h *Host) ReportError(kind mul.ErrorKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	h.mu.Lock()
	h.reports = append(h.reports, Report{Kind: kind, Message: msg})
	h.mu.Unlock()

	h.logger.Error("operator error", "kind", kind.String(), "msg", msg)
}

// Reports returns a copy of every report received so far.
func (h *Host) Reports() []Report {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Report(nil), h.reports...)
}

// Instance is a Mul node bound to a registration and a host.
type Instance struct {
	Node *mul.Node

	host *Host
	reg  *mul.Registration
}

// NewInstance initializes a Mul instance over the given operands.
func (h *Host) NewInstance(reg *mul.Registration, a, b, out *tensor.Tensor, params *mul.Params) *Instance {
	node := &mul.Node{
		Inputs:  []*tensor.Tensor{a, b},
		Outputs: []*tensor.Tensor{out},
		Params:  params,
	}
	node.UserData = reg.Init()
	return &Instance{Node: node, host: h, reg: reg}
}

// Prepare runs the registration's Prepare.
func (in *Instance) Prepare() error {
	return in.reg.Prepare(in.host, in.Node)
}

// Invoke runs the registration's Invoke.
func (in *Instance) Invoke() error {
	return in.reg.Invoke(in.host, in.Node)
}

// Close frees the working state.
func (in *Instance) Close() {
	if data, ok := in.Node.UserData.(*mul.OpData); ok {
		in.reg.Free(data)
	}
	in.Node.UserData = nil
}

// Run prepares and invokes a fresh instance once, returning the output.
func (h *Host) Run(reg *mul.Registration, a, b *tensor.Tensor, params *mul.Params) (*tensor.Tensor, error) {
	out := NewOutput()
	in := h.NewInstance(reg, a, b, out, params)
	defer in.Close()

	if err := in.Prepare(); err != nil {
		return nil, err
	}
	if err := in.Invoke(); err != nil {
		return nil, err
	}
	return out, nil
}

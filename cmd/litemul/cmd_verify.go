package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/litemul/mul"
	"github.com/born-ml/litemul/tensor"
)

var activations = []mul.Activation{mul.None, mul.Relu, mul.ReluN1To1, mul.Relu6}

// verifyCase is one randomized Mul invocation, run as float32 and as uint8.
type verifyCase struct {
	aShape, bShape tensor.Shape
	aFloat, bFloat []float32
	aQuant, bQuant []uint8
	qa, qb, qOut   tensor.QuantParams
	act            mul.Activation
}

type caseResult struct {
	float []float32
	quant []uint8
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check every strategy against the reference kernels",
		Args:  cobra.NoArgs,
		RunE:  verifyHandler,
	}
	cmd.Flags().Int("cases", 500, "Number of random cases")
	cmd.Flags().Uint64("seed", 1, "Random seed")
	cmd.Flags().Int("max-rank", 4, "Maximum tensor rank")
	return cmd
}

// randomShapes returns a pair of broadcast-compatible shapes.
func randomShapes(r *rand.Rand, maxRank int) (tensor.Shape, tensor.Shape) {
	rank := r.IntN(maxRank + 1)
	out := make(tensor.Shape, rank)
	for i := range out {
		out[i] = 1 + r.IntN(9)
	}

	derive := func() tensor.Shape {
		s := out[r.IntN(rank+1):].Clone()
		for i := range s {
			if r.IntN(3) == 0 {
				s[i] = 1
			}
		}
		return s
	}
	return derive(), derive()
}

func randomCase(r *rand.Rand, maxRank int) verifyCase {
	c := verifyCase{act: activations[r.IntN(len(activations))]}
	c.aShape, c.bShape = randomShapes(r, maxRank)

	fill := func(n int) ([]float32, []uint8) {
		f := make([]float32, n)
		q := make([]uint8, n)
		for i := range f {
			f[i] = r.Float32()*20 - 10
			q[i] = uint8(r.IntN(256))
		}
		return f, q
	}
	c.aFloat, c.aQuant = fill(c.aShape.NumElements())
	c.bFloat, c.bQuant = fill(c.bShape.NumElements())

	// Input scales up to 0.1 and output scales from 0.02 keep the real
	// multiplier below one.
	c.qa = tensor.QuantParams{Scale: 0.005 + r.Float32()*0.095, ZeroPoint: int32(r.IntN(256))}
	c.qb = tensor.QuantParams{Scale: 0.005 + r.Float32()*0.095, ZeroPoint: int32(r.IntN(256))}
	c.qOut = tensor.QuantParams{Scale: 0.02 + r.Float32()*0.5, ZeroPoint: int32(r.IntN(256))}
	return c
}

func runCase(h *mul.Host, reg *mul.Registration, c verifyCase) (caseResult, error) {
	var res caseResult
	params := &mul.Params{Activation: c.act}

	a, err := mul.NewFloat32(c.aShape, c.aFloat)
	if err != nil {
		return res, err
	}
	b, err := mul.NewFloat32(c.bShape, c.bFloat)
	if err != nil {
		return res, err
	}
	out, err := h.Run(reg, a, b, params)
	if err != nil {
		return res, fmt.Errorf("float32: %w", err)
	}
	res.float = out.AsFloat32()

	qa, err := mul.NewUint8(c.aShape, c.qa, c.aQuant)
	if err != nil {
		return res, err
	}
	qb, err := mul.NewUint8(c.bShape, c.qb, c.bQuant)
	if err != nil {
		return res, err
	}
	qout := mul.NewQuantizedOutput(c.qOut)
	in := h.NewInstance(reg, qa, qb, qout, params)
	defer in.Close()
	if err := in.Prepare(); err != nil {
		return res, fmt.Errorf("uint8: %w", err)
	}
	if err := in.Invoke(); err != nil {
		return res, fmt.Errorf("uint8: %w", err)
	}
	res.quant = qout.AsUint8()
	return res, nil
}

func verifyHandler(cmd *cobra.Command, _ []string) error {
	n, _ := cmd.Flags().GetInt("cases")
	seed, _ := cmd.Flags().GetUint64("seed")
	maxRank, _ := cmd.Flags().GetInt("max-rank")
	if n < 0 || maxRank < 0 {
		return fmt.Errorf("--cases and --max-rank must be non-negative")
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cases := make([]verifyCase, n)
	for i := range cases {
		cases[i] = randomCase(r, maxRank)
	}

	h := mul.NewHost(slog.Default())
	ref := mul.RegisterReference()
	want := make([]caseResult, n)
	for i, c := range cases {
		res, err := runCase(h, ref, c)
		if err != nil {
			return fmt.Errorf("reference case %d: %w", i, err)
		}
		want[i] = res
	}

	strategies := []mul.Strategy{mul.GenericOptimized, mul.SIMDOptimized}
	g, ctx := errgroup.WithContext(cmd.Context())
	for _, s := range strategies {
		g.Go(func() error {
			return verifyStrategy(ctx, h, mul.RegisterFor(s), cases, want)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, s := range strategies {
		fmt.Fprintf(w, "%-8s %d cases match reference\n", s, n)
	}
	return nil
}

func verifyStrategy(ctx context.Context, h *mul.Host, reg *mul.Registration, cases []verifyCase, want []caseResult) error {
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return err
		}
		got, err := runCase(h, reg, c)
		if err != nil {
			return fmt.Errorf("%s case %d: %w", reg.Strategy, i, err)
		}
		if diff := cmp.Diff(want[i].float, got.float); diff != "" {
			return fmt.Errorf("%s case %d (%v x %v, %s) float32 mismatch (-reference +got):\n%s",
				reg.Strategy, i, []int(c.aShape), []int(c.bShape), c.act, diff)
		}
		if diff := cmp.Diff(want[i].quant, got.quant); diff != "" {
			return fmt.Errorf("%s case %d (%v x %v, %s) uint8 mismatch (-reference +got):\n%s",
				reg.Strategy, i, []int(c.aShape), []int(c.bShape), c.act, diff)
		}
	}
	slog.Debug("strategy verified", "strategy", reg.Strategy, "cases", len(cases))
	return nil
}

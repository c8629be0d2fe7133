package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/litemul/mul"
	"github.com/born-ml/litemul/tensor"
)

func newMulCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mul",
		Short: "Multiply two tensors",
		Example: `  litemul mul --a-shape 2,1 --a 2,3 --b-shape 2,2 --b 1,2,3,4
  litemul mul --quantized --a 2,4,6,8 --b 3 --b-shape "" --a-scale 0.5 --b-scale 0.5 --b-zero-point 1 --out-zero-point 10`,
		Args: cobra.NoArgs,
		RunE: mulHandler,
	}

	cmd.Flags().String("a-shape", "", "Shape of the first input (defaults to a vector of its values)")
	cmd.Flags().String("a", "", "Values of the first input, comma separated")
	cmd.Flags().String("b-shape", "", "Shape of the second input (defaults to a vector of its values)")
	cmd.Flags().String("b", "", "Values of the second input, comma separated")
	cmd.Flags().String("activation", "none", "Fused activation: none, relu, relu_n1_to_1, relu6")
	cmd.Flags().String("kernel", "", "Compute strategy: reference, generic, simd (default: BORN_MUL_KERNEL or auto)")
	cmd.Flags().Bool("quantized", false, "Treat values as quantized uint8")
	cmd.Flags().Float32("a-scale", 1, "Scale of the first quantized input")
	cmd.Flags().Int32("a-zero-point", 0, "Zero point of the first quantized input")
	cmd.Flags().Float32("b-scale", 1, "Scale of the second quantized input")
	cmd.Flags().Int32("b-zero-point", 0, "Zero point of the second quantized input")
	cmd.Flags().Float32("out-scale", 1, "Scale of the quantized output")
	cmd.Flags().Int32("out-zero-point", 0, "Zero point of the quantized output")

	return cmd
}

// operand reads one input's shape and values from the flags.
func operand(cmd *cobra.Command, name string, quantized bool) (*tensor.Tensor, error) {
	raw, _ := cmd.Flags().GetString(name)
	shapeFlag := name + "-shape"

	var n int
	var build func(tensor.Shape) (*tensor.Tensor, error)
	if quantized {
		values, err := parseUint8s(raw)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		scale, _ := cmd.Flags().GetFloat32(name + "-scale")
		zp, _ := cmd.Flags().GetInt32(name + "-zero-point")
		n = len(values)
		build = func(shape tensor.Shape) (*tensor.Tensor, error) {
			return mul.NewUint8(shape, tensor.QuantParams{Scale: scale, ZeroPoint: zp}, values)
		}
	} else {
		values, err := parseFloats(raw)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		n = len(values)
		build = func(shape tensor.Shape) (*tensor.Tensor, error) {
			return mul.NewFloat32(shape, values)
		}
	}

	shape := tensor.Shape{n}
	if cmd.Flags().Changed(shapeFlag) {
		s, _ := cmd.Flags().GetString(shapeFlag)
		parsed, err := parseShape(s)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", shapeFlag, err)
		}
		shape = parsed
	}

	t, err := build(shape)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

func registration(cmd *cobra.Command) (*mul.Registration, error) {
	name, _ := cmd.Flags().GetString("kernel")
	if name == "" {
		return mul.RegisterFromEnv()
	}
	s, err := mul.ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	return mul.RegisterFor(s), nil
}

func mulHandler(cmd *cobra.Command, _ []string) error {
	quantized, _ := cmd.Flags().GetBool("quantized")

	a, err := operand(cmd, "a", quantized)
	if err != nil {
		return err
	}
	b, err := operand(cmd, "b", quantized)
	if err != nil {
		return err
	}

	actName, _ := cmd.Flags().GetString("activation")
	act, err := mul.ParseActivation(actName)
	if err != nil {
		return err
	}

	reg, err := registration(cmd)
	if err != nil {
		return err
	}

	out := mul.NewOutput()
	if quantized {
		scale, _ := cmd.Flags().GetFloat32("out-scale")
		zp, _ := cmd.Flags().GetInt32("out-zero-point")
		out = mul.NewQuantizedOutput(tensor.QuantParams{Scale: scale, ZeroPoint: zp})
	}

	h := mul.NewHost(slog.Default())
	in := h.NewInstance(reg, a, b, out, &mul.Params{Activation: act})
	defer in.Close()

	if err := in.Prepare(); err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	if err := in.Invoke(); err != nil {
		return fmt.Errorf("invoke: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "kernel: %s\n", reg.Strategy)
	fmt.Fprintf(w, "shape:  %v\n", []int(out.Shape()))
	if quantized {
		fmt.Fprintf(w, "values: %s\n", formatValues(out.AsUint8()))
	} else {
		fmt.Fprintf(w, "values: %s\n", formatValues(out.AsFloat32()))
	}
	return nil
}

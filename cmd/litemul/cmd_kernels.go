package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/litemul/internal/envconfig"
	"github.com/born-ml/litemul/mul"
)

func newKernelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kernels",
		Short: "List compute strategies and detected vector support",
		Args:  cobra.NoArgs,
		RunE:  kernelsHandler,
	}
}

func kernelsHandler(cmd *cobra.Command, _ []string) error {
	features := mul.DetectedFeatures()
	def, err := mul.RegisterFromEnv()
	if err != nil {
		return err
	}

	var data [][]string
	for _, s := range mul.Strategies {
		marker := ""
		if s == def.Strategy {
			marker = "*"
		}
		data = append(data, []string{s.String(), backendFor(s, features), marker})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"STRATEGY", "BACKEND", "DEFAULT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	if envconfig.NoSIMD() {
		fmt.Fprintln(cmd.OutOrStdout(), "\nvector code disabled by BORN_NO_SIMD")
	}
	return nil
}

func backendFor(s mul.Strategy, f mul.Features) string {
	switch s {
	case mul.Reference:
		return "scalar"
	case mul.GenericOptimized:
		return "portable"
	default:
		if !f.Enabled {
			return "portable (no vector support)"
		}
		return fmt.Sprintf("%s, %d-byte vectors", f.Level, f.VectorBytes)
	}
}

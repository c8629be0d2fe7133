package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/litemul/tensor"
)

// splitList splits a comma separated list. An empty string yields no items.
func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseShape reads a shape such as "2,3,4". The empty string is a scalar.
func parseShape(s string) (tensor.Shape, error) {
	parts := splitList(s)
	shape := make(tensor.Shape, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q: %w", p, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid dimension %d: must be non-negative", d)
		}
		shape[i] = d
	}
	return shape, nil
}

func parseFloats(s string) ([]float32, error) {
	parts := splitList(s)
	values := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", p, err)
		}
		values[i] = float32(v)
	}
	return values, nil
}

func parseUint8s(s string) ([]uint8, error) {
	parts := splitList(s)
	values := make([]uint8, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid uint8 value %q: %w", p, err)
		}
		values[i] = uint8(v)
	}
	return values, nil
}

func formatValues[T float32 | uint8](values []T) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprint(&sb, v)
	}
	return sb.String()
}

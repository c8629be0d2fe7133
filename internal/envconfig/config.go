// Package envconfig reads the operator's environment configuration.
//
// Variables:
//   - BORN_MUL_KERNEL: compute strategy used by default (reference, generic, simd)
//   - BORN_NO_SIMD: run the SIMD strategy on its portable fallback
//   - BORN_DEBUG: log verbosity (true for debug, or an integer n for level -4n)
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var (
	// Kernel names the default compute strategy. Empty means auto-detect.
	Kernel = String("BORN_MUL_KERNEL")

	// NoSIMD disables vector code paths in the SIMD strategy.
	NoSIMD = Bool("BORN_NO_SIMD")
)

// LogLevel returns the log level selected by BORN_DEBUG.
// Default: slog.LevelInfo.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("BORN_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var returns an environment variable stripped of whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// BoolWithDefault returns a getter for a boolean variable. Unparsable
// non-empty values count as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a getter for a boolean variable defaulting to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// String returns a getter for a string variable.
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

// EnvVar describes one configuration variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"BORN_MUL_KERNEL": {"BORN_MUL_KERNEL", Kernel(), "Default Mul kernel strategy (reference, generic, simd)"},
		"BORN_NO_SIMD":    {"BORN_NO_SIMD", NoSIMD(), "Run the SIMD strategy without vector code"},
		"BORN_DEBUG":      {"BORN_DEBUG", LogLevel(), "Show additional debug information (e.g. BORN_DEBUG=1)"},
	}
}

// Values returns every variable's current value formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

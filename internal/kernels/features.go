package kernels

import (
	"github.com/born-ml/litemul/internal/envconfig"
)

// Features describes the vector support the SIMD strategy runs with.
type Features struct {
	Level       string // "avx2", "sse2", "neon" or "scalar"
	VectorBytes int    // Register width used for lane blocking
	Enabled     bool   // False when the SIMD strategy runs its portable fallback
}

// detected is resolved once at init and never mutated afterwards.
var detected Features

func init() {
	if envconfig.NoSIMD() {
		detected = scalarFeatures()
		return
	}
	detected = detectFeatures()
}

func scalarFeatures() Features {
	return Features{Level: "scalar", VectorBytes: 16}
}

// Detected returns the vector features found on this CPU.
func Detected() Features {
	return detected
}

//go:build amd64

package kernels

import "golang.org/x/sys/cpu"

func detectFeatures() Features {
	switch {
	case cpu.X86.HasAVX2:
		return Features{Level: "avx2", VectorBytes: 32, Enabled: true}
	case cpu.X86.HasSSE2:
		// SSE2 is the amd64 baseline.
		return Features{Level: "sse2", VectorBytes: 16, Enabled: true}
	default:
		return scalarFeatures()
	}
}

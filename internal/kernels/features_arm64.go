//go:build arm64

package kernels

import "golang.org/x/sys/cpu"

func detectFeatures() Features {
	if cpu.ARM64.HasASIMD {
		return Features{Level: "neon", VectorBytes: 16, Enabled: true}
	}
	return scalarFeatures()
}

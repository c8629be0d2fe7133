//go:build !amd64 && !arm64

package kernels

// Other architectures run the SIMD strategy in fallback mode.
func detectFeatures() Features {
	return scalarFeatures()
}

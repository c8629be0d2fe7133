package tensor

// QuantParams describes an affine quantization: real = Scale * (q - ZeroPoint).
type QuantParams struct {
	Scale     float32
	ZeroPoint int32
}

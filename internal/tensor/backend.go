package tensor

// Backend is the compute interface every device implementation satisfies.
//
// The surface is deliberately limited to what composing and running an
// image classifier needs: elementwise arithmetic with broadcasting, matrix
// multiplication, 2D convolution, the activations used by classification
// heads, and the reductions behind pooling and accuracy.
//
// Shape and type errors inside backend operations panic: they indicate
// programming mistakes, not runtime conditions a caller can recover from.
type Backend interface {
	// Elementwise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2D matrices: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Conv2D convolves input [N, C, H, W] with kernel [O, C, KH, KW].
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// Activations.
	ReLU(x *RawTensor) *RawTensor
	Softmax(x *RawTensor, dim int) *RawTensor

	// Scalar operations.
	AddScalar(x *RawTensor, scalar float32) *RawTensor
	MulScalar(x *RawTensor, scalar float32) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	Argmax(x *RawTensor, dim int) *RawTensor

	// Shape operations.
	Reshape(x *RawTensor, shape Shape) *RawTensor
	Transpose(x *RawTensor, axes ...int) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}

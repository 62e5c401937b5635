package cpu

import "github.com/graft-ml/graft/internal/tensor"

// broadcastOp fills result by applying op over a and b with NumPy-style
// broadcasting. The result shape must already be the broadcast of the
// operand shapes.
func broadcastOp(result, a, b *tensor.RawTensor, op func(x, y float32) float32) {
	outShape := result.Shape()
	ndim := len(outShape)

	aStrides := broadcastStrides(a.Shape(), a.Strides(), ndim)
	bStrides := broadcastStrides(b.Shape(), b.Strides(), ndim)
	outStrides := outShape.Strides()

	out := result.AsFloat32()
	av := a.AsFloat32()
	bv := b.AsFloat32()

	idx := make([]int, ndim)
	for i := range out {
		rem := i
		aOff, bOff := 0, 0
		for d := 0; d < ndim; d++ {
			idx[d] = rem / outStrides[d]
			rem %= outStrides[d]
			aOff += idx[d] * aStrides[d]
			bOff += idx[d] * bStrides[d]
		}
		out[i] = op(av[aOff], bv[bOff])
	}
}

// broadcastStrides aligns a tensor's strides to the output rank, setting the
// stride to zero on dimensions of size 1 so the same element repeats.
func broadcastStrides(shape tensor.Shape, strides []int, outNdim int) []int {
	aligned := make([]int, outNdim)
	offset := outNdim - len(shape)
	for d := 0; d < len(shape); d++ {
		if shape[d] == 1 {
			aligned[offset+d] = 0
		} else {
			aligned[offset+d] = strides[d]
		}
	}
	return aligned
}

package cpu

import (
	"fmt"
	"math"

	"github.com/graft-ml/graft/internal/tensor"
)

// ReLU replaces negative elements with zero.
func (c *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := x.Clone()
	data := result.AsFloat32()
	for i, v := range data {
		if v < 0 {
			data[i] = 0
		}
	}
	return result
}

// Softmax normalizes values along a dimension into a probability
// distribution. The max is subtracted before exponentiation for numerical
// stability.
func (c *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: softmax: dim %d out of range for shape %v", dim, shape))
	}

	result := x.Clone()
	data := result.AsFloat32()

	dimSize := shape[dim]
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	outer := len(data) / (dimSize * inner)

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in

			maxVal := data[base]
			for i := 1; i < dimSize; i++ {
				if v := data[base+i*inner]; v > maxVal {
					maxVal = v
				}
			}

			var sum float32
			for i := 0; i < dimSize; i++ {
				e := float32(math.Exp(float64(data[base+i*inner] - maxVal)))
				data[base+i*inner] = e
				sum += e
			}

			for i := 0; i < dimSize; i++ {
				data[base+i*inner] /= sum
			}
		}
	}
	return result
}

package cpu

import (
	"fmt"

	"github.com/graft-ml/graft/internal/tensor"
)

// Sum reduces all elements to a single value, returned as a shape{1} tensor.
func (c *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, c.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: sum: %v", err))
	}
	var total float32
	for _, v := range x.AsFloat32() {
		total += v
	}
	result.AsFloat32()[0] = total
	return result
}

// SumDim sums along one dimension.
func (c *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduceDim("sumdim", x, dim, keepDim, false)
}

// MeanDim averages along one dimension.
func (c *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduceDim("meandim", x, dim, keepDim, true)
}

func (c *Backend) reduceDim(name string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: %s: dim %d out of range for shape %v", name, dim, shape))
	}

	dimSize := shape[dim]
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	outer := x.NumElements() / (dimSize * inner)

	outShape := reducedShape(shape, dim, keepDim)
	result, err := tensor.NewRaw(outShape, tensor.Float32, c.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: %s: %v", name, err))
	}

	in := x.AsFloat32()
	out := result.AsFloat32()

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var acc float32
			base := o*dimSize*inner + i
			for d := 0; d < dimSize; d++ {
				acc += in[base+d*inner]
			}
			if mean {
				acc /= float32(dimSize)
			}
			out[o*inner+i] = acc
		}
	}
	return result
}

// Argmax returns int32 indices of the maximum along a dimension. The reduced
// dimension is removed from the output shape.
func (c *Backend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: argmax: dim %d out of range for shape %v", dim, shape))
	}

	dimSize := shape[dim]
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	outer := x.NumElements() / (dimSize * inner)

	outShape := reducedShape(shape, dim, false)
	result, err := tensor.NewRaw(outShape, tensor.Int32, c.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: argmax: %v", err))
	}

	in := x.AsFloat32()
	out := result.AsInt32()

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*dimSize*inner + i
			best := int32(0)
			bestVal := in[base]
			for d := 1; d < dimSize; d++ {
				if v := in[base+d*inner]; v > bestVal {
					bestVal = v
					best = int32(d)
				}
			}
			out[o*inner+i] = best
		}
	}
	return result
}

// reducedShape removes or collapses the reduced dimension. Reducing the only
// dimension yields shape{1} so results stay valid tensors.
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	if len(shape) == 1 {
		return tensor.Shape{1}
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for d, size := range shape {
		if d == dim {
			continue
		}
		out = append(out, size)
	}
	return out
}

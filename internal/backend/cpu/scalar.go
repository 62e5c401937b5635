package cpu

import "github.com/graft-ml/graft/internal/tensor"

// AddScalar adds a scalar to every element.
func (c *Backend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	result := x.Clone()
	data := result.AsFloat32()
	for i := range data {
		data[i] += scalar
	}
	return result
}

// MulScalar multiplies every element by a scalar.
func (c *Backend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	result := x.Clone()
	data := result.AsFloat32()
	for i := range data {
		data[i] *= scalar
	}
	return result
}

// Package cpu implements the pure-Go CPU compute backend.
package cpu

import (
	"fmt"

	"github.com/graft-ml/graft/internal/tensor"
)

// Backend computes tensor operations on the CPU.
//
// Arithmetic is implemented for float32, the element type of weights and
// activations. Same-shape operands take a vectorized fast path; mismatched
// shapes go through the broadcasting slow path.
type Backend struct {
	device tensor.Device
}

// New creates a CPU backend.
func New() *Backend {
	return &Backend{device: tensor.CPU}
}

// Name returns the backend name.
func (c *Backend) Name() string { return "CPU" }

// Device returns the compute device.
func (c *Backend) Device() tensor.Device { return c.device }

// Add performs elementwise addition with broadcasting.
func (c *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs elementwise subtraction with broadcasting.
func (c *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs elementwise multiplication with broadcasting.
func (c *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs elementwise division with broadcasting.
func (c *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("div", a, b, func(x, y float32) float32 { return x / y })
}

// binaryOp dispatches between the vectorized same-shape path and the
// broadcasting path.
func (c *Backend) binaryOp(name string, a, b *tensor.RawTensor, op func(x, y float32) float32) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: %s requires float32 operands, got %s and %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.Broadcast(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, tensor.Float32, c.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: %s: %v", name, err))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		out := result.AsFloat32()
		av := a.AsFloat32()
		bv := b.AsFloat32()
		for i := range out {
			out[i] = op(av[i], bv[i])
		}
		return result
	}

	broadcastOp(result, a, b, op)
	return result
}

// Reshape returns a copy of the tensor under a new shape.
func (c *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("cpu: reshape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("cpu: reshape %v -> %v: element count differs", t.Shape(), newShape))
	}
	return t.Clone().WithShape(newShape)
}

// Transpose permutes dimensions. With no axes, all dimensions reverse.
func (c *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("cpu: transpose: %d axes for %dD tensor", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("cpu: transpose: axis %d out of range", ax))
		}
		if seen[ax] {
			panic(fmt.Sprintf("cpu: transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: transpose: %v", err))
	}

	src := t.AsFloat32()
	dst := result.AsFloat32()
	srcStrides := t.Strides()
	dstStrides := newShape.Strides()

	// Walk destination elements, mapping each index back to the source.
	idx := make([]int, ndim)
	for i := range dst {
		rem := i
		for d := 0; d < ndim; d++ {
			idx[d] = rem / dstStrides[d]
			rem %= dstStrides[d]
		}
		srcOffset := 0
		for d := 0; d < ndim; d++ {
			srcOffset += idx[d] * srcStrides[axes[d]]
		}
		dst[i] = src[srcOffset]
	}
	return result
}

package nn

import (
	"github.com/graft-ml/graft/internal/tensor"
)

// Parameter is a named tensor owned by a module.
//
// Each parameter carries a trainable flag. Optimizers consult the flag to
// decide which parameters to update; freezing a backbone flips the flag on
// every parameter it owns without touching the values.
type Parameter[B tensor.Backend] struct {
	name      string
	tensor    *tensor.Tensor[float32, B]
	grad      *tensor.Tensor[float32, B]
	trainable bool
}

// NewParameter creates a trainable parameter.
//
// The tensor should be initialized before wrapping it. The gradient is nil
// until a training step supplies one.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:      name,
		tensor:    t,
		trainable: true,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Trainable reports whether optimizers should update this parameter.
func (p *Parameter[B]) Trainable() bool {
	return p.trainable
}

// SetTrainable marks the parameter as trainable or frozen.
func (p *Parameter[B]) SetTrainable(trainable bool) {
	p.trainable = trainable
}

// Grad returns the gradient tensor, or nil if none has been set.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor. Call before each training iteration
// so gradients do not accumulate across steps.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

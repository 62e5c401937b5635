package nn

import (
	"fmt"

	"github.com/graft-ml/graft/internal/tensor"
)

// Activation enumerates the activation functions a layer can carry.
type Activation int

// Supported activations.
const (
	ActivationIdentity Activation = iota
	ActivationReLU
	ActivationSoftmax
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case ActivationIdentity:
		return "identity"
	case ActivationReLU:
		return "relu"
	case ActivationSoftmax:
		return "softmax"
	default:
		return "unknown"
	}
}

// NewActivation builds the module for an activation. dim is only used by
// softmax; pass 1 for [batch, classes] outputs.
func NewActivation[B tensor.Backend](a Activation, dim int) Module[B] {
	switch a {
	case ActivationIdentity:
		return NewIdentity[B]()
	case ActivationReLU:
		return NewReLU[B]()
	case ActivationSoftmax:
		return NewSoftmax[B](dim)
	default:
		panic(fmt.Sprintf("unknown activation %d", a))
	}
}

// Identity passes its input through unchanged. It stands in where an
// optional activation slot is left empty.
type Identity[B tensor.Backend] struct{}

// NewIdentity creates an Identity module.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return &Identity[B]{}
}

// Forward returns the input unchanged.
func (id *Identity[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input
}

// Parameters returns nil; Identity has no parameters.
func (id *Identity[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map; Identity has no state.
func (id *Identity[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op for Identity.
func (id *Identity[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

// ReLU applies max(0, x) elementwise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies the activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return tensor.New[float32, B](input.Backend().ReLU(input.Raw()), input.Backend())
}

// Parameters returns nil; ReLU has no parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map; ReLU has no state.
func (r *ReLU[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op for ReLU.
func (r *ReLU[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

// Softmax normalizes values along a dimension into probabilities.
//
// Classification heads place this after the final Linear so the model
// outputs a distribution over classes.
type Softmax[B tensor.Backend] struct {
	dim int
}

// NewSoftmax creates a Softmax module over the given dimension.
// Use dim=1 for [batch, classes] outputs.
func NewSoftmax[B tensor.Backend](dim int) *Softmax[B] {
	return &Softmax[B]{dim: dim}
}

// Forward applies softmax along the configured dimension.
func (s *Softmax[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Softmax(s.dim)
}

// Parameters returns nil; Softmax has no parameters.
func (s *Softmax[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map; Softmax has no state.
func (s *Softmax[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op for Softmax.
func (s *Softmax[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

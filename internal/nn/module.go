// Package nn implements neural network modules for the Graft framework.
//
// This package provides the building blocks composed models are made of:
//   - Module interface: base interface for all components
//   - Parameter: named weights with a trainable flag
//   - Linear, Conv2D, GlobalAvgPool2D: layers
//   - ReLU, Softmax: activations
//   - CategoricalCrossEntropy, Accuracy: evaluation
//   - Sequential: container for stacking layers
package nn

import (
	"github.com/graft-ml/graft/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into larger architectures:
//
//	head := nn.NewSequential[B](
//	    nn.NewLinear(1536, 256, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(256, 10, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the module output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all parameters of this module, including nested
	// module parameters. Stateless modules return an empty slice.
	Parameters() []*Parameter[B]

	// StateDict returns the module's parameters keyed by name.
	// Stateless modules return an empty map.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies parameter values from a state dictionary.
	// Shapes and dtypes must match the module's own parameters.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

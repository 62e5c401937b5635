// Copyright 2026 The Graft Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Conv2D, GlobalAvgPool2D
//   - Activations: ReLU, Softmax, Identity
//   - Loss and metrics: CategoricalCrossEntropy, Accuracy
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: Xavier, Zeros, Ones, Randn
//
// # Basic Usage
//
//	import (
//	    "github.com/graft-ml/graft/backend/cpu"
//	    "github.com/graft-ml/graft/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    head := nn.NewSequential[*cpu.Backend](
//	        nn.NewLinear(1536, 256, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewLinear(256, 10, backend),
//	        nn.NewSoftmax[*cpu.Backend](1),
//	    )
//
//	    output := head.Forward(input)
//	}
package nn

import (
	"github.com/graft-ml/graft/internal/nn"
	"github.com/graft-ml/graft/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named tensor with a trainable flag.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a trainable parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear is a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(1536, 256, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Conv2D is a 2D convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a 2D convolutional layer with a square kernel.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(3, 40, 3, 2, 1, backend) // in=3, out=40, kernel=3, stride=2, padding=1
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelSize, stride, padding int, backend B) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelSize, stride, padding, backend)
}

// GlobalAvgPool2D averages each feature map to a single value.
type GlobalAvgPool2D[B tensor.Backend] = nn.GlobalAvgPool2D[B]

// NewGlobalAvgPool2D creates a global average pooling layer.
func NewGlobalAvgPool2D[B tensor.Backend]() *GlobalAvgPool2D[B] {
	return nn.NewGlobalAvgPool2D[B]()
}

// Activations

// Activation enumerates the supported activation functions.
type Activation = nn.Activation

// Supported activations.
const (
	ActivationIdentity = nn.ActivationIdentity
	ActivationReLU     = nn.ActivationReLU
	ActivationSoftmax  = nn.ActivationSoftmax
)

// NewActivation builds the module for an activation.
func NewActivation[B tensor.Backend](a Activation, dim int) Module[B] {
	return nn.NewActivation[B](a, dim)
}

// ReLU is the rectified linear unit activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Softmax normalizes values along a dimension into probabilities.
type Softmax[B tensor.Backend] = nn.Softmax[B]

// NewSoftmax creates a Softmax layer over the given dimension.
func NewSoftmax[B tensor.Backend](dim int) *Softmax[B] {
	return nn.NewSoftmax[B](dim)
}

// Identity passes its input through unchanged.
type Identity[B tensor.Backend] = nn.Identity[B]

// NewIdentity creates an Identity layer.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return nn.NewIdentity[B]()
}

// Containers

// Sequential chains modules so each module's output feeds the next.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Loss and metrics

// CategoricalCrossEntropy measures the distance between predicted class
// probabilities and targets.
type CategoricalCrossEntropy[B tensor.Backend] = nn.CategoricalCrossEntropy[B]

// NewCategoricalCrossEntropy creates the loss function.
func NewCategoricalCrossEntropy[B tensor.Backend]() *CategoricalCrossEntropy[B] {
	return nn.NewCategoricalCrossEntropy[B]()
}

// Accuracy returns the fraction of rows where the predicted class matches
// the target class.
func Accuracy[B tensor.Backend](probs, targets *tensor.Tensor[float32, B]) float32 {
	return nn.Accuracy(probs, targets)
}

// Initialization

// Xavier returns a tensor with Xavier/Glorot-uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros returns a zero-filled tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones returns a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}

// Randn returns a tensor with values drawn from N(0, 1).
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Randn(shape, backend)
}

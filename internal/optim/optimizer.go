// Package optim implements optimization algorithms for fine-tuning
// composed models.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: stochastic gradient descent with momentum
//   - Adam: adaptive moment estimation
//
// Optimizers read gradients from the parameters themselves and only update
// parameters whose trainable flag is set, so a frozen backbone never moves
// even when its parameters are passed in.
//
// Example:
//
//	optimizer := optim.NewAdam(model.TrainableParameters(), optim.AdamConfig{
//	    LR: 0.001,
//	}, backend)
//
//	for step := range steps {
//	    setGradients(model, batch)
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//	}
package optim

import (
	"github.com/graft-ml/graft/internal/nn"
	"github.com/graft-ml/graft/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one gradient update to all trainable parameters.
	// Parameters without a gradient are skipped.
	Step()

	// ZeroGrad clears all parameter gradients. Call before each backward
	// pass to prevent accumulation across iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration shared by all optimizers.
type Config struct {
	LR float32
}

// updatable reports whether a parameter should be touched this step.
func updatable[B tensor.Backend](param *nn.Parameter[B]) bool {
	return param != nil && param.Trainable() && param.Grad() != nil
}

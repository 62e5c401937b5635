package compose

import (
	"fmt"

	"github.com/graft-ml/graft/internal/nn"
	"github.com/graft-ml/graft/internal/optim"
)

// Optimizer names accepted by TrainingConfig.
const (
	OptimizerAdam = "adam"
	OptimizerSGD  = "sgd"
)

// TrainingConfig selects the optimizer, loss, and metric bound to a model
// at compile time. Zero values take the defaults: Adam with learning rate
// 0.001. The loss is always categorical cross-entropy and the metric is
// accuracy; this workflow has exactly one objective.
type TrainingConfig struct {
	Optimizer    string  // "adam" (default) or "sgd"
	LearningRate float32 // default 0.001
	Momentum     float32 // SGD only
}

// Compile binds a training configuration to the model.
//
// The optimizer is constructed over the model's trainable parameters only,
// so the frozen backbone is invisible to it. Compiling again replaces the
// previous configuration, including optimizer state.
func (m *Model[B]) Compile(cfg TrainingConfig) error {
	if cfg.Optimizer == "" {
		cfg.Optimizer = OptimizerAdam
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.001
	}

	params := m.TrainableParameters()

	switch cfg.Optimizer {
	case OptimizerAdam:
		m.optimizer = optim.NewAdam(params, optim.AdamConfig{LR: cfg.LearningRate}, m.backend)
	case OptimizerSGD:
		m.optimizer = optim.NewSGD(params, optim.SGDConfig{LR: cfg.LearningRate, Momentum: cfg.Momentum}, m.backend)
	default:
		return fmt.Errorf("unknown optimizer %q", cfg.Optimizer)
	}

	m.loss = nn.NewCategoricalCrossEntropy[B]()
	m.config = cfg
	m.compiled = true
	return nil
}

// Compiled reports whether Compile has been called.
func (m *Model[B]) Compiled() bool {
	return m.compiled
}

// Optimizer returns the bound optimizer, or nil before compilation.
func (m *Model[B]) Optimizer() optim.Optimizer {
	return m.optimizer
}

// Loss returns the bound loss function, or nil before compilation.
func (m *Model[B]) Loss() *nn.CategoricalCrossEntropy[B] {
	return m.loss
}

// Config returns the bound training configuration with defaults applied.
func (m *Model[B]) Config() TrainingConfig {
	return m.config
}

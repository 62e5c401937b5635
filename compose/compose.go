// Copyright 2026 The Graft Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package compose grafts trainable classification heads onto frozen
// pretrained backbones and binds training configurations to the result.
//
// # Basic Usage
//
//	backend := cpu.New()
//
//	bb, err := backbone.Load(ctx, "efficientnet-b3", "imagenet", backend)
//	if err != nil {
//	    return err
//	}
//
//	model, err := compose.Compose(bb, 10, backend)
//	if err != nil {
//	    return err
//	}
//
//	if err := model.Compile(compose.TrainingConfig{}); err != nil {
//	    return err
//	}
//
//	probs := model.Forward(batch) // [N, 10], rows sum to 1
//	fmt.Print(model.Summary())
package compose

import (
	"github.com/graft-ml/graft/internal/backbone"
	"github.com/graft-ml/graft/internal/compose"
	"github.com/graft-ml/graft/internal/tensor"
)

// Model is a composed transfer-learning classifier.
type Model[B tensor.Backend] = compose.Model[B]

// TrainingConfig selects the optimizer, loss, and metric bound to a model
// at compile time. Zero values take the defaults: Adam with learning rate
// 0.001.
type TrainingConfig = compose.TrainingConfig

// Optimizer names accepted by TrainingConfig.
const (
	OptimizerAdam = compose.OptimizerAdam
	OptimizerSGD  = compose.OptimizerSGD
)

// Compose builds a classifier from a backbone: the backbone is frozen and
// a fresh head (256 -> 128 -> numClasses, softmax output) is grafted on.
func Compose[B tensor.Backend](bb *backbone.Backbone[B], numClasses int, backend B) (*Model[B], error) {
	return compose.Compose(bb, numClasses, backend)
}

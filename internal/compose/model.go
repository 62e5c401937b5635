// Package compose grafts trainable classification heads onto frozen
// pretrained backbones.
package compose

import (
	"fmt"

	"github.com/graft-ml/graft/internal/backbone"
	"github.com/graft-ml/graft/internal/nn"
	"github.com/graft-ml/graft/internal/optim"
	"github.com/graft-ml/graft/internal/tensor"
)

// Head layer widths between the pooled features and the class output.
const (
	hiddenWidth1 = 256
	hiddenWidth2 = 128
)

// Model is a composed transfer-learning classifier: a frozen backbone,
// global average pooling, and a fresh dense head ending in softmax.
//
// Forward maps [N, C, S, S] image batches to [N, numClasses] probability
// vectors (non-negative, each row summing to 1).
type Model[B tensor.Backend] struct {
	backbone   *backbone.Backbone[B]
	pool       *nn.GlobalAvgPool2D[B]
	head       *nn.Sequential[B]
	numClasses int
	backend    B

	optimizer optim.Optimizer
	loss      *nn.CategoricalCrossEntropy[B]
	config    TrainingConfig
	compiled  bool
}

// Compose builds a classifier from a backbone.
//
// The backbone is frozen in place: every parameter it owns is marked
// non-trainable, while its weights keep serving forward passes. The head is
// freshly initialized and fully trainable:
//
//	pooled features -> Linear(features, 256) + ReLU
//	               -> Linear(256, 128) + ReLU
//	               -> Linear(128, numClasses) + Softmax
func Compose[B tensor.Backend](bb *backbone.Backbone[B], numClasses int, backend B) (*Model[B], error) {
	if bb == nil {
		return nil, fmt.Errorf("backbone is nil")
	}
	if numClasses <= 0 {
		return nil, fmt.Errorf("numClasses must be positive, got %d", numClasses)
	}

	bb.Freeze()

	features := bb.FeatureChannels()
	head := nn.NewSequential[B](
		nn.NewLinear(features, hiddenWidth1, backend),
		nn.NewReLU[B](),
		nn.NewLinear(hiddenWidth1, hiddenWidth2, backend),
		nn.NewReLU[B](),
		nn.NewLinear(hiddenWidth2, numClasses, backend),
		nn.NewSoftmax[B](1),
	)

	return &Model[B]{
		backbone:   bb,
		pool:       nn.NewGlobalAvgPool2D[B](),
		head:       head,
		numClasses: numClasses,
		backend:    backend,
	}, nil
}

// Forward runs a batch through the composed model.
//
// Input shape: [N, channels, size, size] as the backbone defines.
// Output shape: [N, numClasses], rows are probability distributions.
func (m *Model[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	features := m.backbone.Forward(input)
	pooled := m.pool.Forward(features)
	return m.head.Forward(pooled)
}

// Predict is an alias for Forward, for call sites that read better with it.
func (m *Model[B]) Predict(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return m.Forward(input)
}

// Parameters returns every parameter of the model, backbone first.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	params := m.backbone.Parameters()
	return append(params, m.head.Parameters()...)
}

// TrainableParameters returns only the parameters an optimizer should
// update. With a frozen backbone this is exactly the head.
func (m *Model[B]) TrainableParameters() []*nn.Parameter[B] {
	var trainable []*nn.Parameter[B]
	for _, param := range m.Parameters() {
		if param.Trainable() {
			trainable = append(trainable, param)
		}
	}
	return trainable
}

// Backbone returns the underlying feature extractor.
func (m *Model[B]) Backbone() *backbone.Backbone[B] {
	return m.backbone
}

// Head returns the dense classification head.
func (m *Model[B]) Head() *nn.Sequential[B] {
	return m.head
}

// NumClasses returns the size of the output distribution.
func (m *Model[B]) NumClasses() int {
	return m.numClasses
}

// Evaluate computes loss and accuracy for a batch.
//
// targets has shape [batch, numClasses] and holds one-hot labels.
// The model must be compiled first.
func (m *Model[B]) Evaluate(input, targets *tensor.Tensor[float32, B]) (lossValue, accuracy float32, err error) {
	if !m.compiled {
		return 0, 0, fmt.Errorf("model is not compiled")
	}
	probs := m.Forward(input)
	lossValue = m.loss.Loss(probs, targets).Data()[0]
	accuracy = nn.Accuracy(probs, targets)
	return lossValue, accuracy, nil
}

// StateDict returns the full model state, backbone keys under "backbone."
// and head keys under "head.".
func (m *Model[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for name, raw := range m.backbone.StateDict() {
		stateDict["backbone."+name] = raw
	}
	for name, raw := range m.head.StateDict() {
		stateDict["head."+name] = raw
	}
	return stateDict
}

// LoadStateDict restores model state written by StateDict.
func (m *Model[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	backboneDict := make(map[string]*tensor.RawTensor)
	headDict := make(map[string]*tensor.RawTensor)
	for name, raw := range stateDict {
		switch {
		case len(name) > 9 && name[:9] == "backbone.":
			backboneDict[name[9:]] = raw
		case len(name) > 5 && name[:5] == "head.":
			headDict[name[5:]] = raw
		}
	}
	if err := m.backbone.LoadStateDict(backboneDict); err != nil {
		return fmt.Errorf("failed to load backbone state: %w", err)
	}
	if err := m.head.LoadStateDict(headDict); err != nil {
		return fmt.Errorf("failed to load head state: %w", err)
	}
	return nil
}

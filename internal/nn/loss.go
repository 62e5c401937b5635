package nn

import (
	"fmt"
	"math"

	"github.com/graft-ml/graft/internal/tensor"
)

// epsilon floors probabilities before the log so a confident wrong
// prediction yields a large finite loss instead of +Inf.
const epsilon = 1e-7

// CategoricalCrossEntropy measures the distance between predicted class
// probabilities and one-hot targets.
//
// Loss = -mean over the batch of sum_c targets[c] * log(probs[c])
//
// Predictions must already be probabilities (the model's Softmax output),
// not logits.
type CategoricalCrossEntropy[B tensor.Backend] struct{}

// NewCategoricalCrossEntropy creates the loss function.
func NewCategoricalCrossEntropy[B tensor.Backend]() *CategoricalCrossEntropy[B] {
	return &CategoricalCrossEntropy[B]{}
}

// Loss computes the mean cross-entropy over the batch.
//
// probs and targets both have shape [batch, classes]; targets are one-hot.
// The result has shape [1].
func (c *CategoricalCrossEntropy[B]) Loss(probs, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !probs.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("CategoricalCrossEntropy: shape mismatch: probs %v, targets %v", probs.Shape(), targets.Shape()))
	}
	if len(probs.Shape()) != 2 {
		panic(fmt.Sprintf("CategoricalCrossEntropy: expected 2D [batch, classes], got shape %v", probs.Shape()))
	}

	batch := probs.Shape()[0]
	pData := probs.Data()
	tData := targets.Data()

	var total float64
	for i := range pData {
		if tData[i] == 0 {
			continue
		}
		p := float64(pData[i])
		if p < epsilon {
			p = epsilon
		}
		total -= float64(tData[i]) * math.Log(p)
	}

	result := tensor.Zeros[float32](tensor.Shape{1}, probs.Backend())
	result.Data()[0] = float32(total / float64(batch))
	return result
}

// SparseLoss computes the mean cross-entropy against integer class labels.
//
// probs has shape [batch, classes]; targets has shape [batch] and holds
// class indices. Equivalent to Loss with one-hot targets.
func (c *CategoricalCrossEntropy[B]) SparseLoss(probs *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	if len(probs.Shape()) != 2 {
		panic(fmt.Sprintf("CategoricalCrossEntropy: expected 2D [batch, classes], got shape %v", probs.Shape()))
	}
	batch, classes := probs.Shape()[0], probs.Shape()[1]
	if len(targets.Shape()) != 1 || targets.Shape()[0] != batch {
		panic(fmt.Sprintf("CategoricalCrossEntropy: expected targets shape [%d], got %v", batch, targets.Shape()))
	}

	pData := probs.Data()
	tData := targets.Data()

	var total float64
	for i := 0; i < batch; i++ {
		class := int(tData[i])
		if class < 0 || class >= classes {
			panic(fmt.Sprintf("CategoricalCrossEntropy: class %d out of range [0, %d)", class, classes))
		}
		p := float64(pData[i*classes+class])
		if p < epsilon {
			p = epsilon
		}
		total -= math.Log(p)
	}

	result := tensor.Zeros[float32](tensor.Shape{1}, probs.Backend())
	result.Data()[0] = float32(total / float64(batch))
	return result
}

// Accuracy returns the fraction of rows where the predicted class matches
// the target class.
//
// probs and targets both have shape [batch, classes]; targets are one-hot.
func Accuracy[B tensor.Backend](probs, targets *tensor.Tensor[float32, B]) float32 {
	if !probs.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("Accuracy: shape mismatch: probs %v, targets %v", probs.Shape(), targets.Shape()))
	}
	if len(probs.Shape()) != 2 {
		panic(fmt.Sprintf("Accuracy: expected 2D [batch, classes], got shape %v", probs.Shape()))
	}

	backend := probs.Backend()
	predicted := backend.Argmax(probs.Raw(), 1).AsInt32()
	expected := backend.Argmax(targets.Raw(), 1).AsInt32()

	correct := 0
	for i := range predicted {
		if predicted[i] == expected[i] {
			correct++
		}
	}
	return float32(correct) / float32(len(predicted))
}

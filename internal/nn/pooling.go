package nn

import (
	"fmt"

	"github.com/graft-ml/graft/internal/tensor"
)

// GlobalAvgPool2D averages each feature map down to a single value.
//
// Input shape: [batch, channels, height, width]
// Output shape: [batch, channels]
//
// This is the standard bridge between a convolutional feature extractor and
// a dense classification head: it removes the spatial dimensions while
// keeping one value per channel.
type GlobalAvgPool2D[B tensor.Backend] struct{}

// NewGlobalAvgPool2D creates a global average pooling module.
func NewGlobalAvgPool2D[B tensor.Backend]() *GlobalAvgPool2D[B] {
	return &GlobalAvgPool2D[B]{}
}

// Forward averages over the spatial dimensions.
func (g *GlobalAvgPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(input.Shape()) != 4 {
		panic(fmt.Sprintf("GlobalAvgPool2D.Forward: expected 4D input [batch, channels, h, w], got shape %v", input.Shape()))
	}
	// [N, C, H, W] -> [N, C, H] -> [N, C]
	return input.MeanDim(3, false).MeanDim(2, false)
}

// Parameters returns nil; pooling has no parameters.
func (g *GlobalAvgPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map; pooling has no state.
func (g *GlobalAvgPool2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op for pooling.
func (g *GlobalAvgPool2D[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

package backbone

import (
	"context"
	"fmt"

	"github.com/graft-ml/graft/internal/hub"
	"github.com/graft-ml/graft/internal/nn"
	"github.com/graft-ml/graft/internal/tensor"
	"github.com/graft-ml/graft/internal/weights"
)

// Backbone is an assembled convolutional feature extractor.
//
// Forward maps [N, C, S, S] image batches to [N, FeatureChannels, h, w]
// feature maps. A backbone is usually frozen after loading pretrained
// weights so fine-tuning only touches the head grafted on top of it.
type Backbone[B tensor.Backend] struct {
	arch    ArchSpec
	stack   *nn.Sequential[B]
	backend B
}

// New builds a randomly initialized backbone for the given architecture.
func New[B tensor.Backend](arch ArchSpec, backend B) *Backbone[B] {
	stack := nn.NewSequential[B]()

	in := arch.InputChannels
	for _, conv := range append(append([]ConvSpec{arch.Stem}, arch.Blocks...), arch.Head) {
		stack.Add(nn.NewConv2D(in, conv.Out, conv.Kernel, conv.Stride, conv.Padding, backend))
		stack.Add(nn.NewReLU[B]())
		in = conv.Out
	}

	return &Backbone[B]{
		arch:    arch,
		stack:   stack,
		backend: backend,
	}
}

// Load resolves pretrained weights for the named architecture through the
// default hub client and builds a backbone carrying them.
//
// tag selects the published weight set; empty means the hub default
// ("imagenet"). Retrieval and decoding failures propagate as errors.
func Load[B tensor.Backend](ctx context.Context, name, tag string, backend B) (*Backbone[B], error) {
	client, err := hub.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create hub client: %w", err)
	}
	return LoadFrom(ctx, client, name, tag, backend)
}

// LoadFrom is Load with an explicit hub client.
func LoadFrom[B tensor.Backend](ctx context.Context, client *hub.Client, name, tag string, backend B) (*Backbone[B], error) {
	arch, err := Arch(name)
	if err != nil {
		return nil, err
	}

	path, err := client.Resolve(ctx, name, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve weights for %s: %w", name, err)
	}

	stateDict, err := weights.Load(path, backend.Device())
	if err != nil {
		return nil, fmt.Errorf("failed to read weights for %s: %w", name, err)
	}

	b := New(arch, backend)
	if err := b.stack.LoadStateDict(stateDict); err != nil {
		return nil, fmt.Errorf("weights for %s do not match architecture: %w", name, err)
	}
	return b, nil
}

// Forward extracts feature maps from an image batch.
//
// Input shape: [N, InputChannels, InputSize, InputSize]
// Output shape: [N, FeatureChannels, h, w]
func (b *Backbone[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("Backbone.Forward: expected 4D input [N,C,H,W], got shape %v", shape))
	}
	if shape[1] != b.arch.InputChannels || shape[2] != b.arch.InputSize || shape[3] != b.arch.InputSize {
		panic(fmt.Sprintf("Backbone.Forward: %s expects [N, %d, %d, %d] input, got %v",
			b.arch.Name, b.arch.InputChannels, b.arch.InputSize, b.arch.InputSize, shape))
	}
	return b.stack.Forward(input)
}

// Parameters returns all backbone parameters.
func (b *Backbone[B]) Parameters() []*nn.Parameter[B] {
	return b.stack.Parameters()
}

// Freeze marks every backbone parameter non-trainable. The weights stay in
// memory and keep serving forward passes.
func (b *Backbone[B]) Freeze() {
	for _, param := range b.stack.Parameters() {
		param.SetTrainable(false)
	}
}

// Unfreeze marks every backbone parameter trainable again.
func (b *Backbone[B]) Unfreeze() {
	for _, param := range b.stack.Parameters() {
		param.SetTrainable(true)
	}
}

// Frozen reports whether all backbone parameters are non-trainable.
func (b *Backbone[B]) Frozen() bool {
	for _, param := range b.stack.Parameters() {
		if param.Trainable() {
			return false
		}
	}
	return true
}

// Name returns the architecture name.
func (b *Backbone[B]) Name() string {
	return b.arch.Name
}

// InputSize returns the expected input side length in pixels.
func (b *Backbone[B]) InputSize() int {
	return b.arch.InputSize
}

// FeatureChannels returns the number of output feature channels.
func (b *Backbone[B]) FeatureChannels() int {
	return b.arch.FeatureChannels
}

// Arch returns the architecture specification.
func (b *Backbone[B]) Arch() ArchSpec {
	return b.arch
}

// StateDict returns the backbone's parameters keyed by stack position,
// e.g. "0.weight".
func (b *Backbone[B]) StateDict() map[string]*tensor.RawTensor {
	return b.stack.StateDict()
}

// LoadStateDict copies parameter values into the backbone stack.
func (b *Backbone[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return b.stack.LoadStateDict(stateDict)
}

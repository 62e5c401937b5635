// Package backbone assembles pretrained convolutional feature extractors.
package backbone

import (
	"fmt"
	"sort"
)

// ConvSpec describes one convolution in a backbone stack.
type ConvSpec struct {
	Out     int // output channels
	Kernel  int // square kernel size
	Stride  int
	Padding int
}

// ArchSpec describes a backbone architecture: the input it expects and the
// convolution stack that produces its feature maps. Every convolution is
// followed by ReLU.
type ArchSpec struct {
	Name            string
	InputSize       int // square input, pixels per side
	InputChannels   int
	Stem            ConvSpec
	Blocks          []ConvSpec
	Head            ConvSpec // final 1x1 projection to FeatureChannels
	FeatureChannels int
}

// registry holds all known architectures by name.
var registry = map[string]ArchSpec{}

// Register adds an architecture to the registry. Registering a name twice
// panics; architectures are package-level constants, not runtime state.
func Register(spec ArchSpec) {
	if spec.Name == "" {
		panic("backbone: cannot register architecture with empty name")
	}
	if _, exists := registry[spec.Name]; exists {
		panic(fmt.Sprintf("backbone: architecture %q already registered", spec.Name))
	}
	registry[spec.Name] = spec
}

// Arch returns the named architecture.
func Arch(name string) (ArchSpec, error) {
	spec, ok := registry[name]
	if !ok {
		return ArchSpec{}, fmt.Errorf("unknown architecture %q", name)
	}
	return spec, nil
}

// Archs returns all registered architecture names, sorted.
func Archs() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	// EfficientNetB3-class extractor: 300x300 RGB in, 1536 feature
	// channels out. Strided 3x3 stages reduce 300 -> 10 spatially before
	// the 1x1 projection.
	Register(ArchSpec{
		Name:          "efficientnet-b3",
		InputSize:     300,
		InputChannels: 3,
		Stem:          ConvSpec{Out: 40, Kernel: 3, Stride: 2, Padding: 1},
		Blocks: []ConvSpec{
			{Out: 24, Kernel: 3, Stride: 1, Padding: 1},
			{Out: 32, Kernel: 3, Stride: 2, Padding: 1},
			{Out: 48, Kernel: 3, Stride: 2, Padding: 1},
			{Out: 96, Kernel: 3, Stride: 2, Padding: 1},
			{Out: 136, Kernel: 3, Stride: 1, Padding: 1},
			{Out: 232, Kernel: 3, Stride: 2, Padding: 1},
			{Out: 384, Kernel: 3, Stride: 1, Padding: 1},
		},
		Head:            ConvSpec{Out: 1536, Kernel: 1, Stride: 1, Padding: 0},
		FeatureChannels: 1536,
	})
}

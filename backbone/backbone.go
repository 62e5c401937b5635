// Copyright 2026 The Graft Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backbone provides pretrained convolutional feature extractors.
//
// Example:
//
//	backend := cpu.New()
//	bb, err := backbone.Load(ctx, "efficientnet-b3", "imagenet", backend)
//	if err != nil {
//	    return err
//	}
//	features := bb.Forward(batch) // [N, 1536, h, w]
package backbone

import (
	"context"

	"github.com/graft-ml/graft/internal/backbone"
	"github.com/graft-ml/graft/internal/tensor"
)

// ArchSpec describes a backbone architecture.
type ArchSpec = backbone.ArchSpec

// ConvSpec describes one convolution in a backbone stack.
type ConvSpec = backbone.ConvSpec

// Backbone is an assembled convolutional feature extractor.
type Backbone[B tensor.Backend] = backbone.Backbone[B]

// Register adds an architecture to the registry.
func Register(spec ArchSpec) {
	backbone.Register(spec)
}

// Arch returns the named architecture.
func Arch(name string) (ArchSpec, error) {
	return backbone.Arch(name)
}

// Archs returns all registered architecture names, sorted.
func Archs() []string {
	return backbone.Archs()
}

// New builds a randomly initialized backbone for the given architecture.
func New[B tensor.Backend](arch ArchSpec, backend B) *Backbone[B] {
	return backbone.New(arch, backend)
}

// Load resolves pretrained weights for the named architecture through the
// weight hub and builds a backbone carrying them. An empty tag means the
// hub default ("imagenet").
func Load[B tensor.Backend](ctx context.Context, name, tag string, backend B) (*Backbone[B], error) {
	return backbone.Load(ctx, name, tag, backend)
}

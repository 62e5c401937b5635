// Copyright 2026 The Graft Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package preprocess turns images into model-ready tensors: JPEG/PNG
// decoding, Lanczos3 resizing, and NCHW float32 conversion in [0, 1].
package preprocess

import (
	"image"
	"io"

	"github.com/graft-ml/graft/internal/preprocess"
	"github.com/graft-ml/graft/internal/tensor"
)

// Decode reads a JPEG or PNG image.
func Decode(r io.Reader) (image.Image, error) {
	return preprocess.Decode(r)
}

// Image resizes an image to size×size and converts it to a
// [1, 3, size, size] float32 tensor with values in [0, 1].
func Image[B tensor.Backend](img image.Image, size int, backend B) *tensor.Tensor[float32, B] {
	return preprocess.Image(img, size, backend)
}

// Batch converts images into one [N, 3, size, size] tensor.
func Batch[B tensor.Backend](imgs []image.Image, size int, backend B) *tensor.Tensor[float32, B] {
	return preprocess.Batch(imgs, size, backend)
}

// File decodes an image file and converts it like Image.
func File[B tensor.Backend](path string, size int, backend B) (*tensor.Tensor[float32, B], error) {
	return preprocess.File(path, size, backend)
}

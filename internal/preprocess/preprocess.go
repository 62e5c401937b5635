// Package preprocess turns images into model-ready tensors.
package preprocess

import (
	"fmt"
	"image"
	"io"
	"os"

	// Register decoders for the formats classifiers are fed.
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"

	"github.com/graft-ml/graft/internal/tensor"
)

// channels is fixed to RGB; the supported backbones all take 3-channel
// input.
const channels = 3

// Decode reads a JPEG or PNG image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Image resizes an image to size×size with Lanczos3 and converts it to a
// [1, 3, size, size] float32 tensor with values in [0, 1], NCHW layout.
func Image[B tensor.Backend](img image.Image, size int, backend B) *tensor.Tensor[float32, B] {
	return Batch([]image.Image{img}, size, backend)
}

// Batch converts images into one [N, 3, size, size] tensor.
func Batch[B tensor.Backend](imgs []image.Image, size int, backend B) *tensor.Tensor[float32, B] {
	if len(imgs) == 0 {
		panic("preprocess: empty image batch")
	}
	if size <= 0 {
		panic(fmt.Sprintf("preprocess: invalid target size %d", size))
	}

	t := tensor.Zeros[float32](tensor.Shape{len(imgs), channels, size, size}, backend)
	data := t.Data()
	plane := size * size

	for n, img := range imgs {
		resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
		base := n * channels * plane
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				r, g, b, _ := resized.At(x, y).RGBA()
				idx := y*size + x
				data[base+idx] = float32(r) / 65535.0
				data[base+plane+idx] = float32(g) / 65535.0
				data[base+2*plane+idx] = float32(b) / 65535.0
			}
		}
	}
	return t
}

// File decodes an image file and converts it like Image.
func File[B tensor.Backend](path string, size int, backend B) (*tensor.Tensor[float32, B], error) {
	//nolint:gosec // G304: opens a caller-supplied path
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Image(img, size, backend), nil
}

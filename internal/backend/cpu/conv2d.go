package cpu

import (
	"fmt"

	"github.com/graft-ml/graft/internal/tensor"
)

// Conv2D performs direct 2D convolution.
//
// Input is [N, C, H, W], kernel is [O, C, KH, KW]. Output spatial size is
// (H + 2*padding - KH)/stride + 1 per dimension. Padding is implicit zeros.
func (c *Backend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inShape := input.Shape()
	kShape := kernel.Shape()

	if len(inShape) != 4 || len(kShape) != 4 {
		panic(fmt.Sprintf("cpu: conv2d requires 4D input and kernel, got %v and %v", inShape, kShape))
	}
	if inShape[1] != kShape[1] {
		panic(fmt.Sprintf("cpu: conv2d channel mismatch: input %v, kernel %v", inShape, kShape))
	}
	if stride < 1 {
		panic(fmt.Sprintf("cpu: conv2d: stride %d must be positive", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("cpu: conv2d: padding %d must be non-negative", padding))
	}

	n, ch, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	outCh, kh, kw := kShape[0], kShape[2], kShape[3]

	outH := (h+2*padding-kh)/stride + 1
	outW := (w+2*padding-kw)/stride + 1
	if outH < 1 || outW < 1 {
		panic(fmt.Sprintf("cpu: conv2d: kernel %v too large for input %v with padding %d", kShape, inShape, padding))
	}

	result, err := tensor.NewRaw(tensor.Shape{n, outCh, outH, outW}, tensor.Float32, c.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: conv2d: %v", err))
	}

	in := input.AsFloat32()
	kern := kernel.AsFloat32()
	out := result.AsFloat32()

	for b := 0; b < n; b++ {
		for oc := 0; oc < outCh; oc++ {
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					var acc float32
					for ic := 0; ic < ch; ic++ {
						inBase := ((b*ch + ic) * h) * w
						kBase := ((oc*ch + ic) * kh) * kw
						for ky := 0; ky < kh; ky++ {
							iy := oy*stride + ky - padding
							if iy < 0 || iy >= h {
								continue
							}
							for kx := 0; kx < kw; kx++ {
								ix := ox*stride + kx - padding
								if ix < 0 || ix >= w {
									continue
								}
								acc += in[inBase+iy*w+ix] * kern[kBase+ky*kw+kx]
							}
						}
					}
					out[((b*outCh+oc)*outH+oy)*outW+ox] = acc
				}
			}
		}
	}
	return result
}

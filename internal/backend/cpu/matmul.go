package cpu

import (
	"fmt"

	"github.com/graft-ml/graft/internal/tensor"
)

// MatMul multiplies 2D matrices: (M, K) @ (K, N) -> (M, N).
func (c *Backend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("cpu: matmul requires 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("cpu: matmul inner dimensions differ: %v @ %v", aShape, bShape))
	}
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: matmul requires float32 operands, got %s and %s", a.DType(), b.DType()))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result, err := tensor.NewRaw(tensor.Shape{m, n}, tensor.Float32, c.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: matmul: %v", err))
	}

	av := a.AsFloat32()
	bv := b.AsFloat32()
	out := result.AsFloat32()

	// i-k-j loop order keeps the inner loop sequential over both b and out.
	for i := 0; i < m; i++ {
		aRow := av[i*k : (i+1)*k]
		outRow := out[i*n : (i+1)*n]
		for kk := 0; kk < k; kk++ {
			scale := aRow[kk]
			if scale == 0 {
				continue
			}
			bRow := bv[kk*n : (kk+1)*n]
			for j := range outRow {
				outRow[j] += scale * bRow[j]
			}
		}
	}
	return result
}

// Copyright 2026 The Graft Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/graft-ml/graft/internal/tensor"
)

// RawTensor is the low-level untyped tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Type-safe data access via AsFloat32(), AsInt32(), AsUint8()
//   - Deep copies via Clone()
//
// Most users should use the high-level Tensor[T, B] type instead.
type RawTensor = tensor.RawTensor

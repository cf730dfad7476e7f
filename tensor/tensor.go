// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float32/float64 tensors parameters,
// gradients and accumulators are stored in.
package tensor

import (
	"math/rand/v2"

	"github.com/born-ml/scopt/internal/tensor"
)

// RawTensor is a shaped, contiguous float32 or float64 buffer.
type RawTensor = tensor.RawTensor

// Shape is a tensor's dimensions.
type Shape = tensor.Shape

// DataType identifies the element type.
type DataType = tensor.DataType

// DType is the constraint satisfied by supported element types.
type DType = tensor.DType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype)
}

// Full creates a tensor with every element set to value.
func Full(shape Shape, dtype DataType, value float64) (*RawTensor, error) {
	return tensor.Full(shape, dtype, value)
}

// RandNormal samples a tensor from N(mean, std²).
func RandNormal(shape Shape, dtype DataType, mean, std float64, src rand.Source) (*RawTensor, error) {
	return tensor.RandNormal(shape, dtype, mean, std, src)
}

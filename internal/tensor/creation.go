package tensor

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	raw, err := NewRaw(shape, inferDataType[T]())
	if err != nil {
		return nil, err
	}

	switch d := any(data).(type) {
	case []float32:
		copy(raw.f32, d)
	case []float64:
		copy(raw.f64, d)
	}
	return raw, nil
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice[T DType](data []T, shape Shape) *RawTensor {
	raw, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return raw
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType) (*RawTensor, error) {
	return NewRaw(shape, dtype)
}

// Full creates a tensor filled with value.
func Full(shape Shape, dtype DataType, value float64) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	raw.Fill(value)
	return raw, nil
}

// Scalar creates a 0-D tensor holding value.
func Scalar(value float64, dtype DataType) *RawTensor {
	raw, err := Full(Shape{}, dtype, value)
	if err != nil {
		panic(err)
	}
	return raw
}

// RandNormal fills a new tensor with samples from N(mean, std²).
func RandNormal(shape Shape, dtype DataType, mean, std float64, src rand.Source) (*RawTensor, error) {
	return sample(shape, dtype, distuv.Normal{Mu: mean, Sigma: std, Src: src})
}

// RandUniform fills a new tensor with samples from U[lo, hi).
func RandUniform(shape Shape, dtype DataType, lo, hi float64, src rand.Source) (*RawTensor, error) {
	return sample(shape, dtype, distuv.Uniform{Min: lo, Max: hi, Src: src})
}

func sample(shape Shape, dtype DataType, dist distuv.Rander) (*RawTensor, error) {
	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}
	for i := range raw.NumElements() {
		raw.SetAt(i, dist.Rand())
	}
	return raw, nil
}

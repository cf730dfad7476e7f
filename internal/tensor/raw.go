package tensor

import (
	"fmt"
	"math"
)

// RawTensor is the low-level tensor representation.
//
// Storage is a contiguous row-major slice of the tensor's element type.
// Exactly one of f32/f64 is non-nil, selected by dtype.
type RawTensor struct {
	shape Shape
	dtype DataType
	f32   []float32
	f64   []float64
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	r := &RawTensor{
		shape: shape.Clone(),
		dtype: dtype,
	}
	switch dtype {
	case Float32:
		r.f32 = make([]float32, shape.NumElements())
	case Float64:
		r.f64 = make([]float64, shape.NumElements())
	default:
		return nil, fmt.Errorf("unsupported dtype %s", dtype)
	}
	return r, nil
}

// ZerosLike returns a zero-filled tensor with the shape and dtype of r.
func ZerosLike(r *RawTensor) *RawTensor {
	out, err := NewRaw(r.shape, r.dtype)
	if err != nil {
		// r was validated when it was created.
		panic(err)
	}
	return out
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// AsFloat32 returns the data as a float32 slice (zero-copy).
// Panics if the tensor does not hold float32 data.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("AsFloat32 called on %s tensor", r.dtype))
	}
	return r.f32
}

// AsFloat64 returns the data as a float64 slice (zero-copy).
// Panics if the tensor does not hold float64 data.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("AsFloat64 called on %s tensor", r.dtype))
	}
	return r.f64
}

// Float64s returns a float64 copy of the tensor's data regardless of dtype.
func (r *RawTensor) Float64s() []float64 {
	if r.dtype == Float64 {
		out := make([]float64, len(r.f64))
		copy(out, r.f64)
		return out
	}
	out := make([]float64, len(r.f32))
	for i, v := range r.f32 {
		out[i] = float64(v)
	}
	return out
}

// At returns the element at flat index i widened to float64.
func (r *RawTensor) At(i int) float64 {
	if r.dtype == Float32 {
		return float64(r.f32[i])
	}
	return r.f64[i]
}

// SetAt stores v at flat index i, narrowing to the tensor's dtype.
func (r *RawTensor) SetAt(i int, v float64) {
	if r.dtype == Float32 {
		r.f32[i] = float32(v)
		return
	}
	r.f64[i] = v
}

// Item returns the value of a single-element tensor.
// Panics if the tensor holds more than one element.
func (r *RawTensor) Item() float64 {
	if r.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", r.shape))
	}
	return r.At(0)
}

// Fill sets every element to v.
func (r *RawTensor) Fill(v float64) {
	if r.dtype == Float32 {
		for i := range r.f32 {
			r.f32[i] = float32(v)
		}
		return
	}
	for i := range r.f64 {
		r.f64[i] = v
	}
}

// CopyFrom overwrites r's data with src's data.
func (r *RawTensor) CopyFrom(src *RawTensor) error {
	if !r.shape.Equal(src.shape) {
		return fmt.Errorf("copy shape mismatch: %v vs %v", r.shape, src.shape)
	}
	if r.dtype != src.dtype {
		return fmt.Errorf("copy dtype mismatch: %s vs %s", r.dtype, src.dtype)
	}
	if r.dtype == Float32 {
		copy(r.f32, src.f32)
	} else {
		copy(r.f64, src.f64)
	}
	return nil
}

// Clone creates a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	out := ZerosLike(r)
	if r.dtype == Float32 {
		copy(out.f32, r.f32)
	} else {
		copy(out.f64, r.f64)
	}
	return out
}

// Reshape returns a view of r with a new shape of the same element count.
func (r *RawTensor) Reshape(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != r.NumElements() {
		return nil, fmt.Errorf("cannot reshape %v into %v", r.shape, shape)
	}
	return &RawTensor{shape: shape.Clone(), dtype: r.dtype, f32: r.f32, f64: r.f64}, nil
}

// Span returns a flat 1-D view of elements [lo, hi) of r.
func (r *RawTensor) Span(lo, hi int) *RawTensor {
	if lo < 0 || hi < lo || hi > r.NumElements() {
		panic(fmt.Sprintf("tensor: span [%d, %d) out of range for %d elements", lo, hi, r.NumElements()))
	}
	out := &RawTensor{shape: Shape{hi - lo}, dtype: r.dtype}
	if r.dtype == Float32 {
		out.f32 = r.f32[lo:hi:hi]
	} else {
		out.f64 = r.f64[lo:hi:hi]
	}
	return out
}

// HasNonFinite reports whether any element is NaN or infinite.
func (r *RawTensor) HasNonFinite() bool {
	for i := range r.NumElements() {
		v := r.At(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// String returns a human-readable representation of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v", r.dtype, r.shape)
}

package tensor

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// Element-wise and linear-algebra kernels.
//
// Operands must agree in shape and dtype; a mismatch is a programming
// error and panics. Results are freshly allocated unless the function
// name says otherwise.

func mustMatch(op string, a, b *RawTensor) {
	if a.dtype != b.dtype {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.dtype, b.dtype))
	}
	if !a.shape.Equal(b.shape) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", op, a.shape, b.shape))
	}
}

// Add returns a + b.
func Add(a, b *RawTensor) *RawTensor {
	mustMatch("add", a, b)
	out := a.Clone()
	AddInPlace(out, b)
	return out
}

// AddInPlace computes dst += src.
func AddInPlace(dst, src *RawTensor) {
	Axpy(dst, 1, src)
}

// Axpy computes dst += alpha * src.
func Axpy(dst *RawTensor, alpha float64, src *RawTensor) {
	mustMatch("axpy", dst, src)
	if dst.dtype == Float32 {
		n := len(dst.f32)
		blas32.Axpy(float32(alpha),
			blas32.Vector{N: n, Data: src.f32, Inc: 1},
			blas32.Vector{N: n, Data: dst.f32, Inc: 1})
		return
	}
	floats.AddScaled(dst.f64, alpha, src.f64)
}

// Sub returns a - b.
func Sub(a, b *RawTensor) *RawTensor {
	mustMatch("sub", a, b)
	out := a.Clone()
	Axpy(out, -1, b)
	return out
}

// Mul returns the element-wise product a * b.
func Mul(a, b *RawTensor) *RawTensor {
	mustMatch("mul", a, b)
	out := a.Clone()
	if out.dtype == Float32 {
		for i, v := range b.f32 {
			out.f32[i] *= v
		}
		return out
	}
	floats.Mul(out.f64, b.f64)
	return out
}

// Scale returns s * a.
func Scale(a *RawTensor, s float64) *RawTensor {
	out := a.Clone()
	ScaleInPlace(out, s)
	return out
}

// ScaleInPlace computes a *= s.
func ScaleInPlace(a *RawTensor, s float64) {
	if a.dtype == Float32 {
		blas32.Scal(float32(s), blas32.Vector{N: len(a.f32), Data: a.f32, Inc: 1})
		return
	}
	floats.Scale(s, a.f64)
}

// Square returns a² element-wise.
func Square(a *RawTensor) *RawTensor {
	return Mul(a, a)
}

// Sqrt returns √a element-wise.
func Sqrt(a *RawTensor) *RawTensor {
	out := a.Clone()
	if out.dtype == Float32 {
		for i, v := range out.f32 {
			out.f32[i] = math32.Sqrt(v)
		}
		return out
	}
	for i, v := range out.f64 {
		out.f64[i] = math.Sqrt(v)
	}
	return out
}

// Clamp limits every element of a to [lo, hi].
func Clamp(a *RawTensor, lo, hi float64) *RawTensor {
	out := a.Clone()
	for i := range out.NumElements() {
		v := out.At(i)
		if v < lo {
			out.SetAt(i, lo)
		} else if v > hi {
			out.SetAt(i, hi)
		}
	}
	return out
}

// Sum returns the sum of all elements.
func Sum(a *RawTensor) float64 {
	if a.dtype == Float32 {
		var s float32
		for _, v := range a.f32 {
			s += v
		}
		return float64(s)
	}
	return floats.Sum(a.f64)
}

// Dot returns the inner product of a and b viewed as flat vectors.
func Dot(a, b *RawTensor) float64 {
	mustMatch("dot", a, b)
	if a.dtype == Float32 {
		n := len(a.f32)
		return float64(blas32.Dot(
			blas32.Vector{N: n, Data: a.f32, Inc: 1},
			blas32.Vector{N: n, Data: b.f32, Inc: 1}))
	}
	return floats.Dot(a.f64, b.f64)
}

// Norm returns the L2 norm of a viewed as a flat vector.
func Norm(a *RawTensor) float64 {
	if a.dtype == Float32 {
		return float64(blas32.Nrm2(blas32.Vector{N: len(a.f32), Data: a.f32, Inc: 1}))
	}
	return floats.Norm(a.f64, 2)
}

// Max returns the largest element.
func Max(a *RawTensor) float64 {
	if a.dtype == Float32 {
		m := a.f32[0]
		for _, v := range a.f32[1:] {
			m = math32.Max(m, v)
		}
		return float64(m)
	}
	return floats.Max(a.f64)
}

// Min returns the smallest element.
func Min(a *RawTensor) float64 {
	if a.dtype == Float32 {
		m := a.f32[0]
		for _, v := range a.f32[1:] {
			m = math32.Min(m, v)
		}
		return float64(m)
	}
	return floats.Min(a.f64)
}

// MatMul computes op(a) @ op(b) for 2-D tensors, where op transposes its
// argument when the corresponding flag is set.
func MatMul(a, b *RawTensor, transA, transB bool) *RawTensor {
	if a.dtype != b.dtype {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.dtype, b.dtype))
	}
	if len(a.shape) != 2 || len(b.shape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2-D operands, got %v and %v", a.shape, b.shape))
	}

	m, k := a.shape[0], a.shape[1]
	if transA {
		m, k = k, m
	}
	kb, n := b.shape[0], b.shape[1]
	if transB {
		kb, n = n, kb
	}
	if k != kb {
		panic(fmt.Sprintf("matmul: inner dimensions differ: %v x %v (transA=%v, transB=%v)", a.shape, b.shape, transA, transB))
	}

	out, err := NewRaw(Shape{m, n}, a.dtype)
	if err != nil {
		panic(err)
	}

	tA, tB := blas.NoTrans, blas.NoTrans
	if transA {
		tA = blas.Trans
	}
	if transB {
		tB = blas.Trans
	}

	if a.dtype == Float32 {
		blas32.Gemm(tA, tB, 1,
			blas32.General{Rows: a.shape[0], Cols: a.shape[1], Stride: a.shape[1], Data: a.f32},
			blas32.General{Rows: b.shape[0], Cols: b.shape[1], Stride: b.shape[1], Data: b.f32},
			0,
			blas32.General{Rows: m, Cols: n, Stride: n, Data: out.f32})
		return out
	}
	blas64.Gemm(tA, tB, 1,
		blas64.General{Rows: a.shape[0], Cols: a.shape[1], Stride: a.shape[1], Data: a.f64},
		blas64.General{Rows: b.shape[0], Cols: b.shape[1], Stride: b.shape[1], Data: b.f64},
		0,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: out.f64})
	return out
}

// AddRowVector returns a + v broadcast over the rows of 2-D a.
func AddRowVector(a, v *RawTensor) *RawTensor {
	if len(a.shape) != 2 || v.NumElements() != a.shape[1] || a.dtype != v.dtype {
		panic(fmt.Sprintf("add row vector: incompatible %v (%s) and %v (%s)", a.shape, a.dtype, v.shape, v.dtype))
	}
	out := a.Clone()
	cols := a.shape[1]
	for r := range a.shape[0] {
		for c := range cols {
			out.SetAt(r*cols+c, out.At(r*cols+c)+v.At(c))
		}
	}
	return out
}

// SumRows reduces 2-D a over its rows, returning a tensor of shape [cols].
func SumRows(a *RawTensor) *RawTensor {
	if len(a.shape) != 2 {
		panic(fmt.Sprintf("sum rows: expected 2-D tensor, got %v", a.shape))
	}
	cols := a.shape[1]
	out, err := NewRaw(Shape{cols}, a.dtype)
	if err != nil {
		panic(err)
	}
	for r := range a.shape[0] {
		for c := range cols {
			out.SetAt(c, out.At(c)+a.At(r*cols+c))
		}
	}
	return out
}

package autodiff

import (
	"github.com/born-ml/scopt/internal/autodiff/ops"
	"github.com/born-ml/scopt/internal/tensor"
)

// Forward operations. Each computes its result eagerly and, while the tape
// is recording, appends the matching backward operation.

// Add returns a + b.
func (t *GradientTape) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.Add(a, b)
	t.Record(ops.NewAddOp(a, b, out))
	return out
}

// Sub returns a - b.
func (t *GradientTape) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.Sub(a, b)
	t.Record(ops.NewSubOp(a, b, out))
	return out
}

// Mul returns the element-wise product a * b.
func (t *GradientTape) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.Mul(a, b)
	t.Record(ops.NewMulOp(a, b, out))
	return out
}

// Scale returns factor * x.
func (t *GradientTape) Scale(x *tensor.RawTensor, factor float64) *tensor.RawTensor {
	out := tensor.Scale(x, factor)
	t.Record(ops.NewScaleOp(x, factor, out))
	return out
}

// Square returns x² element-wise.
func (t *GradientTape) Square(x *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.Square(x)
	t.Record(ops.NewSquareOp(x, out))
	return out
}

// Sum reduces x to a scalar.
func (t *GradientTape) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.Scalar(tensor.Sum(x), x.DType())
	t.Record(ops.NewSumOp(x, out))
	return out
}

// Mean averages x into a scalar.
func (t *GradientTape) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.Scalar(tensor.Sum(x)/float64(x.NumElements()), x.DType())
	t.Record(ops.NewMeanOp(x, out))
	return out
}

// MatMul returns a @ b for 2-D tensors.
func (t *GradientTape) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.MatMul(a, b, false, false)
	t.Record(ops.NewMatMulOp(a, b, out))
	return out
}

// AddRow adds bias vector v to every row of 2-D x.
func (t *GradientTape) AddRow(x, v *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.AddRowVector(x, v)
	t.Record(ops.NewAddRowOp(x, v, out))
	return out
}

// GradientsFor returns one gradient per target, in order. Targets that did
// not participate in the loss receive a zero tensor of matching shape.
func GradientsFor(grads map[*tensor.RawTensor]*tensor.RawTensor, targets []*tensor.RawTensor) []*tensor.RawTensor {
	out := make([]*tensor.RawTensor, len(targets))
	for i, target := range targets {
		if g, ok := grads[target]; ok {
			out[i] = g
		} else {
			out[i] = tensor.ZerosLike(target)
		}
	}
	return out
}

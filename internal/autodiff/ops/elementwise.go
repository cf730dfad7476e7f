package ops

import "github.com/born-ml/scopt/internal/tensor"

// AddOp represents an element-wise addition operation: output = a + b.
type AddOp struct{ base }

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{base{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward passes the output gradient through unchanged to both inputs.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad, outputGrad}
}

// SubOp represents an element-wise subtraction operation: output = a - b.
type SubOp struct{ base }

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{base{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward returns [grad, -grad].
func (op *SubOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad, tensor.Scale(outputGrad, -1)}
}

// MulOp represents an element-wise multiplication operation: output = a * b.
type MulOp struct{ base }

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{base{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward returns [grad*b, grad*a].
func (op *MulOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{tensor.Mul(outputGrad, b), tensor.Mul(outputGrad, a)}
}

// ScaleOp represents multiplication by a constant: output = s * x.
type ScaleOp struct {
	base
	factor float64
}

// NewScaleOp creates a new ScaleOp.
func NewScaleOp(x *tensor.RawTensor, factor float64, output *tensor.RawTensor) *ScaleOp {
	return &ScaleOp{base: base{inputs: []*tensor.RawTensor{x}, output: output}, factor: factor}
}

// Backward returns [s*grad].
func (op *ScaleOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{tensor.Scale(outputGrad, op.factor)}
}

// SquareOp represents an element-wise square: output = x².
type SquareOp struct{ base }

// NewSquareOp creates a new SquareOp.
func NewSquareOp(x, output *tensor.RawTensor) *SquareOp {
	return &SquareOp{base{inputs: []*tensor.RawTensor{x}, output: output}}
}

// Backward returns [2*x*grad].
func (op *SquareOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	grad := tensor.Mul(outputGrad, op.inputs[0])
	tensor.ScaleInPlace(grad, 2)
	return []*tensor.RawTensor{grad}
}

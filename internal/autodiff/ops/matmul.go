package ops

import "github.com/born-ml/scopt/internal/tensor"

// MatMulOp represents matrix multiplication: output = a @ b.
//
// Backward pass:
//   - grad_a = grad @ b^T
//   - grad_b = a^T @ grad
type MatMulOp struct{ base }

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{base{inputs: []*tensor.RawTensor{a, b}, output: output}}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		tensor.MatMul(outputGrad, b, false, true),
		tensor.MatMul(a, outputGrad, true, false),
	}
}

// AddRowOp adds a bias vector to every row: output[i, j] = x[i, j] + v[j].
type AddRowOp struct{ base }

// NewAddRowOp creates a new AddRowOp.
func NewAddRowOp(x, v, output *tensor.RawTensor) *AddRowOp {
	return &AddRowOp{base{inputs: []*tensor.RawTensor{x, v}, output: output}}
}

// Backward returns [grad, column sums of grad reshaped like v].
func (op *AddRowOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	v := op.inputs[1]
	gradV, err := tensor.SumRows(outputGrad).Reshape(v.Shape())
	if err != nil {
		panic(err)
	}
	return []*tensor.RawTensor{outputGrad, gradV}
}

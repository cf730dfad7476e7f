package ops

import "github.com/born-ml/scopt/internal/tensor"

// SumOp reduces every element of x to a scalar.
type SumOp struct{ base }

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{base{inputs: []*tensor.RawTensor{x}, output: output}}
}

// Backward broadcasts the scalar gradient to x's shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{broadcastScalar(outputGrad, op.inputs[0])}
}

// MeanOp averages every element of x into a scalar.
type MeanOp struct{ base }

// NewMeanOp creates a new MeanOp.
func NewMeanOp(x, output *tensor.RawTensor) *MeanOp {
	return &MeanOp{base{inputs: []*tensor.RawTensor{x}, output: output}}
}

// Backward broadcasts grad/n to x's shape.
func (op *MeanOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	grad := broadcastScalar(outputGrad, op.inputs[0])
	tensor.ScaleInPlace(grad, 1/float64(op.inputs[0].NumElements()))
	return []*tensor.RawTensor{grad}
}

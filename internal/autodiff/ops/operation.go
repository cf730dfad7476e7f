// Package ops defines the differentiable operations recorded on a gradient tape.
//
// Supported operations:
//   - AddOp, SubOp, MulOp: element-wise arithmetic
//   - ScaleOp: multiplication by a constant
//   - SquareOp: element-wise square (d(x²)/dx = 2x)
//   - SumOp, MeanOp: full reductions to a scalar
//   - MatMulOp: matrix multiplication (d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad)
//   - AddRowOp: adds a bias vector to every row of a matrix
package ops

import "github.com/born-ml/scopt/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}

// base holds the bookkeeping shared by every operation.
type base struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// Inputs returns the input tensors.
func (b *base) Inputs() []*tensor.RawTensor {
	return b.inputs
}

// Output returns the output tensor.
func (b *base) Output() *tensor.RawTensor {
	return b.output
}

// broadcastScalar expands a single-element gradient to shape like.
func broadcastScalar(grad, like *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.ZerosLike(like)
	out.Fill(grad.Item())
	return out
}

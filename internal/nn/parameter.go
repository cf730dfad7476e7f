package nn

import (
	"github.com/born-ml/scopt/internal/tensor"
)

// Parameter represents a trainable tensor.
//
// The optimizer never allocates or replaces the underlying tensor; it
// writes new values into it in place. Parameter identity (the pointer) is
// what accumulators and constraints are keyed by.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad()
type Parameter struct {
	name   string            // Parameter name (e.g., "weight", "bias")
	tensor *tensor.RawTensor // The parameter tensor
	grad   *tensor.RawTensor // Gradient from the most recent backward pass
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}

// Shape returns the parameter's shape.
func (p *Parameter) Shape() tensor.Shape {
	return p.tensor.Shape()
}

// DType returns the parameter's element type.
func (p *Parameter) DType() tensor.DataType {
	return p.tensor.DType()
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been computed yet.
func (p *Parameter) Grad() *tensor.RawTensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter) SetGrad(grad *tensor.RawTensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}

// Tensors returns the raw tensors of params, in order.
func Tensors(params []*Parameter) []*tensor.RawTensor {
	out := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		out[i] = p.tensor
	}
	return out
}

package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias vector with shape [out_features]
//
// Weights are initialized using Xavier/Glorot uniform initialization.
// Biases are initialized to zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
}

// NewLinear creates a new Linear layer of the given element type.
func NewLinear(inFeatures, outFeatures int, dtype tensor.DataType, src rand.Source) (*Linear, error) {
	w, err := Xavier(inFeatures, outFeatures, tensor.Shape{inFeatures, outFeatures}, dtype, src)
	if err != nil {
		return nil, fmt.Errorf("linear weight: %w", err)
	}
	b, err := tensor.Zeros(tensor.Shape{outFeatures}, dtype)
	if err != nil {
		return nil, fmt.Errorf("linear bias: %w", err)
	}

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", w),
		bias:        NewParameter("bias", b),
	}, nil
}

// Forward computes x @ W + b.
func (l *Linear) Forward(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	return tape.AddRow(tape.MatMul(x, l.weight.Tensor()), l.bias.Tensor())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

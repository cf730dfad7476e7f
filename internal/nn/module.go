// Package nn implements trainable parameters, models and parameter
// constraints.
//
// This package provides:
//   - Parameter: trainable tensor with gradient slot
//   - Module: anything that owns parameters
//   - Linear: fully connected layer y = x @ W + b
//   - Constraint: projections applied to proposed parameter values
//   - Constraints: per-parameter constraint registry
package nn

import (
	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/tensor"
)

// Module is the base interface for all trainable components.
type Module interface {
	// Forward computes the output of the module, recording on tape.
	Forward(tape *autodiff.GradientTape, input *tensor.RawTensor) *tensor.RawTensor

	// Parameters returns all trainable parameters of this module.
	Parameters() []*Parameter
}

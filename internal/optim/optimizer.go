// Package optim implements adaptive gradient-descent optimizers.
//
// This package provides:
//   - Optimizer interface: common surface of every optimizer
//   - SCAdagrad: strongly convex Adagrad (logarithmic regret)
//   - SCRMSProp: strongly convex RMSProp (logarithmic regret)
//   - RMSPropVariant: RMSProp with time-decayed averaging weight gamma/t
//   - SGD and Adam: baselines sharing the same step scaffolding
//
// Every optimizer owns one step counter and one zero-initialized
// accumulator per parameter. The counter advances exactly once per Step,
// however many parameters are updated.
//
// Example usage:
//
//	optimizer, err := optim.NewSCAdagrad(model.Parameters(), optim.SCAdagradConfig{
//	    LR: 0.01,
//	})
//
//	for range steps {
//	    tape := autodiff.NewGradientTape()
//	    tape.StartRecording()
//	    loss := lossFn(tape, model)
//	    if err := optimizer.Minimize(tape, loss); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"errors"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/tensor"
)

// ErrInvalidConfig is wrapped by every hyperparameter validation error.
var ErrInvalidConfig = errors.New("invalid optimizer config")

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient in grads.
	//
	// The gradient map is keyed by parameter tensor, as returned by
	// GradientTape.Backward.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// Minimize computes gradients of loss from tape and applies Step.
	Minimize(tape *autodiff.GradientTape, loss *tensor.RawTensor) error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the configured (undecayed) learning rate.
	GetLR() float64

	// EffectiveLR returns the learning rate the next Step will apply.
	EffectiveLR() float64

	// Iterations returns the number of Step calls so far.
	Iterations() int

	// Accumulator returns the optimizer-owned state tensor for p, or nil if
	// p is not managed by this optimizer.
	Accumulator(p *nn.Parameter) *tensor.RawTensor

	// GetConfig returns every hyperparameter as a flat map of scalars.
	// FromConfig accepts the result.
	GetConfig() map[string]any

	// Name returns the registered optimizer name.
	Name() string
}

// Config is the base configuration shared by all optimizers.
type Config struct {
	// ClipNorm rescales all gradients together when their global L2 norm
	// exceeds it. Zero disables.
	ClipNorm float64 `mapstructure:"clipnorm"`

	// ClipValue clips every gradient element to [-ClipValue, ClipValue].
	// Zero disables.
	ClipValue float64 `mapstructure:"clipvalue"`

	// Constraints projects proposed parameter values. May be nil.
	Constraints *nn.Constraints `mapstructure:"-"`

	// Workers > 1 updates parameters concurrently.
	Workers int `mapstructure:"-"`
}

// ComputeGradients returns d(loss)/d(param) for each param, in order.
// Parameters that did not contribute to loss get zero gradients.
func ComputeGradients(tape *autodiff.GradientTape, loss *tensor.RawTensor, params []*nn.Parameter) ([]*tensor.RawTensor, error) {
	grads, err := tape.Backward(loss)
	if err != nil {
		return nil, err
	}
	return autodiff.GradientsFor(grads, nn.Tensors(params)), nil
}

// getGradient safely retrieves gradient for a parameter.
//
// Returns nil if no gradient is found (parameter wasn't part of computation graph).
func getGradient(param *nn.Parameter, grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor()]
}

package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/tensor"
)

// SCRMSPropName is the registered name of SCRMSProp.
const SCRMSPropName = "sc_rmsprop"

// SCRMSProp implements SC-RMSProp, the strongly convex variant of RMSProp.
//
// Update rule, with t the 1-indexed step number:
//
//	v_t = (1 - gamma/t) * v_{t-1} + (gamma/t) * gradient²
//	param = param - lr_t * gradient / (t*v_t + xi_2 * exp(-xi_1 * t * v_t))
//
// The averaging weight gamma/t shrinks over time, so t*v_t behaves like
// the running sum SC-Adagrad keeps. At t = 1 the weight on the zero
// initial accumulator is 1 - gamma and v_1 = gamma * gradient².
type SCRMSProp struct {
	base
	xi1   float64
	xi2   float64
	gamma float64
}

// SCRMSPropConfig holds configuration for SCRMSProp.
type SCRMSPropConfig struct {
	Config `mapstructure:",squash"`

	LR    float64 `mapstructure:"lr"`    // Learning rate (default: 0.01)
	Xi1   float64 `mapstructure:"xi_1"`  // Exponent scale, > 0 (default: 0.1)
	Xi2   float64 `mapstructure:"xi_2"`  // Denominator floor, > 0 (default: 0.1)
	Gamma float64 `mapstructure:"gamma"` // Averaging weight, in (0, 1] (default: 0.9)
	Decay float64 `mapstructure:"decay"` // Learning rate decay per step (default: 0)
}

// NewSCRMSProp creates a new SC-RMSProp optimizer.
func NewSCRMSProp(params []*nn.Parameter, config SCRMSPropConfig) (*SCRMSProp, error) {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Xi1 == 0 {
		config.Xi1 = 0.1
	}
	if config.Xi2 == 0 {
		config.Xi2 = 0.1
	}
	if config.Gamma == 0 {
		config.Gamma = 0.9
	}
	if config.Xi1 < 0 || config.Xi2 < 0 || math.IsNaN(config.Xi1) || math.IsNaN(config.Xi2) {
		return nil, fmt.Errorf("%w: %s xi_1 and xi_2 must be > 0 (0 selects the default), got %v and %v",
			ErrInvalidConfig, SCRMSPropName, config.Xi1, config.Xi2)
	}
	if err := validateGamma(SCRMSPropName, config.Gamma); err != nil {
		return nil, err
	}

	b, err := newBase(SCRMSPropName, params, config.Config, config.LR, config.Decay)
	if err != nil {
		return nil, err
	}
	return &SCRMSProp{base: b, xi1: config.Xi1, xi2: config.Xi2, gamma: config.Gamma}, nil
}

// Step performs a single SC-RMSProp update on every parameter with a gradient.
func (o *SCRMSProp) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	o.apply(grads, func(pNew, p, g, v *tensor.RawTensor, st stepState) {
		switch p.DType() {
		case tensor.Float32:
			scRMSPropKernel(pNew.AsFloat32(), p.AsFloat32(), g.AsFloat32(), v.AsFloat32(),
				float32(st.lr), float32(o.xi1), float32(o.xi2), float32(o.gamma), float32(st.t), exp32)
		default:
			scRMSPropKernel(pNew.AsFloat64(), p.AsFloat64(), g.AsFloat64(), v.AsFloat64(),
				st.lr, o.xi1, o.xi2, o.gamma, st.t, exp64)
		}
	})
}

// Minimize computes gradients of loss and applies Step.
func (o *SCRMSProp) Minimize(tape *autodiff.GradientTape, loss *tensor.RawTensor) error {
	return o.minimize(tape, loss, o.Step)
}

// GetConfig returns lr, xi_1, xi_2, gamma and decay plus the base keys.
func (o *SCRMSProp) GetConfig() map[string]any {
	cfg := o.config()
	cfg["lr"] = o.lr
	cfg["xi_1"] = o.xi1
	cfg["xi_2"] = o.xi2
	cfg["gamma"] = o.gamma
	cfg["decay"] = o.decay
	return cfg
}

// validateGamma keeps 1 - gamma/t non-negative for every t >= 1, which
// keeps the accumulator non-negative.
func validateGamma(name string, gamma float64) error {
	if gamma <= 0 || gamma > 1 || math.IsNaN(gamma) {
		return fmt.Errorf("%w: %s gamma must be in (0, 1], got %v", ErrInvalidConfig, name, gamma)
	}
	return nil
}

package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/tensor"
)

// SCAdagradName is the registered name of SCAdagrad.
const SCAdagradName = "sc_adagrad"

// SCAdagrad implements SC-Adagrad, the strongly convex variant of Adagrad.
//
// Update rule:
//
//	v_t = v_{t-1} + gradient²
//	param = param - lr_t * gradient / (v_t + xi_2 * exp(-xi_1 * v_t))
//
// where lr_t = lr / (1 + decay * (t-1)). The exponential term keeps the
// denominator strictly positive while v_t is still small; as v_t grows the
// step size falls off like 1/v_t instead of Adagrad's 1/sqrt(v_t), which
// gives logarithmic regret on strongly convex problems.
//
// Reference: "Variants of RMSProp and Adagrad with Logarithmic Regret
// Bounds" (Mukkamala & Hein, 2017)
type SCAdagrad struct {
	base
	xi1 float64
	xi2 float64
}

// SCAdagradConfig holds configuration for SCAdagrad.
type SCAdagradConfig struct {
	Config `mapstructure:",squash"`

	LR    float64 `mapstructure:"lr"`    // Learning rate (default: 0.01)
	Xi1   float64 `mapstructure:"xi_1"`  // Exponent scale, in (0, 1) (default: 0.1)
	Xi2   float64 `mapstructure:"xi_2"`  // Denominator floor, in (0, 1) (default: 0.1)
	Decay float64 `mapstructure:"decay"` // Learning rate decay per step (default: 0)
}

// NewSCAdagrad creates a new SC-Adagrad optimizer.
//
// Zero-valued fields take their defaults. Accumulators are allocated
// immediately, zero-filled, with each parameter's own shape and dtype.
func NewSCAdagrad(params []*nn.Parameter, config SCAdagradConfig) (*SCAdagrad, error) {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Xi1 == 0 {
		config.Xi1 = 0.1
	}
	if config.Xi2 == 0 {
		config.Xi2 = 0.1
	}
	if config.Xi1 <= 0 || config.Xi1 >= 1 || math.IsNaN(config.Xi1) {
		return nil, fmt.Errorf("%w: %s xi_1 must be in (0, 1), got %v", ErrInvalidConfig, SCAdagradName, config.Xi1)
	}
	if config.Xi2 <= 0 || config.Xi2 >= 1 || math.IsNaN(config.Xi2) {
		return nil, fmt.Errorf("%w: %s xi_2 must be in (0, 1), got %v", ErrInvalidConfig, SCAdagradName, config.Xi2)
	}

	b, err := newBase(SCAdagradName, params, config.Config, config.LR, config.Decay)
	if err != nil {
		return nil, err
	}
	return &SCAdagrad{base: b, xi1: config.Xi1, xi2: config.Xi2}, nil
}

// Step performs a single SC-Adagrad update on every parameter with a gradient.
func (o *SCAdagrad) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	o.apply(grads, func(pNew, p, g, v *tensor.RawTensor, st stepState) {
		switch p.DType() {
		case tensor.Float32:
			scAdagradKernel(pNew.AsFloat32(), p.AsFloat32(), g.AsFloat32(), v.AsFloat32(),
				float32(st.lr), float32(o.xi1), float32(o.xi2), exp32)
		default:
			scAdagradKernel(pNew.AsFloat64(), p.AsFloat64(), g.AsFloat64(), v.AsFloat64(),
				st.lr, o.xi1, o.xi2, exp64)
		}
	})
}

// Minimize computes gradients of loss and applies Step.
func (o *SCAdagrad) Minimize(tape *autodiff.GradientTape, loss *tensor.RawTensor) error {
	return o.minimize(tape, loss, o.Step)
}

// GetConfig returns lr, xi_1, xi_2 and decay plus the base keys.
func (o *SCAdagrad) GetConfig() map[string]any {
	cfg := o.config()
	cfg["lr"] = o.lr
	cfg["xi_1"] = o.xi1
	cfg["xi_2"] = o.xi2
	cfg["decay"] = o.decay
	return cfg
}

package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/tensor"
)

// RMSPropVariantName is the registered name of RMSPropVariant.
const RMSPropVariantName = "rmsprop_variant"

// RMSPropVariant implements RMSProp with a time-decayed averaging weight.
//
// Update rule, with t the 1-indexed step number:
//
//	v_t = (1 - gamma/t) * v_{t-1} + (gamma/t) * gradient²
//	param = param - lr_t * gradient / (sqrt(t * v_t) + delta)
//
// Delta is only a numerical floor. With delta = 0 a zero accumulator
// divides by zero; the result is whatever IEEE arithmetic produces.
type RMSPropVariant struct {
	base
	delta float64
	gamma float64
}

// RMSPropVariantConfig holds configuration for RMSPropVariant.
type RMSPropVariantConfig struct {
	Config `mapstructure:",squash"`

	LR    float64  `mapstructure:"lr"`    // Learning rate (default: 0.001)
	Delta *float64 `mapstructure:"delta"` // Denominator floor, >= 0 (default: 1e-8 when nil)
	Gamma float64  `mapstructure:"gamma"` // Averaging weight, in (0, 1] (default: 0.9)
	Decay float64  `mapstructure:"decay"` // Learning rate decay per step (default: 0)
}

// Float64 returns a pointer to v, for optional config fields.
func Float64(v float64) *float64 {
	return &v
}

// NewRMSPropVariant creates a new RMSProp-variant optimizer.
func NewRMSPropVariant(params []*nn.Parameter, config RMSPropVariantConfig) (*RMSPropVariant, error) {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Gamma == 0 {
		config.Gamma = 0.9
	}
	delta := 1e-8
	if config.Delta != nil {
		delta = *config.Delta
	}
	if delta < 0 || math.IsNaN(delta) {
		return nil, fmt.Errorf("%w: %s delta must be >= 0, got %v", ErrInvalidConfig, RMSPropVariantName, delta)
	}
	if err := validateGamma(RMSPropVariantName, config.Gamma); err != nil {
		return nil, err
	}

	b, err := newBase(RMSPropVariantName, params, config.Config, config.LR, config.Decay)
	if err != nil {
		return nil, err
	}
	return &RMSPropVariant{base: b, delta: delta, gamma: config.Gamma}, nil
}

// Step performs a single update on every parameter with a gradient.
func (o *RMSPropVariant) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	o.apply(grads, func(pNew, p, g, v *tensor.RawTensor, st stepState) {
		switch p.DType() {
		case tensor.Float32:
			rmspropVariantKernel(pNew.AsFloat32(), p.AsFloat32(), g.AsFloat32(), v.AsFloat32(),
				float32(st.lr), float32(o.delta), float32(o.gamma), float32(st.t), sqrt32)
		default:
			rmspropVariantKernel(pNew.AsFloat64(), p.AsFloat64(), g.AsFloat64(), v.AsFloat64(),
				st.lr, o.delta, o.gamma, st.t, sqrt64)
		}
	})
}

// Minimize computes gradients of loss and applies Step.
func (o *RMSPropVariant) Minimize(tape *autodiff.GradientTape, loss *tensor.RawTensor) error {
	return o.minimize(tape, loss, o.Step)
}

// GetConfig returns lr, delta, gamma and decay plus the base keys.
func (o *RMSPropVariant) GetConfig() map[string]any {
	cfg := o.config()
	cfg["lr"] = o.lr
	cfg["delta"] = o.delta
	cfg["gamma"] = o.gamma
	cfg["decay"] = o.decay
	return cfg
}

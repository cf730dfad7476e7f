package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/tensor"
)

// SGDName is the registered name of SGD.
const SGDName = "sgd"

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr_t * velocity
//
// With momentum 0 this is plain gradient descent. The velocity is the
// optimizer's accumulator.
type SGD struct {
	base
	momentum float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	Config `mapstructure:",squash"`

	LR       float64 `mapstructure:"lr"`       // Learning rate (default: 0.01)
	Momentum float64 `mapstructure:"momentum"` // Momentum factor, in [0, 1) (default: 0)
	Decay    float64 `mapstructure:"decay"`    // Learning rate decay per step (default: 0)
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*nn.Parameter, config SGDConfig) (*SGD, error) {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum < 0 || config.Momentum >= 1 || math.IsNaN(config.Momentum) {
		return nil, fmt.Errorf("%w: %s momentum must be in [0, 1), got %v", ErrInvalidConfig, SGDName, config.Momentum)
	}

	b, err := newBase(SGDName, params, config.Config, config.LR, config.Decay)
	if err != nil {
		return nil, err
	}
	return &SGD{base: b, momentum: config.Momentum}, nil
}

// Step performs a single optimization step.
func (s *SGD) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	s.apply(grads, func(pNew, p, g, v *tensor.RawTensor, st stepState) {
		switch p.DType() {
		case tensor.Float32:
			sgdKernel(pNew.AsFloat32(), p.AsFloat32(), g.AsFloat32(), v.AsFloat32(),
				float32(st.lr), float32(s.momentum))
		default:
			sgdKernel(pNew.AsFloat64(), p.AsFloat64(), g.AsFloat64(), v.AsFloat64(),
				st.lr, s.momentum)
		}
	})
}

// Minimize computes gradients of loss and applies Step.
func (s *SGD) Minimize(tape *autodiff.GradientTape, loss *tensor.RawTensor) error {
	return s.minimize(tape, loss, s.Step)
}

// GetConfig returns lr, momentum and decay plus the base keys.
func (s *SGD) GetConfig() map[string]any {
	cfg := s.config()
	cfg["lr"] = s.lr
	cfg["momentum"] = s.momentum
	cfg["decay"] = s.decay
	return cfg
}

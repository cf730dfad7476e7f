package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/tensor"
)

// AdamName is the registered name of Adam.
const AdamName = "adam"

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr_t * m_hat / (sqrt(v_hat) + eps)
//
// The second moment is the optimizer's accumulator; the first moment is
// kept alongside it.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	base
	beta1 float64
	beta2 float64
	eps   float64
	m     map[*nn.Parameter]*tensor.RawTensor // First moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	Config `mapstructure:",squash"`

	LR    float64 `mapstructure:"lr"`      // Learning rate (default: 0.001)
	Beta1 float64 `mapstructure:"beta_1"`  // First moment decay (default: 0.9)
	Beta2 float64 `mapstructure:"beta_2"`  // Second moment decay (default: 0.999)
	Eps   float64 `mapstructure:"epsilon"` // Term for numerical stability (default: 1e-8)
	Decay float64 `mapstructure:"decay"`   // Learning rate decay per step (default: 0)
}

// NewAdam creates a new Adam optimizer.
func NewAdam(params []*nn.Parameter, config AdamConfig) (*Adam, error) {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	if !inUnitInterval(config.Beta1) || !inUnitInterval(config.Beta2) {
		return nil, fmt.Errorf("%w: %s betas must be in [0, 1), got %v and %v",
			ErrInvalidConfig, AdamName, config.Beta1, config.Beta2)
	}

	b, err := newBase(AdamName, params, config.Config, config.LR, config.Decay)
	if err != nil {
		return nil, err
	}

	m := make(map[*nn.Parameter]*tensor.RawTensor, len(params))
	for _, p := range params {
		m[p] = tensor.ZerosLike(p.Tensor())
	}

	return &Adam{base: b, beta1: config.Beta1, beta2: config.Beta2, eps: config.Eps, m: m}, nil
}

// Step performs a single optimization step using Adam algorithm.
func (a *Adam) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	// The kernel sees the post-increment step number, so bias correction
	// uses t = 1 on the first step.
	a.apply(grads, func(pNew, p, g, v *tensor.RawTensor, st stepState) {
		bc1 := 1 - math.Pow(a.beta1, st.t)
		bc2 := 1 - math.Pow(a.beta2, st.t)
		m := a.m[st.param].Span(st.lo, st.hi)

		switch p.DType() {
		case tensor.Float32:
			adamKernel(pNew.AsFloat32(), p.AsFloat32(), g.AsFloat32(), m.AsFloat32(), v.AsFloat32(),
				float32(st.lr), float32(a.beta1), float32(a.beta2), float32(a.eps), float32(bc1), float32(bc2), sqrt32)
		default:
			adamKernel(pNew.AsFloat64(), p.AsFloat64(), g.AsFloat64(), m.AsFloat64(), v.AsFloat64(),
				st.lr, a.beta1, a.beta2, a.eps, bc1, bc2, sqrt64)
		}
	})
}

// Minimize computes gradients of loss and applies Step.
func (a *Adam) Minimize(tape *autodiff.GradientTape, loss *tensor.RawTensor) error {
	return a.minimize(tape, loss, a.Step)
}

// GetConfig returns lr, beta_1, beta_2, epsilon and decay plus the base keys.
func (a *Adam) GetConfig() map[string]any {
	cfg := a.config()
	cfg["lr"] = a.lr
	cfg["beta_1"] = a.beta1
	cfg["beta_2"] = a.beta2
	cfg["epsilon"] = a.eps
	cfg["decay"] = a.decay
	return cfg
}

// inUnitInterval reports whether x lies in [0, 1); NaN does not.
func inUnitInterval(x float64) bool {
	return x >= 0 && x < 1
}

package optim

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/parallel"
	"github.com/born-ml/scopt/internal/tensor"
)

// base carries the state every optimizer shares: the parameter list, one
// accumulator per parameter, the step counter and the learning-rate decay.
// Optimizers embed it and supply a per-parameter kernel.
type base struct {
	name        string
	params      []*nn.Parameter
	constraints *nn.Constraints
	workers     int
	elements    parallel.Config

	lr           float64
	decay        float64
	initialDecay float64 // decay as constructed; a zero here disables decay for good
	clipNorm     float64
	clipValue    float64

	iterations   int
	accumulators map[*nn.Parameter]*tensor.RawTensor
}

// stepState is what every parameter update within one Step observes.
type stepState struct {
	lr float64 // effective (decayed) learning rate
	t  float64 // 1-indexed step number

	// param owns the tensors a kernel receives; they are flat views of
	// its elements [lo, hi).
	param  *nn.Parameter
	lo, hi int
}

// kernel computes one parameter update. It reads p, g and the accumulator
// v, writes the new accumulator into v and the proposed parameter value
// into pNew. It must not touch p.
type kernel func(pNew, p, g, v *tensor.RawTensor, st stepState)

func newBase(name string, params []*nn.Parameter, cfg Config, lr, decay float64) (base, error) {
	if lr <= 0 || math.IsNaN(lr) {
		return base{}, fmt.Errorf("%w: %s lr must be > 0, got %v", ErrInvalidConfig, name, lr)
	}
	if decay < 0 || math.IsNaN(decay) {
		return base{}, fmt.Errorf("%w: %s decay must be >= 0, got %v", ErrInvalidConfig, name, decay)
	}
	if cfg.ClipNorm < 0 || cfg.ClipValue < 0 || math.IsNaN(cfg.ClipNorm) || math.IsNaN(cfg.ClipValue) {
		return base{}, fmt.Errorf("%w: %s clipnorm and clipvalue must be >= 0", ErrInvalidConfig, name)
	}

	accumulators := make(map[*nn.Parameter]*tensor.RawTensor, len(params))
	for _, p := range params {
		if p == nil {
			return base{}, fmt.Errorf("%w: %s got a nil parameter", ErrInvalidConfig, name)
		}
		accumulators[p] = tensor.ZerosLike(p.Tensor())
	}

	return base{
		name:         name,
		params:       params,
		constraints:  cfg.Constraints,
		workers:      cfg.Workers,
		elements:     parallel.WithWorkers(cfg.Workers),
		lr:           lr,
		decay:        decay,
		initialDecay: decay,
		clipNorm:     cfg.ClipNorm,
		clipValue:    cfg.ClipValue,
		accumulators: accumulators,
	}, nil
}

// Name returns the registered optimizer name.
func (b *base) Name() string {
	return b.name
}

// GetLR returns the configured learning rate.
func (b *base) GetLR() float64 {
	return b.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (b *base) SetLR(lr float64) {
	b.lr = lr
}

// Decay returns the current decay factor.
func (b *base) Decay() float64 {
	return b.decay
}

// SetDecay changes the decay factor used by subsequent steps.
//
// Has no effect on an optimizer constructed with zero decay.
func (b *base) SetDecay(decay float64) {
	b.decay = decay
}

// EffectiveLR returns lr / (1 + decay * iterations), or lr when the
// optimizer was constructed without decay.
func (b *base) EffectiveLR() float64 {
	if b.initialDecay > 0 {
		return b.lr / (1 + b.decay*float64(b.iterations))
	}
	return b.lr
}

// Iterations returns the number of completed steps.
func (b *base) Iterations() int {
	return b.iterations
}

// Accumulator returns the state tensor owned for p.
func (b *base) Accumulator(p *nn.Parameter) *tensor.RawTensor {
	return b.accumulators[p]
}

// ZeroGrad clears gradients for all parameters.
func (b *base) ZeroGrad() {
	for _, param := range b.params {
		param.ZeroGrad()
	}
}

// config returns the keys every optimizer serializes.
func (b *base) config() map[string]any {
	return map[string]any{
		"name":      b.name,
		"clipnorm":  b.clipNorm,
		"clipvalue": b.clipValue,
	}
}

// minimize runs backward on tape, stores each parameter's gradient and
// hands the gradient map to step.
func (b *base) minimize(tape *autodiff.GradientTape, loss *tensor.RawTensor, step func(map[*tensor.RawTensor]*tensor.RawTensor)) error {
	grads, err := tape.Backward(loss)
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	for _, p := range b.params {
		if g := getGradient(p, grads); g != nil {
			p.SetGrad(g)
		}
	}
	step(grads)
	return nil
}

// paramGrad pairs a parameter with the (clipped) gradient it is updated by.
type paramGrad struct {
	param *nn.Parameter
	grad  *tensor.RawTensor
}

// apply runs one optimizer step: it derives the effective learning rate
// from the pre-increment counter, advances the counter once, then applies
// k to every parameter with a gradient and writes the projected result.
func (b *base) apply(grads map[*tensor.RawTensor]*tensor.RawTensor, k kernel) {
	st := stepState{lr: b.EffectiveLR()}
	b.iterations++
	st.t = float64(b.iterations)

	pending := make([]paramGrad, 0, len(b.params))
	for _, param := range b.params {
		grad := getGradient(param, grads)
		if grad == nil {
			// Parameter didn't participate in forward pass, skip
			continue
		}
		pending = append(pending, paramGrad{param: param, grad: grad})
	}
	b.clip(pending)

	var err error
	if b.workers > 1 && len(pending) > 1 {
		var g errgroup.Group
		g.SetLimit(b.workers)
		for _, pg := range pending {
			g.Go(func() error {
				return b.update(pg, k, st)
			})
		}
		err = g.Wait()
	} else {
		for _, pg := range pending {
			if err = b.update(pg, k, st); err != nil {
				break
			}
		}
	}
	if err != nil {
		panic(fmt.Sprintf("%s: %v", b.name, err))
	}
}

// update applies k to one parameter, split into element ranges for large
// tensors. Only pg.param's tensor and accumulator are written, so distinct
// parameters may run concurrently.
func (b *base) update(pg paramGrad, k kernel, st stepState) error {
	p := pg.param.Tensor()
	if !pg.grad.Shape().Equal(p.Shape()) || pg.grad.DType() != p.DType() {
		return fmt.Errorf("gradient %s%v does not match parameter %q %s%v",
			pg.grad.DType(), pg.grad.Shape(), pg.param.Name(), p.DType(), p.Shape())
	}

	pNew := tensor.ZerosLike(p)
	v := b.accumulators[pg.param]
	st.param = pg.param
	parallel.Range(p.NumElements(), b.elements, func(lo, hi int) {
		chunk := st
		chunk.lo, chunk.hi = lo, hi
		k(pNew.Span(lo, hi), p.Span(lo, hi), pg.grad.Span(lo, hi), v.Span(lo, hi), chunk)
	})

	if err := p.CopyFrom(b.constraints.Apply(pg.param, pNew)); err != nil {
		return fmt.Errorf("constraint for %q: %w", pg.param.Name(), err)
	}
	return nil
}

// clip applies clipnorm (over the global gradient norm) and then clipvalue.
// Caller-owned gradient tensors are never modified.
func (b *base) clip(pending []paramGrad) {
	if b.clipNorm > 0 {
		var sq float64
		for _, pg := range pending {
			n := tensor.Norm(pg.grad)
			sq += n * n
		}
		if norm := math.Sqrt(sq); norm > b.clipNorm {
			for i := range pending {
				pending[i].grad = tensor.Scale(pending[i].grad, b.clipNorm/norm)
			}
		}
	}
	if b.clipValue > 0 {
		for i := range pending {
			pending[i].grad = tensor.Clamp(pending[i].grad, -b.clipValue, b.clipValue)
		}
	}
}

// Package dataset generates synthetic strongly convex problems.
//
// Ridge regression (least squares plus an L2 penalty on the weights) is
// strongly convex for any lambda > 0, which is the setting the SC
// optimizers target.
package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/tensor"
)

// ErrInvalidRidge is wrapped by RidgeConfig validation errors.
var ErrInvalidRidge = errors.New("invalid ridge problem")

// RidgeConfig describes a synthetic ridge regression problem.
type RidgeConfig struct {
	Samples  int             // rows of X
	Features int             // columns of X
	Noise    float64         // std of Gaussian label noise
	Lambda   float64         // L2 penalty on the weights, > 0
	Seed     uint64          // PCG seed; equal seeds give equal problems
	DType    tensor.DataType // element type of X, y and the model
}

// Ridge holds a generated design matrix and targets.
//
//	y = X @ w* + b* + noise
type Ridge struct {
	X      *tensor.RawTensor // [Samples, Features]
	Y      *tensor.RawTensor // [Samples, 1]
	TrueW  *tensor.RawTensor // [Features, 1]
	TrueB  float64
	Lambda float64
}

// NewRidge samples a ridge problem from cfg.
func NewRidge(cfg RidgeConfig) (*Ridge, error) {
	if cfg.Samples <= 0 || cfg.Features <= 0 {
		return nil, fmt.Errorf("%w: samples and features must be > 0, got %d and %d",
			ErrInvalidRidge, cfg.Samples, cfg.Features)
	}
	if cfg.Lambda <= 0 {
		return nil, fmt.Errorf("%w: lambda must be > 0 for strong convexity, got %v", ErrInvalidRidge, cfg.Lambda)
	}
	if cfg.Noise < 0 {
		return nil, fmt.Errorf("%w: noise must be >= 0, got %v", ErrInvalidRidge, cfg.Noise)
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)

	x, err := tensor.RandNormal(tensor.Shape{cfg.Samples, cfg.Features}, cfg.DType, 0, 1, src)
	if err != nil {
		return nil, fmt.Errorf("design matrix: %w", err)
	}
	w, err := tensor.RandNormal(tensor.Shape{cfg.Features, 1}, cfg.DType, 0, 1, src)
	if err != nil {
		return nil, fmt.Errorf("true weights: %w", err)
	}
	b := distuv.Normal{Mu: 0, Sigma: 1, Src: src}.Rand()

	y := tensor.AddRowVector(tensor.MatMul(x, w, false, false), tensor.Scalar(b, cfg.DType))
	if cfg.Noise > 0 {
		noise := distuv.Normal{Mu: 0, Sigma: cfg.Noise, Src: src}
		for i := range y.NumElements() {
			y.SetAt(i, y.At(i)+noise.Rand())
		}
	}

	return &Ridge{X: x, Y: y, TrueW: w, TrueB: b, Lambda: cfg.Lambda}, nil
}

// Model returns a single-output Linear layer sized for r, initialized from seed.
func (r *Ridge) Model(seed uint64) (*nn.Linear, error) {
	return nn.NewLinear(r.X.Shape()[1], 1, r.X.DType(), rand.NewPCG(seed, seed+1))
}

// Loss records mean((X @ W + b - y)²) + lambda * sum(W²) on tape.
func (r *Ridge) Loss(tape *autodiff.GradientTape, model *nn.Linear) *tensor.RawTensor {
	mse := nn.NewMSELoss().Forward(tape, model.Forward(tape, r.X), r.Y)
	penalty := tape.Scale(tape.Sum(tape.Square(model.Weight().Tensor())), r.Lambda)
	return tape.Add(mse, penalty)
}

// Evaluate returns the loss of model without recording gradients.
func (r *Ridge) Evaluate(model *nn.Linear) float64 {
	return r.Loss(autodiff.NewGradientTape(), model).Item()
}

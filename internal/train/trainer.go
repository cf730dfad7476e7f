// Package train drives an optimizer over a loss: record, differentiate,
// step, repeat.
package train

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/metrics"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/optim"
	"github.com/born-ml/scopt/internal/tensor"
)

// LossFunc records a forward pass on tape and returns the scalar loss.
type LossFunc func(tape *autodiff.GradientTape) *tensor.RawTensor

// Trainer runs the step loop for one optimizer.
type Trainer struct {
	Optimizer optim.Optimizer
	// Parameters are the tensors the optimizer updates, used for
	// accumulator metrics and divergence checks.
	Parameters []*nn.Parameter
	Loss       LossFunc
	// Log progress every LogEvery steps. Zero logs only the final step.
	LogEvery int
	// Optional logger.
	// If not provided, the default logrus logger is used.
	Logger *logrus.Entry
	// Optional metrics.
	Metrics *metrics.Metrics
}

// Result summarizes a run.
type Result struct {
	Steps     int
	FinalLoss float64
	Losses    []float64 // loss observed before each step
	Duration  time.Duration
}

// Run performs up to steps optimizer steps. Cancelling ctx stops the loop
// between steps; the partial Result is returned with ctx's error.
func (tr *Trainer) Run(ctx context.Context, steps int) (Result, error) {
	if steps < 0 {
		return Result{}, fmt.Errorf("steps must be >= 0, got %d", steps)
	}

	var log *logrus.Entry
	if tr.Logger != nil {
		log = tr.Logger.WithField("optimizer", tr.Optimizer.Name())
	} else {
		log = logrus.StandardLogger().WithField("optimizer", tr.Optimizer.Name())
	}

	res := Result{Losses: make([]float64, 0, steps)}
	start := time.Now()

	log.WithField("steps", steps).Info("training started")
	diverged := false

	for step := 1; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			log.WithField("step", step-1).Warn("training cancelled")
			res.Duration = time.Since(start)
			return res, err
		}

		stepStart := time.Now()
		lrEff := tr.Optimizer.EffectiveLR()

		tape := autodiff.NewGradientTape()
		tape.StartRecording()
		loss := tr.Loss(tape)
		lossValue := loss.Item()

		if err := tr.Optimizer.Minimize(tape, loss); err != nil {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("step %d: %w", step, err)
		}

		res.Steps = step
		res.FinalLoss = lossValue
		res.Losses = append(res.Losses, lossValue)

		if tr.Metrics != nil {
			tr.Metrics.RecordStep(tr.Optimizer.Name(), lossValue, tr.Optimizer.EffectiveLR(), time.Since(stepStart))
			for _, p := range tr.Parameters {
				if acc := tr.Optimizer.Accumulator(p); acc != nil {
					tr.Metrics.RecordAccumulator(tr.Optimizer.Name(), p.Name(), tensor.Max(acc))
				}
			}
		}

		if !diverged && (math.IsNaN(lossValue) || math.IsInf(lossValue, 0) || tr.nonFinite()) {
			diverged = true
			log.WithField("step", step).Warn("non-finite loss or parameters")
		}

		if (tr.LogEvery > 0 && step%tr.LogEvery == 0) || step == steps {
			log.WithFields(logrus.Fields{
				"step":   step,
				"loss":   lossValue,
				"lr_eff": lrEff,
			}).Info("step")
		}
	}

	res.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"steps":      res.Steps,
		"final_loss": res.FinalLoss,
		"duration":   res.Duration,
	}).Info("training finished")
	return res, nil
}

func (tr *Trainer) nonFinite() bool {
	for _, p := range tr.Parameters {
		if p.Tensor().HasNonFinite() {
			return true
		}
	}
	return false
}

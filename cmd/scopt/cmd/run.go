package cmd

import (
	"github.com/pkg/errors"

	"github.com/born-ml/scopt/internal/config"
	"github.com/born-ml/scopt/internal/dataset"
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/optim"
)

// run is one configured problem: data, model and optimizer.
type run struct {
	data      *dataset.Ridge
	model     *nn.Linear
	optimizer optim.Optimizer
}

func newRun(cfg *config.Config) (*run, error) {
	data, err := dataset.NewRidge(cfg.Data.Ridge())
	if err != nil {
		return nil, errors.Wrap(err, "building dataset")
	}
	model, err := data.Model(cfg.Train.ModelSeed)
	if err != nil {
		return nil, errors.Wrap(err, "building model")
	}

	constraint, err := cfg.Optimizer.WeightConstraint()
	if err != nil {
		return nil, err
	}
	constraints := nn.NewConstraints()
	constraints.Set(model.Weight(), constraint)

	opt, err := optim.FromConfig(cfg.Optimizer.Hyperparameters(), model.Parameters(), optim.Config{
		Constraints: constraints,
		Workers:     cfg.Optimizer.WorkerCount(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "building optimizer")
	}

	return &run{data: data, model: model, optimizer: opt}, nil
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// ErrInvalidConfig is wrapped by every hyperparameter validation error.
var ErrInvalidConfig = optim.ErrInvalidConfig

// Registered optimizer names, as returned by Optimizer.Name.
const (
	SCAdagradName      = optim.SCAdagradName
	SCRMSPropName      = optim.SCRMSPropName
	RMSPropVariantName = optim.RMSPropVariantName
	SGDName            = optim.SGDName
	AdamName           = optim.AdamName
)

// SC-Adagrad

// SCAdagrad is Adagrad for strongly convex functions.
type SCAdagrad = optim.SCAdagrad

// SCAdagradConfig contains configuration for SCAdagrad.
type SCAdagradConfig = optim.SCAdagradConfig

// NewSCAdagrad creates a new SC-Adagrad optimizer.
//
// Example:
//
//	optimizer, err := optim.NewSCAdagrad(
//	    model.Parameters(),
//	    optim.SCAdagradConfig{LR: 0.01, Xi1: 0.1, Xi2: 0.1},
//	)
func NewSCAdagrad(params []*nn.Parameter, config SCAdagradConfig) (*SCAdagrad, error) {
	return optim.NewSCAdagrad(params, config)
}

// SC-RMSProp

// SCRMSProp is RMSProp for strongly convex functions.
type SCRMSProp = optim.SCRMSProp

// SCRMSPropConfig contains configuration for SCRMSProp.
type SCRMSPropConfig = optim.SCRMSPropConfig

// NewSCRMSProp creates a new SC-RMSProp optimizer.
func NewSCRMSProp(params []*nn.Parameter, config SCRMSPropConfig) (*SCRMSProp, error) {
	return optim.NewSCRMSProp(params, config)
}

// RMSProp variant

// RMSPropVariant is RMSProp with averaging weight gamma/t.
type RMSPropVariant = optim.RMSPropVariant

// RMSPropVariantConfig contains configuration for RMSPropVariant.
type RMSPropVariantConfig = optim.RMSPropVariantConfig

// NewRMSPropVariant creates a new RMSProp-variant optimizer.
//
// Leave Delta nil for the default floor; use Float64(0) to disable it.
func NewRMSPropVariant(params []*nn.Parameter, config RMSPropVariantConfig) (*RMSPropVariant, error) {
	return optim.NewRMSPropVariant(params, config)
}

// Float64 returns a pointer to v, for optional config fields.
func Float64(v float64) *float64 {
	return optim.Float64(v)
}

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*nn.Parameter, config SGDConfig) (*SGD, error) {
	return optim.NewSGD(params, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
func NewAdam(params []*nn.Parameter, config AdamConfig) (*Adam, error) {
	return optim.NewAdam(params, config)
}

// Serialization

// FromConfig rebuilds an optimizer from the map returned by GetConfig.
// Constraints and Workers come from runtime.
func FromConfig(cfg map[string]any, params []*nn.Parameter, runtime Config) (Optimizer, error) {
	return optim.FromConfig(cfg, params, runtime)
}

// Names lists every optimizer FromConfig can build.
func Names() []string {
	return optim.Names()
}

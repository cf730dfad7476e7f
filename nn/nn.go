// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides trainable parameters, a linear model and the
// constraint hooks optimizers project parameters through.
package nn

import (
	"math/rand/v2"

	"github.com/born-ml/scopt/internal/nn"
	"github.com/born-ml/scopt/internal/tensor"
)

// Module is the interface implemented by models.
type Module = nn.Module

// Parameter is a named trainable tensor with an optional gradient.
type Parameter = nn.Parameter

// NewParameter creates a parameter wrapping t.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return nn.NewParameter(name, t)
}

// Linear is a fully connected layer: y = x @ W + b.
type Linear = nn.Linear

// NewLinear creates a Linear layer with Xavier-uniform weights and zero bias.
func NewLinear(inFeatures, outFeatures int, dtype tensor.DataType, src rand.Source) (*Linear, error) {
	return nn.NewLinear(inFeatures, outFeatures, dtype, src)
}

// Constraints

// Constraint projects a proposed parameter value.
type Constraint = nn.Constraint

// ConstraintFunc adapts a function to Constraint.
type ConstraintFunc = nn.ConstraintFunc

// Constraints maps parameters to their constraint.
type Constraints = nn.Constraints

// NewConstraints creates an empty registry.
func NewConstraints() *Constraints {
	return nn.NewConstraints()
}

// Built-in constraints.
type (
	NonNeg     = nn.NonNeg
	Clip       = nn.Clip
	MaxNorm    = nn.MaxNorm
	UnitNorm   = nn.UnitNorm
	MinMaxNorm = nn.MinMaxNorm
)

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff records forward operations on a tape and computes
// gradients in reverse.
package autodiff

import "github.com/born-ml/scopt/internal/autodiff"

// GradientTape records operations for reverse-mode differentiation.
type GradientTape = autodiff.GradientTape

// ErrNoOperations is returned by Backward on an empty tape.
var ErrNoOperations = autodiff.ErrNoOperations

// NewGradientTape creates a tape that is not yet recording.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

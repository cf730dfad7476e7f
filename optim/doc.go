// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides adaptive optimizers with logarithmic regret on
// strongly convex problems.
//
// # Overview
//
// This package contains:
//   - SCAdagrad: strongly convex Adagrad
//   - SCRMSProp: strongly convex RMSProp
//   - RMSPropVariant: RMSProp with a time-decayed averaging weight
//   - SGD and Adam baselines sharing the same step protocol
//   - FromConfig to rebuild any of them from GetConfig output
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/scopt/autodiff"
//	    "github.com/born-ml/scopt/nn"
//	    "github.com/born-ml/scopt/optim"
//	    "github.com/born-ml/scopt/tensor"
//	)
//
//	func main() {
//	    model, _ := nn.NewLinear(8, 1, tensor.Float64, rand.NewPCG(1, 2))
//
//	    optimizer, err := optim.NewSCAdagrad(model.Parameters(), optim.SCAdagradConfig{
//	        LR:  0.1,
//	        Xi1: 0.1,
//	        Xi2: 0.1,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for range 100 {
//	        tape := autodiff.NewGradientTape()
//	        tape.StartRecording()
//	        loss := lossFn(tape, model)
//	        if err := optimizer.Minimize(tape, loss); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//	}
//
// # Step protocol
//
// Every Step first computes the effective learning rate
// lr / (1 + decay * iterations), then increments the iteration counter
// once, then updates each parameter that has a gradient. Accumulators
// start at zero and are never negative.
//
// # Constraints
//
// A Constraints registry in Config projects each proposed parameter value
// before it is written. Parameters without a registered constraint receive
// the proposed value unchanged.
package optim

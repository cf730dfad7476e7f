// Package autodiff implements reverse-mode automatic differentiation over
// a gradient tape. It is the gradient provider optimizers consume.
package autodiff

import (
	"errors"
	"fmt"

	"github.com/born-ml/scopt/internal/autodiff/ops"
	"github.com/born-ml/scopt/internal/tensor"
)

// ErrNoOperations is returned by Backward when nothing was recorded.
var ErrNoOperations = errors.New("backward: no operations recorded (did you forget to call StartRecording()?)")

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// Usage:
//
//	tape := autodiff.NewGradientTape()
//	tape.StartRecording()
//	loss := tape.Mean(tape.Square(tape.Sub(pred, target)))
//	grads, err := tape.Backward(loss)
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool            // Whether tape is currently recording
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 16),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward computes gradients of a scalar loss with respect to every tensor
// that contributed to it, by walking the tape in reverse.
//
// Gradients are accumulated when the same tensor is used multiple times.
// Returns a map from RawTensor to its accumulated gradient.
func (t *GradientTape) Backward(loss *tensor.RawTensor) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if len(t.operations) == 0 {
		return nil, ErrNoOperations
	}
	if loss.NumElements() != 1 {
		return nil, fmt.Errorf("backward: loss must be a scalar, got shape %v", loss.Shape())
	}

	// Stop recording during backward pass to prevent recording gradient operations
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	seed := tensor.ZerosLike(loss)
	seed.Fill(1)
	grads := map[*tensor.RawTensor]*tensor.RawTensor{loss: seed}

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}
		inputGrads := op.Backward(outGrad)
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = tensor.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads, nil
}

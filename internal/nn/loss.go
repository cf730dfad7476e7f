package nn

import (
	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/tensor"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// Example:
//
//	mse := nn.NewMSELoss()
//	predictions := model.Forward(tape, input)
//	loss := mse.Forward(tape, predictions, targets)
type MSELoss struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward records the MSE loss on tape and returns the scalar result.
// Predictions and targets must have the same shape.
func (m *MSELoss) Forward(tape *autodiff.GradientTape, predictions, targets *tensor.RawTensor) *tensor.RawTensor {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}
	return tape.Mean(tape.Square(tape.Sub(predictions, targets)))
}

// Parameters returns an empty slice (loss functions have no trainable parameters).
func (m *MSELoss) Parameters() []*Parameter {
	return nil
}

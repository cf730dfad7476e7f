package nn

import (
	"math"

	"github.com/born-ml/scopt/internal/tensor"
)

// normEpsilon guards the norm rescaling constraints against zero norms.
const normEpsilon = 1e-7

// Constraint projects a proposed parameter value onto a feasible region.
//
// Project must not modify its argument; it returns the projected value,
// which may be the argument itself when no change is needed.
type Constraint interface {
	Project(value *tensor.RawTensor) *tensor.RawTensor
}

// ConstraintFunc adapts an ordinary function to the Constraint interface.
type ConstraintFunc func(value *tensor.RawTensor) *tensor.RawTensor

// Project calls f(value).
func (f ConstraintFunc) Project(value *tensor.RawTensor) *tensor.RawTensor {
	return f(value)
}

// NonNeg zeroes negative entries.
type NonNeg struct{}

// Project implements Constraint.
func (NonNeg) Project(value *tensor.RawTensor) *tensor.RawTensor {
	return tensor.Clamp(value, 0, math.Inf(1))
}

// Clip limits every entry to [Min, Max].
type Clip struct {
	Min, Max float64
}

// Project implements Constraint.
func (c Clip) Project(value *tensor.RawTensor) *tensor.RawTensor {
	return tensor.Clamp(value, c.Min, c.Max)
}

// MaxNorm rescales each unit whose L2 norm exceeds Max down to Max.
//
// For 2-D tensors a unit is a column (the incoming weights of one output
// feature); for any other rank the whole tensor is one unit.
type MaxNorm struct {
	Max float64
}

// Project implements Constraint.
func (c MaxNorm) Project(value *tensor.RawTensor) *tensor.RawTensor {
	return rescaleUnits(value, func(norm float64) float64 {
		return math.Min(norm, c.Max)
	})
}

// UnitNorm rescales each unit to L2 norm 1.
type UnitNorm struct{}

// Project implements Constraint.
func (UnitNorm) Project(value *tensor.RawTensor) *tensor.RawTensor {
	return rescaleUnits(value, func(float64) float64 { return 1 })
}

// MinMaxNorm moves each unit's L2 norm into [Min, Max].
//
// Rate in (0, 1] interpolates between the current norm and the clipped
// one; Rate == 1 applies the clip exactly.
type MinMaxNorm struct {
	Min, Max, Rate float64
}

// Project implements Constraint.
func (c MinMaxNorm) Project(value *tensor.RawTensor) *tensor.RawTensor {
	return rescaleUnits(value, func(norm float64) float64 {
		clipped := math.Max(c.Min, math.Min(norm, c.Max))
		return c.Rate*clipped + (1-c.Rate)*norm
	})
}

// rescaleUnits multiplies each unit by desired(norm)/(norm+eps).
func rescaleUnits(value *tensor.RawTensor, desired func(norm float64) float64) *tensor.RawTensor {
	out := value.Clone()
	shape := value.Shape()

	if len(shape) != 2 {
		norm := tensor.Norm(value)
		tensor.ScaleInPlace(out, desired(norm)/(norm+normEpsilon))
		return out
	}

	rows, cols := shape[0], shape[1]
	for c := range cols {
		var sq float64
		for r := range rows {
			v := value.At(r*cols + c)
			sq += v * v
		}
		norm := math.Sqrt(sq)
		scale := desired(norm) / (norm + normEpsilon)
		for r := range rows {
			out.SetAt(r*cols+c, value.At(r*cols+c)*scale)
		}
	}
	return out
}

// Constraints maps parameters, by identity, to their projection.
//
// Lookup, Apply and Len treat a nil *Constraints as an empty registry;
// Set requires one from NewConstraints.
type Constraints struct {
	byParam map[*Parameter]Constraint
}

// NewConstraints creates an empty registry.
func NewConstraints() *Constraints {
	return &Constraints{byParam: make(map[*Parameter]Constraint)}
}

// Set registers c for p, replacing any earlier registration.
// A nil c removes the registration.
func (cs *Constraints) Set(p *Parameter, c Constraint) {
	if c == nil {
		delete(cs.byParam, p)
		return
	}
	cs.byParam[p] = c
}

// Lookup returns the constraint registered for p, if any.
func (cs *Constraints) Lookup(p *Parameter) (Constraint, bool) {
	if cs == nil {
		return nil, false
	}
	c, ok := cs.byParam[p]
	return c, ok
}

// Apply projects value through p's constraint, or returns value unchanged
// when none is registered.
func (cs *Constraints) Apply(p *Parameter, value *tensor.RawTensor) *tensor.RawTensor {
	c, ok := cs.Lookup(p)
	if !ok {
		return value
	}
	return c.Project(value)
}

// Len returns the number of registered constraints.
func (cs *Constraints) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.byParam)
}

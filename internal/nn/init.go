package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/scopt/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// Parameters:
//   - fanIn: Number of input units
//   - fanOut: Number of output units
//   - shape: Shape of the weight tensor
//   - dtype: Element type of the weight tensor
//   - src: Random source, so initialization is reproducible
func Xavier(fanIn, fanOut int, shape tensor.Shape, dtype tensor.DataType, src rand.Source) (*tensor.RawTensor, error) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return tensor.RandUniform(shape, dtype, -bound, bound, src)
}

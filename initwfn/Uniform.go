package initwfn

import (
	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// UniformConfig implements a configuration of a weight initializer that
// draws weights from a uniform distribution over [Low, High)
type UniformConfig struct {
	Low, High float64
	Seed      uint64
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64, seed uint64) (*InitWFn, error) {
	config := UniformConfig{
		Low:  low,
		High: high,
		Seed: seed,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (u UniformConfig) Type() Type {
	return Uniform
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (u UniformConfig) Create() G.InitWFn {
	rng := rand.New(rand.NewSource(u.Seed))
	return func(dt tensor.Dtype, s ...int) interface{} {
		return float64s(dt, s, func() float64 {
			return u.Low + (u.High-u.Low)*rng.Float64()
		})
	}
}

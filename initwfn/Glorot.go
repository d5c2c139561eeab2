package initwfn

import (
	"math"

	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GlorotUConfig implements a configuration of the Glorot Uniform
// initialization algorithm.
type GlorotUConfig struct {
	Gain float64
	Seed uint64
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64, seed uint64) (*InitWFn, error) {
	config := GlorotUConfig{
		Gain: gain,
		Seed: seed,
	}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn. Weights are drawn from U[-l, l] with
// l = gain * sqrt(6 / (fanIn + fanOut)).
func (g GlorotUConfig) Create() G.InitWFn {
	rng := rand.New(rand.NewSource(g.Seed))
	return func(dt tensor.Dtype, s ...int) interface{} {
		var fanIn, fanOut float64
		switch len(s) {
		case 0:
			fanIn, fanOut = 1, 1
		case 1:
			fanIn, fanOut = float64(s[0]), float64(s[0])
		default:
			fanIn, fanOut = float64(s[0]), float64(s[1])
		}
		limit := g.Gain * math.Sqrt(6/(fanIn+fanOut))

		return float64s(dt, s, func() float64 {
			return limit * (2*rng.Float64() - 1)
		})
	}
}

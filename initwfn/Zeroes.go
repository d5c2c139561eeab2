package initwfn

import G "gorgonia.org/gorgonia"

// ZeroesConfig describes an initializer that sets all weights to 0
type ZeroesConfig struct {
}

// NewZeroes returns a new InitWFn that sets all weights to 0
func NewZeroes() (*InitWFn, error) {
	config := ZeroesConfig{}

	return newInitWFn(config)
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (z ZeroesConfig) Type() Type {
	return Zeroes
}

// Create returns the weight initialization algorithm as a Gorgonia
// InitWFn
func (z ZeroesConfig) Create() G.InitWFn {
	return G.Zeroes()
}

package expreplay

import (
	"fmt"
)

// Config describes the experience replay buffer of an agent
type Config struct {
	// Capacity is the maximum number of transitions stored
	Capacity int

	// BatchSize is the number of transitions sampled for each update
	// over past experience
	BatchSize int
}

// DefaultConfig returns the default replay configuration
func DefaultConfig() Config {
	return Config{Capacity: 100_000, BatchSize: 1000}
}

// Validate returns an error if the Config is illegal
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return invalidSize("validate", "capacity must be positive "+
			"\n\thave(%v)", c.Capacity)
	}
	if c.BatchSize < 1 {
		return invalidSize("validate", "batch size must be positive "+
			"\n\thave(%v)", c.BatchSize)
	}
	return nil
}

// Create returns a new ExpReplay as described by the Config that
// samples uniformly with the given seed
func (c Config) Create(featureSize, actionSize int,
	seed uint64) (*ExpReplay, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return New(c.Capacity, featureSize, actionSize, NewUniformSelector(seed))
}

// String implements the fmt.Stringer interface
func (c Config) String() string {
	return fmt.Sprintf("{Capacity: %v, BatchSize: %v}", c.Capacity,
		c.BatchSize)
}

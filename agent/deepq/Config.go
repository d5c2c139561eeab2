package deepq

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/samuelfneumann/snakeq/agent"
	"github.com/samuelfneumann/snakeq/agent/policy"
	"github.com/samuelfneumann/snakeq/environment"
	"github.com/samuelfneumann/snakeq/expreplay"
	"github.com/samuelfneumann/snakeq/initwfn"
	"github.com/samuelfneumann/snakeq/solver"
)

var _ agent.Config = Config{}

// Config implements a configuration of a DeepQ agent
type Config struct {
	HiddenSize int     // Units in the hidden layer of the network
	Gamma      float64 // Discount factor

	Solver  *solver.Solver   // Solver for learning weights
	InitWFn *initwfn.InitWFn // Initialization algorithm for weights

	// Experience replay parameters
	ExpReplay expreplay.Config

	// Exploration describes the decay of the behaviour policy's
	// exploration
	Exploration policy.Schedule

	// ModelPath is the file the network is saved to whenever an episode
	// ends with a new best score. No model is saved if it is empty.
	ModelPath string
}

// DefaultConfig returns the default configuration of a DeepQ agent
// whose weights are initialized with the given seed
func DefaultConfig(seed uint64) (Config, error) {
	adam, err := solver.NewDefaultAdam(0.001, 1)
	if err != nil {
		return Config{}, err
	}
	init, err := initwfn.NewGlorotU(1.0, seed)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HiddenSize:  256,
		Gamma:       0.9,
		Solver:      adam,
		InitWFn:     init,
		ExpReplay:   expreplay.DefaultConfig(),
		Exploration: policy.DefaultSchedule(),
	}, nil
}

// CreateAgent creates the DeepQ agent that the config describes
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}

// Validate checks a Config to ensure it is a valid configuration
func (c Config) Validate() error {
	if c.HiddenSize < 1 {
		return errors.Errorf("validate: hidden layer size must be positive "+
			"\n\thave(%v)", c.HiddenSize)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return errors.Errorf("validate: discount must be in [0, 1] "+
			"\n\thave(%v)", c.Gamma)
	}
	if c.Solver == nil {
		return errors.New("validate: no solver specified")
	}
	if c.InitWFn == nil {
		return errors.New("validate: no weight initializer specified")
	}
	if err := c.ExpReplay.Validate(); err != nil {
		return errors.Wrap(err, "validate")
	}
	if err := c.Exploration.Validate(); err != nil {
		return errors.Wrap(err, "validate")
	}
	return nil
}

// String implements the fmt.Stringer interface
func (c Config) String() string {
	return fmt.Sprintf("{HiddenSize: %v, Gamma: %v, Solver: %v, InitWFn: "+
		"%v, ExpReplay: %v, Exploration: %v, ModelPath: %q}", c.HiddenSize,
		c.Gamma, c.Solver, c.InitWFn, c.ExpReplay, c.Exploration,
		c.ModelPath)
}

// Package policy implements the ε-greedy action selection policy with
// decaying exploration
package policy

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakeq/environment"
	"github.com/samuelfneumann/snakeq/network"
	"github.com/samuelfneumann/snakeq/utils/floatutils"
)

// EGreedy implements an ε-greedy policy using neural network function
// approximation of the action values. The probability of selecting a
// random action decays with the number of completed episodes as
// described by a Schedule.
type EGreedy struct {
	net      *network.MLP
	schedule Schedule
	rng      *rand.Rand
}

// NewEGreedy returns a new EGreedy policy selecting greedy actions
// with respect to the action values predicted by net
func NewEGreedy(schedule Schedule, net *network.MLP,
	seed uint64) (*EGreedy, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if net.Outputs() != environment.NumActions {
		return nil, errors.Errorf("newEGreedy: invalid number of network "+
			"outputs \n\twant(%v) \n\thave(%v)", environment.NumActions,
			net.Outputs())
	}

	return &EGreedy{
		net:      net,
		schedule: schedule,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

// Schedule returns the exploration schedule of the policy
func (p *EGreedy) Schedule() Schedule {
	return p.schedule
}

// SelectAction selects an action in state after the given number of
// completed episodes, and returns whether the action was selected at
// random. Exactly one integer is drawn to decide whether to explore,
// even once exploration has stopped, so the random stream consumed
// per selection does not depend on the schedule.
func (p *EGreedy) SelectAction(state mat.Vector, episodes int) (
	environment.Action, bool, error) {
	if p.rng.Intn(p.schedule.Range) < p.schedule.Epsilon(episodes) {
		return environment.Action(p.rng.Intn(environment.NumActions)), true,
			nil
	}

	action, err := p.Greedy(state)
	return action, false, err
}

// Greedy returns the action of maximum predicted value in state. Ties
// are broken by selecting the first maximal action.
func (p *EGreedy) Greedy(state mat.Vector) (environment.Action, error) {
	values, err := p.ActionValues(state)
	if err != nil {
		return 0, err
	}
	return environment.Action(floatutils.ArgMax(values)), nil
}

// ActionValues returns the predicted value of each action in state
func (p *EGreedy) ActionValues(state mat.Vector) ([]float64, error) {
	if state.Len() != p.net.Features() {
		return nil, errors.Errorf("actionValues: invalid state size "+
			"\n\twant(%v) \n\thave(%v)", p.net.Features(), state.Len())
	}

	input := make([]float64, state.Len())
	for i := range input {
		input[i] = state.AtVec(i)
	}

	values, err := p.net.Forward(input)
	if err != nil {
		return nil, errors.Wrap(err, "actionValues")
	}
	return values.RawRowView(0), nil
}

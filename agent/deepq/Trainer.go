package deepq

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/snakeq/network"
	"github.com/samuelfneumann/snakeq/timestep"
	"github.com/samuelfneumann/snakeq/utils/floatutils"
)

// Trainer performs Q-learning updates of an action-value network. Each
// update moves the predicted value of the taken action towards the
// Bellman target
//
//	r                       if the transition is terminal
//	r + γ * max_a' Q(s', a') otherwise
//
// using the mean squared error over all actions of all transitions in a
// batch. The targets of actions not taken equal their predictions, so
// they contribute no gradient.
type Trainer struct {
	net    *network.MLP
	solver G.Solver
	gamma  float64
}

// Result describes a single update of a Trainer
type Result struct {
	// Loss is the mean squared error between Predicted and Target
	// before the update
	Loss float64

	// Predicted holds the action values of each state in the batch
	// before the update, one row per transition
	Predicted *mat.Dense

	// Target holds the update targets, one row per transition
	Target *mat.Dense
}

// NewTrainer returns a new Trainer updating net with solver s and
// discount factor gamma
func NewTrainer(net *network.MLP, s G.Solver, gamma float64) (*Trainer,
	error) {
	if gamma < 0 || gamma > 1 {
		return nil, errors.Errorf("newTrainer: discount must be in [0, 1] "+
			"\n\thave(%v)", gamma)
	}
	if s == nil {
		return nil, errors.New("newTrainer: nil solver")
	}

	return &Trainer{net: net, solver: s, gamma: gamma}, nil
}

// Gamma returns the discount factor of the Trainer
func (t *Trainer) Gamma() float64 {
	return t.gamma
}

// Update performs a single update of the network on a batch of
// transitions. A batch may hold a single transition. An empty batch
// leaves the network unchanged and returns the zero Result.
//
// The values of the next states are predicted before the network is
// changed. Non-finite values are not caught.
func (t *Trainer) Update(batch []timestep.Transition) (Result, error) {
	if len(batch) == 0 {
		return Result{}, nil
	}

	features := t.net.Features()
	states := make([]float64, 0, len(batch)*features)
	nextStates := make([]float64, 0, len(batch)*features)
	for i, tr := range batch {
		if tr.State.Len() != features || tr.NextState.Len() != features {
			return Result{}, errors.Errorf("update: invalid state size for "+
				"transition %v \n\twant(%v) \n\thave(%v, %v)", i, features,
				tr.State.Len(), tr.NextState.Len())
		}
		if tr.Action.Len() != t.net.Outputs() {
			return Result{}, errors.Errorf("update: invalid action size for "+
				"transition %v \n\twant(%v) \n\thave(%v)", i, t.net.Outputs(),
				tr.Action.Len())
		}
		states = append(states, mat.Col(nil, 0, tr.State)...)
		nextStates = append(nextStates, mat.Col(nil, 0, tr.NextState)...)
	}

	predicted, err := t.net.Forward(states)
	if err != nil {
		return Result{}, errors.Wrap(err, "update: could not predict states")
	}
	nextValues, err := t.net.Forward(nextStates)
	if err != nil {
		return Result{}, errors.Wrap(err, "update: could not predict next "+
			"states")
	}

	// Only the value of the taken action is moved
	target := mat.DenseCopyOf(predicted)
	for i, tr := range batch {
		q := tr.Reward
		if !tr.Terminal {
			q += t.gamma * floatutils.Max(nextValues.RawRowView(i)...)
		}
		action := floatutils.ArgMax(mat.Col(nil, 0, tr.Action))
		target.Set(i, action, q)
	}

	loss, err := t.net.Fit(states, target, t.solver)
	if err != nil {
		return Result{}, errors.Wrap(err, "update")
	}

	return Result{Loss: loss, Predicted: predicted, Target: target}, nil
}

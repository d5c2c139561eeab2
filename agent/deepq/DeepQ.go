// Package deepq implements the deep Q-learning agent and its trainer
package deepq

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakeq/agent"
	"github.com/samuelfneumann/snakeq/agent/policy"
	"github.com/samuelfneumann/snakeq/encoder"
	"github.com/samuelfneumann/snakeq/environment"
	"github.com/samuelfneumann/snakeq/experiment/checkpointer"
	"github.com/samuelfneumann/snakeq/expreplay"
	"github.com/samuelfneumann/snakeq/network"
	"github.com/samuelfneumann/snakeq/timestep"
)

var _ agent.Agent = (*DeepQ)(nil)

// DeepQ implements the deep Q-learning algorithm with the MSE loss and
// no target network.
//
// After each step, the network is updated on the transition of that
// step. After each episode, the network is updated on a batch sampled
// from the replay buffer of all past transitions.
type DeepQ struct {
	env environment.Environment

	net     *network.MLP
	trainer *Trainer
	policy  *policy.EGreedy

	replay    *expreplay.ExpReplay
	batchSize int

	checkpointer checkpointer.Checkpointer // nil if no model is saved

	episodes int
	best     int
	score    int // Score of the last completed episode
	scoreSum int
}

// New creates and returns a new DeepQ agent on env. The weights of the
// network are initialized by the configured InitWFn, and seed seeds
// both action selection and sampling from the replay buffer.
func New(env environment.Environment, c Config, seed uint64) (*DeepQ,
	error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Every agent gets its own initializer and solver state, so that
	// agents created from the same Config are identical
	net, err := network.NewMLP(encoder.Features, c.HiddenSize,
		environment.NumActions, network.ReLU(), c.InitWFn.Config.Create())
	if err != nil {
		return nil, errors.Wrap(err, "new: could not create network")
	}

	trainer, err := NewTrainer(net, c.Solver.Config.Create(), c.Gamma)
	if err != nil {
		return nil, err
	}

	seeds := rand.New(rand.NewSource(seed))
	behaviour, err := policy.NewEGreedy(c.Exploration, net, seeds.Uint64())
	if err != nil {
		return nil, errors.Wrap(err, "new: could not create policy")
	}

	replay, err := c.ExpReplay.Create(encoder.Features,
		environment.NumActions, seeds.Uint64())
	if err != nil {
		return nil, errors.Wrap(err, "new: could not create experience "+
			"replay buffer")
	}

	var check checkpointer.Checkpointer
	if c.ModelPath != "" {
		check = checkpointer.NewBest(net, checkpointer.Fixed(c.ModelPath))
	}

	return &DeepQ{
		env:          env,
		net:          net,
		trainer:      trainer,
		policy:       behaviour,
		replay:       replay,
		batchSize:    c.ExpReplay.BatchSize,
		checkpointer: check,
	}, nil
}

// Network returns the action-value network of the agent
func (d *DeepQ) Network() *network.MLP {
	return d.net
}

// Replay returns the experience replay buffer of the agent
func (d *DeepQ) Replay() *expreplay.ExpReplay {
	return d.replay
}

// Episodes returns the number of completed episodes
func (d *DeepQ) Episodes() int {
	return d.episodes
}

// Epsilon returns the current exploration probability
func (d *DeepQ) Epsilon() float64 {
	return d.policy.Schedule().Probability(d.episodes)
}

// Report returns the progress of the agent as of its last completed
// episode
func (d *DeepQ) Report() agent.Report {
	var mean float64
	if d.episodes > 0 {
		mean = float64(d.scoreSum) / float64(d.episodes)
	}

	return agent.Report{
		Episode: d.episodes,
		Score:   d.score,
		Best:    d.best,
		Mean:    mean,
	}
}

// Step takes a single step in the environment and updates the network
// on the resulting transition. If the step ends the episode, Step also
// resets the environment, checkpoints the network on a new best score,
// and updates the network on a batch sampled from the replay buffer.
func (d *DeepQ) Step() (agent.Step, error) {
	state, err := encoder.Encode(d.env.Observables())
	if err != nil {
		return agent.Step{}, errors.Wrap(err, "step: could not encode state")
	}

	action, explored, err := d.policy.SelectAction(state, d.episodes)
	if err != nil {
		return agent.Step{}, errors.Wrap(err, "step: could not select "+
			"action")
	}

	actionVec := action.Vector()
	reward, terminal, score, err := d.env.Step(actionVec)
	if err != nil {
		return agent.Step{}, errors.Wrap(err, "step")
	}

	nextState, err := encoder.Encode(d.env.Observables())
	if err != nil {
		return agent.Step{}, errors.Wrap(err, "step: could not encode next "+
			"state")
	}

	result, err := d.remember(state, actionVec, reward, nextState, terminal)
	if err != nil {
		return agent.Step{}, err
	}

	step := agent.Step{
		Action:   action,
		Explored: explored,
		Reward:   reward,
		Terminal: terminal,
		Score:    score,
		Loss:     result.Loss,
	}
	if terminal {
		report, episodeResult, err := d.endEpisode(score)
		if err != nil {
			return step, err
		}
		step.Report = &report
		step.EpisodeLoss = episodeResult.Loss
	}
	return step, nil
}

// remember adds a transition to the replay buffer and updates the
// network on it
func (d *DeepQ) remember(state, action mat.Vector, reward float64,
	nextState mat.Vector, terminal bool) (Result, error) {
	t := timestep.NewTransition(state, action, reward, nextState, terminal)
	if err := d.replay.Add(t); err != nil {
		return Result{}, errors.Wrap(err, "step")
	}

	result, err := d.trainer.Update([]timestep.Transition{t})
	if err != nil {
		return Result{}, errors.Wrap(err, "step: could not update on "+
			"transition")
	}
	return result, nil
}

// endEpisode performs the end of episode procedure after an episode
// with the given score
func (d *DeepQ) endEpisode(score int) (agent.Report, Result, error) {
	d.env.Reset()

	d.score = score
	if score > d.best {
		d.best = score
	}
	d.episodes++
	d.scoreSum += score
	report := d.Report()

	if d.checkpointer != nil {
		if err := d.checkpointer.Checkpoint(report); err != nil {
			return report, Result{}, errors.Wrap(err, "endEpisode")
		}
	}

	batch, err := d.replay.Sample(d.batchSize)
	if err != nil {
		return report, Result{}, errors.Wrap(err, "endEpisode")
	}
	result, err := d.trainer.Update(batch)
	if err != nil {
		return report, Result{}, errors.Wrap(err, "endEpisode: could not "+
			"update on past experience")
	}
	return report, result, nil
}

// Load sets the weights of the network to those saved at path
func (d *DeepQ) Load(path string) error {
	return d.net.Load(path)
}

package experiment

import (
	"github.com/pkg/errors"

	"github.com/samuelfneumann/snakeq/agent"
	"github.com/samuelfneumann/snakeq/experiment/checkpointer"
	"github.com/samuelfneumann/snakeq/experiment/tracker"
	"github.com/samuelfneumann/snakeq/utils/floatutils"
)

var _ Experiment = (*Online)(nil)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	agent.Agent
	episodes      int
	completed     int
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
}

// NewOnline creates and returns a new online experiment with a given
// agent. The episodes parameter determines how many episodes the
// experiment is run for, and the t parameter is a slice of
// tracker.Tracker which determine what data is saved.
func NewOnline(a agent.Agent, episodes int, t ...tracker.Tracker) *Online {
	return &Online{Agent: a, episodes: episodes, trackers: t}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// AddCheckpointer registers a checkpointer.Checkpointer with an
// Experiment so that it is given the report of the agent after each
// episode
func (o *Online) AddCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// Completed returns the number of episodes run by the experiment
func (o *Online) Completed() int {
	return o.completed
}

// RunEpisode runs a single episode of the experiment and returns the
// report of the agent at the end of the episode. An error wrapping
// ErrNonFinite is returned as soon as an update of the agent results
// in a non-finite loss.
func (o *Online) RunEpisode() (agent.Report, error) {
	for {
		step, err := o.Agent.Step()
		if err != nil {
			return agent.Report{}, errors.Wrap(err, "runEpisode")
		}

		// Cache the step in each Tracker
		o.track(step)

		if !floatutils.Finite(step.Loss, step.EpisodeLoss) {
			return agent.Report{}, errors.Wrapf(ErrNonFinite, "runEpisode: "+
				"episode %d", o.completed+1)
		}

		if step.Report != nil {
			o.completed++
			return *step.Report, o.checkpoint(*step.Report)
		}
	}
}

// Run runs the entire experiment for all episodes
func (o *Online) Run() error {
	for o.completed < o.episodes {
		if _, err := o.RunEpisode(); err != nil {
			return err
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// track tracks the current step by caching its data in each Tracker
func (o *Online) track(step agent.Step) {
	for _, t := range o.trackers {
		t.Track(step)
	}
}

// checkpoint sends the report of an episode to each Checkpointer
func (o *Online) checkpoint(r agent.Report) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(r); err != nil {
			return errors.Wrap(err, "runEpisode")
		}
	}
	return nil
}

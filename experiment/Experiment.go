// Package experiment implements functionality for running an experiment
package experiment

import (
	"github.com/pkg/errors"

	"github.com/samuelfneumann/snakeq/agent"
	"github.com/samuelfneumann/snakeq/experiment/checkpointer"
	"github.com/samuelfneumann/snakeq/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments send each step taken by the agent to Trackers, which
// cache the data they track in RAM to be later saved to disk. The
// Save() function will then save all cached data to disk. This is
// usually performed after an experiment has been run. The Run() method
// will run all episodes of the experiment. The RunEpisode() function
// will run a single episode.
//
// After each episode, Experiments send the agent's report to their
// Checkpointers, which decide whether to save the state of the agent.
type Experiment interface {
	Run() error
	RunEpisode() (agent.Report, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)

	// Adds a new checkpointer.Checkpointer to the experiment
	AddCheckpointer(c checkpointer.Checkpointer)
}

// ErrNonFinite is wrapped by the error returned when an update of the
// agent results in a non-finite loss
var ErrNonFinite = errors.New("non-finite loss")

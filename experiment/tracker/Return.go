package tracker

import (
	"github.com/samuelfneumann/snakeq/agent"
)

// Return tracks and saves the episodic return in an experiment. The
// rewards of all steps in an episode are accumulated, and the return is
// cached when the episode ends.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track tracks the reward seen on a step. When a new episode starts,
// the rewards of this new episode are accumulated separately from the
// rewards seen on previous episodes.
func (r *Return) Track(step agent.Step) {
	r.currentReturn += step.Reward

	if step.Terminal {
		// Episode has ended, save the return and begin tracking the
		// return for a new episode
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0.0
	}
}

// Data returns the episodic returns tracked so far
func (r *Return) Data() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment.
type EpisodeLength struct {
	currentLength  int
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track counts the steps of the current episode, caching the count
// when the episode ends
func (e *EpisodeLength) Track(step agent.Step) {
	e.currentLength++
	if step.Terminal {
		e.episodeLengths = append(e.episodeLengths, float64(e.currentLength))
		e.currentLength = 0
	}
}

// Data returns the episode lengths tracked so far
func (e *EpisodeLength) Data() []float64 {
	return e.episodeLengths
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}

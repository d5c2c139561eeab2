// Package agent defines an agent interface
package agent

import (
	"fmt"

	"github.com/samuelfneumann/snakeq/environment"
)

// Agent interacts with and learns from an environment one step at a
// time.
//
// An Agent owns its environment: each call to Step selects an action,
// takes it in the environment, and learns from the outcome. Once an
// episode ends, the Agent resets the environment itself and the next
// call to Step begins a new episode.
type Agent interface {
	// Step takes a single step in the environment and learns from it
	Step() (Step, error)

	// Report returns the progress of the Agent as of its last
	// completed episode
	Report() Report

	// Episodes returns the number of completed episodes
	Episodes() int
}

// Step describes a single step taken by an Agent
type Step struct {
	Action   environment.Action
	Explored bool // Whether the action was selected at random
	Reward   float64
	Terminal bool
	Score    int

	// Loss is the loss of the update on the transition of this step
	Loss float64

	// Report is non-nil only if the step ended an episode, in which
	// case EpisodeLoss is the loss of the update on past experience
	// performed at the end of the episode
	Report      *Report
	EpisodeLoss float64
}

// Report describes the progress of an Agent after an episode
type Report struct {
	Episode int     // Number of completed episodes
	Score   int     // Score of the last episode
	Best    int     // Best score over all episodes
	Mean    float64 // Mean score over all episodes
}

// String implements the fmt.Stringer interface
func (r Report) String() string {
	return fmt.Sprintf("Episode: %d  Score: %d  Best: %d  Mean: %.3f",
		r.Episode, r.Score, r.Best, r.Mean)
}

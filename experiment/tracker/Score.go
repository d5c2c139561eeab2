package tracker

import (
	"github.com/samuelfneumann/snakeq/agent"
)

// Score tracks and saves the score of each episode in an experiment.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// score will not be saved.
type Score struct {
	scores   []float64
	filename string
}

// NewScore creates and returns a new *Score Tracker
func NewScore(filename string) *Score {
	return &Score{filename: filename}
}

// Track caches the score of an episode if step ends that episode
func (s *Score) Track(step agent.Step) {
	if step.Report != nil {
		s.scores = append(s.scores, float64(step.Report.Score))
	}
}

// Data returns the scores tracked so far
func (s *Score) Data() []float64 {
	return s.scores
}

// Save saves the data tracked by the Score Tracker to disk.
func (s *Score) Save() error {
	return save(s.filename, s.scores)
}

// MeanScore tracks and saves the running mean score over all episodes
// after each episode of an experiment.
type MeanScore struct {
	means    []float64
	filename string
}

// NewMeanScore creates and returns a new *MeanScore Tracker
func NewMeanScore(filename string) *MeanScore {
	return &MeanScore{filename: filename}
}

// Track caches the running mean score if step ends an episode
func (m *MeanScore) Track(step agent.Step) {
	if step.Report != nil {
		m.means = append(m.means, step.Report.Mean)
	}
}

// Data returns the running mean scores tracked so far
func (m *MeanScore) Data() []float64 {
	return m.means
}

// Save saves the data tracked by the MeanScore Tracker to disk.
func (m *MeanScore) Save() error {
	return save(m.filename, m.means)
}

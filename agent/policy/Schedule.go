package policy

import (
	"fmt"

	"github.com/pkg/errors"
)

// Schedule describes the decay of exploration over episodes. After n
// completed episodes, a random action is taken with probability
// Epsilon(n) / Range, where Epsilon(n) = max(Horizon - n, 0).
type Schedule struct {
	// Horizon is the number of episodes after which the policy never
	// explores
	Horizon int

	// Range is the exclusive upper bound of the integer drawn at each
	// action selection. A random action is taken if the drawn integer
	// is below the current epsilon.
	Range int
}

// DefaultSchedule returns the default exploration schedule, which
// stops exploring after 80 episodes
func DefaultSchedule() Schedule {
	return Schedule{Horizon: 80, Range: 200}
}

// Validate returns an error if the Schedule is illegal
func (s Schedule) Validate() error {
	if s.Range < 1 {
		return errors.Errorf("validate: exploration range must be positive "+
			"\n\thave(%v)", s.Range)
	}
	if s.Horizon < 0 {
		return errors.Errorf("validate: exploration horizon must be "+
			"non-negative \n\thave(%v)", s.Horizon)
	}
	return nil
}

// Epsilon returns the exploration budget after the given number of
// completed episodes. It is non-increasing in episodes and never
// negative.
func (s Schedule) Epsilon(episodes int) int {
	if eps := s.Horizon - episodes; eps > 0 {
		return eps
	}
	return 0
}

// Probability returns the probability of taking a random action after
// the given number of completed episodes
func (s Schedule) Probability(episodes int) float64 {
	p := float64(s.Epsilon(episodes)) / float64(s.Range)
	if p > 1 {
		return 1
	}
	return p
}

// String implements the fmt.Stringer interface
func (s Schedule) String() string {
	return fmt.Sprintf("{Horizon: %v, Range: %v}", s.Horizon, s.Range)
}

// Package timestep implements the transitions of the agent-environment
// interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition packages together a single (S, A, R, S', terminal) tuple.
//
// A Transition owns copies of its vectors and is never mutated after
// creation. Callers must not modify the vectors it exposes.
type Transition struct {
	State     *mat.VecDense
	Action    *mat.VecDense // One-hot ActionVector
	Reward    float64
	NextState *mat.VecDense
	Terminal  bool
}

// NewTransition returns a new Transition holding copies of the argument
// vectors
func NewTransition(state, action mat.Vector, reward float64,
	nextState mat.Vector, terminal bool) Transition {
	return Transition{
		State:     mat.VecDenseCopyOf(state),
		Action:    mat.VecDenseCopyOf(action),
		Reward:    reward,
		NextState: mat.VecDenseCopyOf(nextState),
		Terminal:  terminal,
	}
}

func (t Transition) String() string {
	str := "Transition | Action: %v  |  Reward:  %.2f  |  Terminal: %v"

	return fmt.Sprintf(str, mat.Formatted(t.Action.T()), t.Reward,
		t.Terminal)
}

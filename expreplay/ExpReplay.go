// Package expreplay implements the bounded experience replay memory of
// past transitions.
package expreplay

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakeq/timestep"
)

// ExpReplay implements a fixed capacity experience replay buffer as a
// ring. Once full, each added transition overwrites the oldest stored
// transition.
//
// Transitions are stored flattened in pre-allocated caches, so the
// memory footprint of an ExpReplay does not change after creation.
// An ExpReplay is not safe for concurrent use.
type ExpReplay struct {
	stateCache     []float64
	actionCache    []float64
	rewardCache    []float64
	terminalCache  []bool
	nextStateCache []float64

	// currentInUsePos is the index at which the next transition is
	// written. Once the buffer is full, it is also the index of the
	// oldest transition.
	currentInUsePos int
	isFull          bool

	// Outlines how data is sampled
	sampler Selector

	maxCapacity int
	featureSize int
	actionSize  int
}

// New returns a new ExpReplay. The sampler parameter is a Selector
// which determines how data is sampled from the replay buffer. The
// featureSize and actionSize parameters define the size of the state
// and action vectors. The capacity parameter determines the maximum
// number of transitions in the buffer at any given time.
func New(capacity, featureSize, actionSize int,
	sampler Selector) (*ExpReplay, error) {
	if capacity < 1 {
		return nil, invalidSize("new", "capacity must be positive "+
			"\n\thave(%v)", capacity)
	}
	if featureSize < 1 || actionSize < 1 {
		return nil, invalidSize("new", "feature and action sizes must "+
			"be positive \n\thave(%v, %v)", featureSize, actionSize)
	}
	if sampler == nil {
		return nil, &ExpReplayError{Op: "new",
			Err: errors.New("nil sampler")}
	}

	return &ExpReplay{
		stateCache:     make([]float64, capacity*featureSize),
		actionCache:    make([]float64, capacity*actionSize),
		rewardCache:    make([]float64, capacity),
		terminalCache:  make([]bool, capacity),
		nextStateCache: make([]float64, capacity*featureSize),

		currentInUsePos: 0,
		isFull:          false,

		sampler: sampler,

		maxCapacity: capacity,
		featureSize: featureSize,
		actionSize:  actionSize,
	}, nil
}

// String returns the string representation of the ExpReplay
func (e *ExpReplay) String() string {
	return fmt.Sprintf("ExpReplay{Len: %v, MaxCapacity: %v, Features: %v, "+
		"Actions: %v}", e.Len(), e.MaxCapacity(), e.featureSize,
		e.actionSize)
}

// Len returns the number of transitions currently stored
func (e *ExpReplay) Len() int {
	if e.isFull {
		return e.maxCapacity
	}
	return e.currentInUsePos
}

// MaxCapacity returns the maximum number of transitions stored
func (e *ExpReplay) MaxCapacity() int {
	return e.maxCapacity
}

// FeatureSize returns the length of the stored state vectors
func (e *ExpReplay) FeatureSize() int {
	return e.featureSize
}

// ActionSize returns the length of the stored action vectors
func (e *ExpReplay) ActionSize() int {
	return e.actionSize
}

// Add adds a transition to the buffer, overwriting the oldest stored
// transition if the buffer is full
func (e *ExpReplay) Add(t timestep.Transition) error {
	if t.State == nil || t.Action == nil || t.NextState == nil {
		return invalidSize("add", "transition with nil vectors")
	}
	if t.State.Len() != e.featureSize || t.NextState.Len() != e.featureSize {
		return invalidSize("add", "invalid state size \n\twant(%v)"+
			"\n\thave(%v, %v)", e.featureSize, t.State.Len(),
			t.NextState.Len())
	}
	if t.Action.Len() != e.actionSize {
		return invalidSize("add", "invalid action size \n\twant(%v)"+
			"\n\thave(%v)", e.actionSize, t.Action.Len())
	}

	i := e.currentInUsePos
	copyVec(e.stateCache[i*e.featureSize:(i+1)*e.featureSize], t.State)
	copyVec(e.actionCache[i*e.actionSize:(i+1)*e.actionSize], t.Action)
	copyVec(e.nextStateCache[i*e.featureSize:(i+1)*e.featureSize],
		t.NextState)
	e.rewardCache[i] = t.Reward
	e.terminalCache[i] = t.Terminal

	e.currentInUsePos++
	if e.currentInUsePos == e.maxCapacity {
		e.currentInUsePos = 0
		e.isFull = true
	}

	return nil
}

// Sample returns a batch of at most n transitions. If at most n
// transitions are stored, all of them are returned oldest first.
// Otherwise, exactly n distinct transitions are chosen by the
// Selector of the buffer. Sampling from an empty buffer returns an
// empty batch.
func (e *ExpReplay) Sample(n int) ([]timestep.Transition, error) {
	if n < 0 {
		return nil, invalidSize("sample", "batch size must be "+
			"non-negative \n\thave(%v)", n)
	}
	if e.Len() <= n {
		return e.Transitions(), nil
	}

	positions := e.sampler.choose(n, e.Len())
	batch := make([]timestep.Transition, len(positions))
	for i, pos := range positions {
		batch[i] = e.at(e.index(pos))
	}
	return batch, nil
}

// Transitions returns all stored transitions, oldest first
func (e *ExpReplay) Transitions() []timestep.Transition {
	transitions := make([]timestep.Transition, e.Len())
	for pos := range transitions {
		transitions[pos] = e.at(e.index(pos))
	}
	return transitions
}

// index returns the cache index of the transition at position pos,
// where position 0 is the oldest stored transition
func (e *ExpReplay) index(pos int) int {
	if !e.isFull {
		return pos
	}
	return (e.currentInUsePos + pos) % e.maxCapacity
}

// at returns a copy of the transition stored at cache index i
func (e *ExpReplay) at(i int) timestep.Transition {
	f, a := e.featureSize, e.actionSize
	return timestep.NewTransition(
		mat.NewVecDense(f, e.stateCache[i*f:(i+1)*f]),
		mat.NewVecDense(a, e.actionCache[i*a:(i+1)*a]),
		e.rewardCache[i],
		mat.NewVecDense(f, e.nextStateCache[i*f:(i+1)*f]),
		e.terminalCache[i],
	)
}

// copyVec copies v into dst
func copyVec(dst []float64, v mat.Vector) {
	for i := range dst {
		dst[i] = v.AtVec(i)
	}
}

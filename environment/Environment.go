// Package environment outlines the interfaces and structs needed to
// implement the game environment that an agent is trained on
package environment

import (
	"gonum.org/v1/gonum/mat"
)

// Environment implements a simulated game which advances one tick per
// call to Step.
//
// Step takes an action as a one-hot ActionVector (see Action.Vector)
// and returns the reward for the transition, whether the episode has
// ended, and the current game score. An error is only returned if the
// action vector is malformed, in which case the environment is not
// advanced.
type Environment interface {
	Reset() // Resets between episodes
	Step(action mat.Vector) (reward float64, terminal bool, score int,
		err error)
	Observables() Observables
}

// Observables packages together the raw environment state needed to
// construct a state feature vector.
//
// All coordinates are in pixels and are multiples of BlockSize when the
// Observables are well formed. Body[0] is always the head.
type Observables struct {
	Width, Height int
	BlockSize     int

	Head      Point
	Body      []Point
	Direction Direction

	Food   Point // Beneficial item
	Bonus  Point // Bonus item
	Hazard Point // Harmful item
}

// InBounds returns whether the point p lies on the board described by
// the Observables
func (o Observables) InBounds(p Point) bool {
	return p.X >= 0 && p.X <= o.Width-o.BlockSize &&
		p.Y >= 0 && p.Y <= o.Height-o.BlockSize
}

// IsCollision returns whether a snake head at point p would collide
// with a wall or with the snake's own body, excluding the current head
func (o Observables) IsCollision(p Point) bool {
	if !o.InBounds(p) {
		return true
	}
	if len(o.Body) > 1 {
		for _, segment := range o.Body[1:] {
			if segment == p {
				return true
			}
		}
	}
	return false
}

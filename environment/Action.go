package environment

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Point is a pixel position on the board
type Point struct {
	X, Y int
}

// Add returns the point translated by (dx, dy)
func (p Point) Add(dx, dy int) Point {
	return Point{p.X + dx, p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Direction is the absolute heading of the snake. Directions are
// enumerated in clockwise order so that turning right is +1 and turning
// left is -1 modulo NumDirections.
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up

	NumDirections = 4
)

// Valid returns whether d is one of the enumerated directions
func (d Direction) Valid() bool {
	return d >= Right && d <= Up
}

// Turn returns the direction after taking the relative action a
func (d Direction) Turn(a Action) Direction {
	switch a {
	case TurnRight:
		return (d + 1) % NumDirections
	case TurnLeft:
		return (d + NumDirections - 1) % NumDirections
	default:
		return d
	}
}

// Delta returns the unit offset of one step in direction d, scaled by
// block
func (d Direction) Delta(block int) (dx, dy int) {
	switch d {
	case Right:
		return block, 0
	case Left:
		return -block, 0
	case Down:
		return 0, block
	case Up:
		return 0, -block
	}
	panic(fmt.Sprintf("delta: illegal direction %d", int(d)))
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "Right"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Up:
		return "Up"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Action is a move relative to the current heading
type Action int

const (
	Straight Action = iota
	TurnRight
	TurnLeft

	NumActions = 3
)

// Vector returns the one-hot ActionVector encoding of a
func (a Action) Vector() *mat.VecDense {
	v := mat.NewVecDense(NumActions, nil)
	v.SetVec(int(a), 1.0)
	return v
}

func (a Action) String() string {
	switch a {
	case Straight:
		return "Straight"
	case TurnRight:
		return "TurnRight"
	case TurnLeft:
		return "TurnLeft"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ActionFromVector decodes a one-hot ActionVector. The vector must have
// length NumActions, exactly one entry equal to 1 and all others 0.
func ActionFromVector(v mat.Vector) (Action, error) {
	if v.Len() != NumActions {
		return 0, errors.Errorf("actionfromvector: invalid action size "+
			"\n\twant(%v)\n\thave(%v)", NumActions, v.Len())
	}

	index := -1
	for i := 0; i < v.Len(); i++ {
		switch v.AtVec(i) {
		case 0.0:
		case 1.0:
			if index >= 0 {
				return 0, errors.Errorf("actionfromvector: vector %v is "+
					"not one-hot", mat.Formatted(v.T()))
			}
			index = i
		default:
			return 0, errors.Errorf("actionfromvector: vector %v is not "+
				"one-hot", mat.Formatted(v.T()))
		}
	}
	if index < 0 {
		return 0, errors.New("actionfromvector: zero action vector")
	}
	return Action(index), nil
}

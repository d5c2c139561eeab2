// Package encoder implements the conversion of raw environment
// observables into the fixed-length state feature vectors consumed by
// the value function approximator
package encoder

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakeq/environment"
)

// Features is the length of every state feature vector
const Features = 19

// Offsets of each group of features in the state feature vector
const (
	DangerOffset    = 0  // straight, right, left
	DirectionOffset = 3  // left, right, up, down
	FoodOffset      = 7  // left, right, up, down
	BonusOffset     = 11 // left, right, up, down
	HazardOffset    = 15 // left, right, up, down
)

// ErrMalformed is wrapped by every error returned for observables
// inconsistent with the expected shape
var ErrMalformed = errors.New("malformed observables")

// Encode returns the state feature vector of obs. The features are:
//
//	[0:3]   danger of a collision after going straight, turning right, and
//	        turning left
//	[3:7]   one-hot current direction: left, right, up, down
//	[7:11]  food is left, right, above, below the head
//	[11:15] bonus item is left, right, above, below the head
//	[15:19] hazard is left, right, above, below the head
//
// Encode is a pure function of obs.
func Encode(obs environment.Observables) (*mat.VecDense, error) {
	if err := validate(obs); err != nil {
		return nil, err
	}

	features := make([]float64, Features)

	// Simulate one step ahead for each relative action
	for i, a := range []environment.Action{
		environment.Straight,
		environment.TurnRight,
		environment.TurnLeft,
	} {
		dx, dy := obs.Direction.Turn(a).Delta(obs.BlockSize)
		features[DangerOffset+i] = boolToFloat(
			obs.IsCollision(obs.Head.Add(dx, dy)))
	}

	features[DirectionOffset+0] = boolToFloat(obs.Direction == environment.Left)
	features[DirectionOffset+1] = boolToFloat(obs.Direction == environment.Right)
	features[DirectionOffset+2] = boolToFloat(obs.Direction == environment.Up)
	features[DirectionOffset+3] = boolToFloat(obs.Direction == environment.Down)

	relative(features[FoodOffset:FoodOffset+4], obs.Head, obs.Food)
	relative(features[BonusOffset:BonusOffset+4], obs.Head, obs.Bonus)
	relative(features[HazardOffset:HazardOffset+4], obs.Head, obs.Hazard)

	return mat.NewVecDense(Features, features), nil
}

// relative fills dst with whether item is left of, right of, above, and
// below head
func relative(dst []float64, head, item environment.Point) {
	dst[0] = boolToFloat(item.X < head.X)
	dst[1] = boolToFloat(item.X > head.X)
	dst[2] = boolToFloat(item.Y < head.Y)
	dst[3] = boolToFloat(item.Y > head.Y)
}

// validate returns an error wrapping ErrMalformed if obs is not a
// consistent game state
func validate(obs environment.Observables) error {
	bs := obs.BlockSize
	if bs <= 0 {
		return errors.Wrapf(ErrMalformed, "encode: non-positive block size %v",
			bs)
	}
	if obs.Width <= 0 || obs.Width%bs != 0 || obs.Height <= 0 ||
		obs.Height%bs != 0 {
		return errors.Wrapf(ErrMalformed, "encode: board %vx%v is not a "+
			"positive multiple of block size %v", obs.Width, obs.Height, bs)
	}
	if !obs.Direction.Valid() {
		return errors.Wrapf(ErrMalformed, "encode: illegal direction %v",
			obs.Direction)
	}
	if len(obs.Body) == 0 || obs.Body[0] != obs.Head {
		return errors.Wrapf(ErrMalformed, "encode: body must start at the "+
			"head %v", obs.Head)
	}

	for _, p := range obs.Body {
		if p.X%bs != 0 || p.Y%bs != 0 {
			return errors.Wrapf(ErrMalformed, "encode: body segment %v not "+
				"aligned to block size %v", p, bs)
		}
	}

	// The head may be exactly one block past a wall after a collision
	head := obs.Head
	if head.X < -bs || head.X > obs.Width || head.Y < -bs ||
		head.Y > obs.Height {
		return errors.Wrapf(ErrMalformed, "encode: head %v outside %vx%v "+
			"board", head, obs.Width, obs.Height)
	}

	items := []struct {
		name string
		p    environment.Point
	}{{"food", obs.Food}, {"bonus", obs.Bonus}, {"hazard", obs.Hazard}}
	for _, item := range items {
		p := item.p
		if !obs.InBounds(p) || p.X%bs != 0 || p.Y%bs != 0 {
			return errors.Wrapf(ErrMalformed, "encode: %v at %v is not a "+
				"cell of the %vx%v board", item.name, p, obs.Width, obs.Height)
		}
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

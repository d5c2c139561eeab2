package environment

// Ender determines when an episode should be ended independently of
// collisions, based on how many frames have elapsed and the current
// length of the snake.
type Ender interface {
	End(frame, length int) bool
}

// StallLimit implements the Ender interface to end episodes in which
// the agent wanders for too long without making progress. An episode is
// ended once the frame count exceeds factor times the current length.
type StallLimit struct {
	factor int
}

// NewStallLimit creates and returns a new stall limit
func NewStallLimit(factor int) StallLimit {
	return StallLimit{factor}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination.
func (s StallLimit) End(frame, length int) bool {
	return frame > s.factor*length
}

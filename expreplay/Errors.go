package expreplay

import "github.com/pkg/errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

var errInvalidSize = errors.New("invalid size")

// IsInvalidSize returns whether or not an error reports that data of an
// illegal size was given to a replay buffer, either a transition whose
// vectors do not match the sizes of the buffer or an illegal buffer or
// batch size.
func IsInvalidSize(err error) bool {
	return errors.Is(err, errInvalidSize)
}

// invalidSize returns a new *ExpReplayError reporting an illegal size
func invalidSize(op, format string, args ...interface{}) error {
	return &ExpReplayError{
		Op:  op,
		Err: errors.Wrapf(errInvalidSize, format, args...),
	}
}

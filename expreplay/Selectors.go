package expreplay

import (
	"golang.org/x/exp/rand"
)

// Selector implements functionality for choosing which data should be
// sampled from an experience replay buffer
type Selector interface {
	// choose selects n distinct positions out of size stored
	// transitions, where position 0 is the oldest transition. It is
	// only called with 0 < n < size.
	choose(n, size int) []int
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly without replacement
type uniformSelector struct {
	rng *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data uniformly
// randomly from an experience replay buffer, never selecting the same
// transition twice in one batch
func NewUniformSelector(seed uint64) Selector {
	source := rand.NewSource(seed)
	rng := rand.New(source)

	return &uniformSelector{rng: rng}
}

// choose selects n distinct positions uniformly randomly as the prefix
// of a random permutation
func (u *uniformSelector) choose(n, size int) []int {
	return u.rng.Perm(size)[:n]
}

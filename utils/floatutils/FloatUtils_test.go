package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgMaxFirstMaximum(t *testing.T) {
	assert.Equal(t, 0, ArgMax([]float64{0, 0, 0}))
	assert.Equal(t, 1, ArgMax([]float64{-1, 2, 2}))
	assert.Equal(t, 2, ArgMax([]float64{-3, -2, -1}))
	assert.Panics(t, func() { ArgMax(nil) })
}

func TestMax(t *testing.T) {
	assert.Equal(t, 3.5, Max(1, 3.5, -2))
	assert.Equal(t, -1.0, Max(-1))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite())
	assert.True(t, Finite(0, -1e300, 1e300))
	assert.False(t, Finite(1, math.NaN()))
	assert.False(t, Finite(math.Inf(-1)))
}

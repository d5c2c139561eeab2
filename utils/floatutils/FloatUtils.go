// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ArgMax returns the index of the maximum value in values. If several
// values are maximal, the first such index is returned. ArgMax panics
// if values is empty.
func ArgMax(values []float64) int {
	return floats.MaxIdx(values)
}

// Max calculates and returns the maximum float64 in a list
func Max(values ...float64) float64 {
	max := values[0]
	for _, val := range values {
		if val > max {
			max = val
		}
	}
	return max
}

// Finite returns whether no value is NaN or infinite
func Finite(values ...float64) bool {
	for _, val := range values {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return false
		}
	}
	return true
}

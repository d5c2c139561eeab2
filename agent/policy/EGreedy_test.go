package policy

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/snakeq/environment"
	"github.com/samuelfneumann/snakeq/network"
)

func TestEpsilonDecay(t *testing.T) {
	s := DefaultSchedule()
	require.NoError(t, s.Validate())

	assert.Equal(t, 80, s.Epsilon(0))
	assert.Equal(t, 1, s.Epsilon(79))
	for n := 1; n < 200; n++ {
		assert.LessOrEqual(t, s.Epsilon(n), s.Epsilon(n-1))
		assert.GreaterOrEqual(t, s.Epsilon(n), 0)
		if n >= s.Horizon {
			assert.Equal(t, 0, s.Epsilon(n), "episode %d", n)
			assert.Equal(t, 0.0, s.Probability(n))
		}
	}
	assert.Equal(t, 0.4, s.Probability(0))

	assert.Equal(t, 1.0, Schedule{Horizon: 10, Range: 5}.Probability(0))
	assert.Error(t, Schedule{Horizon: 10}.Validate())
	assert.Error(t, Schedule{Horizon: -1, Range: 5}.Validate())
}

// newPolicy returns a policy over a network whose output bias is set
// to bias, so that it predicts bias for every state
func newPolicy(t *testing.T, s Schedule, bias []float64) *EGreedy {
	net := must.M1(network.NewMLP(4, 8, environment.NumActions,
		network.ReLU(), G.Zeroes()))

	weights := net.Weights()
	weights[network.OutputBias] = mat.NewDense(1, 3, bias)
	require.NoError(t, net.SetWeights(weights))

	return must.M1(NewEGreedy(s, net, 1))
}

func TestGreedyFirstMaximum(t *testing.T) {
	state := mat.NewVecDense(4, []float64{1, 0, 1, 0})

	p := newPolicy(t, Schedule{Horizon: 0, Range: 200}, []float64{0, 2, 1})
	assert.Equal(t, environment.TurnRight, must.M1(p.Greedy(state)))

	p = newPolicy(t, Schedule{Horizon: 0, Range: 200}, []float64{0, 0, 0})
	assert.Equal(t, environment.Straight, must.M1(p.Greedy(state)))

	p = newPolicy(t, Schedule{Horizon: 0, Range: 200}, []float64{-1, 3, 3})
	assert.Equal(t, environment.TurnRight, must.M1(p.Greedy(state)))

	_, err := p.Greedy(mat.NewVecDense(3, nil))
	assert.Error(t, err)
}

func TestNoExplorationAfterHorizon(t *testing.T) {
	p := newPolicy(t, DefaultSchedule(), []float64{0, 0, 5})
	state := mat.NewVecDense(4, nil)

	for i := 0; i < 100; i++ {
		action, explored, err := p.SelectAction(state, 80+i)
		require.NoError(t, err)
		assert.False(t, explored)
		assert.Equal(t, environment.TurnLeft, action)
	}
}

func TestAlwaysExplore(t *testing.T) {
	// Epsilon is at least Range, so every selection explores
	p := newPolicy(t, Schedule{Horizon: 10, Range: 10}, []float64{0, 0, 5})
	state := mat.NewVecDense(4, nil)

	counts := make([]int, environment.NumActions)
	for i := 0; i < 300; i++ {
		action, explored, err := p.SelectAction(state, 0)
		require.NoError(t, err)
		require.True(t, explored)
		counts[action]++
	}
	for a, c := range counts {
		assert.Greater(t, c, 50, "action %v selected %d times", a, c)
	}
}

func TestInvalidNetwork(t *testing.T) {
	net := must.M1(network.NewMLP(4, 8, 2, network.ReLU(), G.Zeroes()))
	_, err := NewEGreedy(DefaultSchedule(), net, 1)
	assert.Error(t, err)
}

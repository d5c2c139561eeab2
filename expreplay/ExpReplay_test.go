package expreplay

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakeq/timestep"
)

// transition returns a transition whose reward identifies it
func transition(id int) timestep.Transition {
	f := float64(id)
	return timestep.NewTransition(
		mat.NewVecDense(2, []float64{f, -f}),
		mat.NewVecDense(3, []float64{0, 1, 0}),
		f,
		mat.NewVecDense(2, []float64{f + 1, -f - 1}),
		id%2 == 0,
	)
}

func rewards(batch []timestep.Transition) []float64 {
	r := make([]float64, len(batch))
	for i, t := range batch {
		r[i] = t.Reward
	}
	return r
}

func TestFifoEviction(t *testing.T) {
	const capacity = 5

	for k := 1; k <= 3; k++ {
		replay := must.M1(New(capacity, 2, 3, NewUniformSelector(1)))
		for id := 0; id < capacity+k; id++ {
			require.NoError(t, replay.Add(transition(id)))
			require.LessOrEqual(t, replay.Len(), capacity)
		}

		assert.Equal(t, capacity, replay.Len())
		want := make([]float64, capacity)
		for i := range want {
			want[i] = float64(k + i)
		}
		assert.Equal(t, want, rewards(replay.Transitions()), "k = %d", k)
	}
}

func TestTransitionsRoundTrip(t *testing.T) {
	replay := must.M1(New(3, 2, 3, NewUniformSelector(1)))
	require.NoError(t, replay.Add(transition(4)))

	got := replay.Transitions()
	require.Len(t, got, 1)
	assert.Equal(t, transition(4), got[0])

	// The stored transition is a copy
	got[0].State.SetVec(0, 100)
	assert.Equal(t, transition(4), replay.Transitions()[0])
}

func TestSampleNoRepeat(t *testing.T) {
	replay := must.M1(New(100, 2, 3, NewUniformSelector(7)))
	for id := 0; id < 150; id++ {
		require.NoError(t, replay.Add(transition(id)))
	}

	for trial := 0; trial < 20; trial++ {
		batch := must.M1(replay.Sample(30))
		require.Len(t, batch, 30)

		seen := make(map[float64]bool)
		for _, r := range rewards(batch) {
			assert.False(t, seen[r], "transition %v sampled twice", r)
			assert.GreaterOrEqual(t, r, 50.0, "evicted transition sampled")
			seen[r] = true
		}
	}
}

func TestSampleAllWhenFewer(t *testing.T) {
	replay := must.M1(New(100, 2, 3, NewUniformSelector(7)))
	for id := 0; id < 12; id++ {
		require.NoError(t, replay.Add(transition(id)))
	}

	assert.Len(t, must.M1(replay.Sample(1000)), 12)
	assert.Len(t, must.M1(replay.Sample(12)), 12)
	assert.Len(t, must.M1(replay.Sample(11)), 11)
}

func TestSampleEmpty(t *testing.T) {
	replay := must.M1(DefaultConfig().Create(2, 3, 1))

	batch, err := replay.Sample(1000)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestSampleDeterministic(t *testing.T) {
	sample := func() []float64 {
		replay := must.M1(Config{Capacity: 50, BatchSize: 10}.Create(2, 3, 3))
		for id := 0; id < 50; id++ {
			require.NoError(t, replay.Add(transition(id)))
		}
		return rewards(must.M1(replay.Sample(10)))
	}
	assert.Equal(t, sample(), sample())
}

func TestInvalidSize(t *testing.T) {
	replay := must.M1(New(4, 2, 3, NewUniformSelector(1)))

	bad := transition(1)
	bad.State = mat.NewVecDense(3, nil)
	err := replay.Add(bad)
	require.Error(t, err)
	assert.True(t, IsInvalidSize(err))

	bad = transition(1)
	bad.Action = mat.NewVecDense(2, nil)
	assert.True(t, IsInvalidSize(replay.Add(bad)))
	assert.Equal(t, 0, replay.Len())

	_, err = replay.Sample(-1)
	assert.True(t, IsInvalidSize(err))

	_, err = New(0, 2, 3, NewUniformSelector(1))
	assert.True(t, IsInvalidSize(err))

	assert.True(t, IsInvalidSize(Config{Capacity: 10}.Validate()))
	_, err = Config{BatchSize: 10}.Create(2, 3, 1)
	assert.True(t, IsInvalidSize(err))

	var replayErr *ExpReplayError
	assert.ErrorAs(t, err, &replayErr)
	assert.Equal(t, "validate", replayErr.Op)
}

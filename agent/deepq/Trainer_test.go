package deepq

import (
	"math"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakeq/environment"
	"github.com/samuelfneumann/snakeq/initwfn"
	"github.com/samuelfneumann/snakeq/network"
	"github.com/samuelfneumann/snakeq/solver"
	"github.com/samuelfneumann/snakeq/timestep"
)

const gamma = 0.9

func newTrainer(t *testing.T) (*Trainer, *network.MLP) {
	init := must.M1(initwfn.NewUniform(-1, 1, 17))
	net := must.M1(network.NewMLP(4, 8, environment.NumActions,
		network.ReLU(), init.InitWFn()))
	adam := must.M1(solver.NewDefaultAdam(0.001, 1))

	trainer, err := NewTrainer(net, adam, gamma)
	require.NoError(t, err)
	return trainer, net
}

func newTransition(state []float64, action environment.Action,
	reward float64, next []float64, terminal bool) timestep.Transition {
	return timestep.NewTransition(mat.NewVecDense(4, state), action.Vector(),
		reward, mat.NewVecDense(4, next), terminal)
}

func testBatch() []timestep.Transition {
	return []timestep.Transition{
		newTransition([]float64{1, 0, 0, 1}, environment.Straight, 10,
			[]float64{0, 1, 1, 0}, false),
		newTransition([]float64{0, 1, 0, 1}, environment.TurnRight, -10,
			[]float64{1, 1, 0, 0}, true),
		newTransition([]float64{1, 1, 1, 0}, environment.TurnLeft, 0,
			[]float64{0, 0, 1, 1}, false),
		newTransition([]float64{0, 0, 1, 1}, environment.TurnRight, -20,
			[]float64{1, 0, 1, 0}, false),
	}
}

func TestTargetMasking(t *testing.T) {
	trainer, net := newTrainer(t)
	before := net.Clone()
	batch := testBatch()

	result, err := trainer.Update(batch)
	require.NoError(t, err)

	for i, tr := range batch {
		taken := must.M1(environment.ActionFromVector(tr.Action))

		var want float64
		if tr.Terminal {
			want = tr.Reward
			assert.Equal(t, want, result.Target.At(i, int(taken)),
				"terminal target must equal the reward exactly")
		} else {
			next := must.M1(before.Forward(tr.NextState.RawVector().Data))
			want = tr.Reward + gamma*math.Max(next.At(0, 0),
				math.Max(next.At(0, 1), next.At(0, 2)))
			assert.InDelta(t, want, result.Target.At(i, int(taken)), 1e-9)
		}

		// All other entries are the predictions themselves
		for a := 0; a < environment.NumActions; a++ {
			if a == int(taken) {
				continue
			}
			assert.Equal(t, result.Predicted.At(i, a), result.Target.At(i, a),
				"transition %d action %d", i, a)
		}

		predicted := must.M1(before.Forward(tr.State.RawVector().Data))
		assert.InDeltaSlice(t, predicted.RawRowView(0),
			result.Predicted.RawRowView(i), 1e-9)
	}
}

func TestLossIsMSE(t *testing.T) {
	trainer, _ := newTrainer(t)

	result, err := trainer.Update(testBatch())
	require.NoError(t, err)

	var diff mat.Dense
	diff.Sub(result.Target, result.Predicted)
	r, c := diff.Dims()
	mse := mat.Sum(mat.NewDense(r, c, elementSquares(&diff))) / float64(r*c)
	assert.InDelta(t, mse, result.Loss, 1e-9)
	assert.Greater(t, result.Loss, 0.0)
}

func elementSquares(m *mat.Dense) []float64 {
	r, c := m.Dims()
	squares := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			squares = append(squares, m.At(i, j)*m.At(i, j))
		}
	}
	return squares
}

func TestUpdateMovesTakenAction(t *testing.T) {
	trainer, net := newTrainer(t)
	tr := newTransition([]float64{1, 0, 1, 0}, environment.TurnLeft, 20,
		[]float64{0, 1, 0, 1}, true)

	var first, last Result
	for i := 0; i < 300; i++ {
		result, err := trainer.Update([]timestep.Transition{tr})
		require.NoError(t, err)
		require.True(t, net.Finite(), "update %d", i)
		if i == 0 {
			first = result
		}
		last = result
	}
	assert.Less(t, last.Loss, first.Loss)

	values := must.M1(net.Forward(tr.State.RawVector().Data))
	assert.Greater(t, values.At(0, int(environment.TurnLeft)),
		first.Predicted.At(0, int(environment.TurnLeft)))
}

func TestEmptyBatch(t *testing.T) {
	trainer, net := newTrainer(t)
	before := net.Weights()

	result, err := trainer.Update(nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	assert.Equal(t, before, net.Weights())
}

func TestInvalidBatch(t *testing.T) {
	trainer, _ := newTrainer(t)

	bad := testBatch()
	bad[2].State = mat.NewVecDense(3, nil)
	_, err := trainer.Update(bad)
	assert.Error(t, err)

	bad = testBatch()
	bad[0].Action = mat.NewVecDense(2, []float64{1, 0})
	_, err = trainer.Update(bad)
	assert.Error(t, err)

	_, err = NewTrainer(nil, nil, 1.5)
	assert.Error(t, err)
}

package network

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/samuelfneumann/snakeq/initwfn"
	"github.com/samuelfneumann/snakeq/solver"
)

func newTestMLP(t *testing.T, seed uint64) *MLP {
	init := must.M1(initwfn.NewGlorotU(1, seed))
	net, err := NewMLP(4, 8, 3, ReLU(), init.InitWFn())
	require.NoError(t, err)
	return net
}

func TestForwardShapes(t *testing.T) {
	net := newTestMLP(t, 1)
	batch := []float64{
		1, 0, 0, 1,
		0, 1, 1, 0,
	}

	out, err := net.Forward(batch)
	require.NoError(t, err)
	r, c := out.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)

	// A single input is a batch of size 1 and agrees with its row in
	// the batched prediction
	single, err := net.Forward(batch[4:])
	require.NoError(t, err)
	r, c = single.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 3, c)
	assert.InDeltaSlice(t, out.RawRowView(1), single.RawRowView(0), 1e-12)

	_, err = net.Forward([]float64{1, 2, 3})
	assert.Error(t, err)
	_, err = net.Forward(nil)
	assert.Error(t, err)
}

func TestForwardZeroes(t *testing.T) {
	net, err := NewMLP(4, 8, 3, ReLU(), G.Zeroes())
	require.NoError(t, err)

	out := must.M1(net.Forward([]float64{1, 2, 3, 4}))
	assert.Equal(t, []float64{0, 0, 0}, out.RawRowView(0))
}

func TestBiasesStartAtZero(t *testing.T) {
	weights := newTestMLP(t, 1).Weights()
	for _, name := range []string{HiddenBias, OutputBias} {
		for _, b := range weights[name].RawMatrix().Data {
			assert.Equal(t, 0.0, b, name)
		}
	}

	r, c := weights[HiddenWeights].Dims()
	assert.Equal(t, []int{4, 8}, []int{r, c})
	r, c = weights[OutputWeights].Dims()
	assert.Equal(t, []int{8, 3}, []int{r, c})
}

func TestFitReducesLoss(t *testing.T) {
	net := newTestMLP(t, 2)
	s := must.M1(solver.NewDefaultAdam(0.01, 1))

	input := []float64{
		1, 0, 0, 1,
		0, 1, 1, 0,
		1, 1, 0, 0,
	}
	target := mat.NewDense(3, 3, []float64{
		1, -1, 0.5,
		0, 2, -0.5,
		-1, 0, 1,
	})

	first, err := net.Fit(input, target, s)
	require.NoError(t, err)
	last := first
	for i := 0; i < 200; i++ {
		last, err = net.Fit(input, target, s)
		require.NoError(t, err)
		require.True(t, net.Finite(), "non-finite parameters at step %d", i)
	}
	assert.Less(t, last, first)

	_, err = net.Fit(input, mat.NewDense(2, 3, nil), s)
	assert.Error(t, err)
}

func TestFitLossIsMSE(t *testing.T) {
	net, err := NewMLP(2, 4, 3, ReLU(), G.Zeroes())
	require.NoError(t, err)
	s := must.M1(solver.NewDefaultAdam(0.01, 1))

	// All predictions are 0, so the loss is the mean of the squared
	// targets
	target := mat.NewDense(2, 3, []float64{1, 2, 3, 0, 0, 0})
	loss, err := net.Fit([]float64{1, 1, 0, 1}, target, s)
	require.NoError(t, err)
	assert.InDelta(t, 14.0/6.0, loss, 1e-12)
}

func TestSetWeightsAndClone(t *testing.T) {
	net := newTestMLP(t, 3)
	other := newTestMLP(t, 4)
	require.NoError(t, other.SetWeights(net.Weights()))
	assert.Equal(t, net.Weights(), other.Weights())

	clone := net.Clone()
	s := must.M1(solver.NewDefaultAdam(0.01, 1))
	_, err := clone.Fit([]float64{1, 0, 0, 1}, mat.NewDense(1, 3,
		[]float64{5, 5, 5}), s)
	require.NoError(t, err)
	assert.NotEqual(t, net.Weights(), clone.Weights())
	assert.Equal(t, net.Weights(), other.Weights())

	bad := net.Weights()
	bad[HiddenWeights] = mat.NewDense(2, 2, nil)
	assert.Error(t, net.SetWeights(bad))
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.gob")

	net := newTestMLP(t, 5)
	require.NoError(t, net.Save(path))

	loaded := newTestMLP(t, 6)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, net.Weights(), loaded.Weights())
	assert.Equal(t, "relu", loaded.Activation().String())

	// Saving again keeps the previous file as a backup
	require.NoError(t, newTestMLP(t, 7).Save(path))
	_, err := os.Stat(path + "~")
	assert.NoError(t, err)

	// Layer sizes must match
	wide, err := NewMLP(4, 16, 3, ReLU(), G.Zeroes())
	require.NoError(t, err)
	assert.Error(t, wide.Load(path))

	assert.Error(t, loaded.Load(filepath.Join(dir, "missing.gob")))
}

func TestSaveFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "model.gob")
	assert.Error(t, newTestMLP(t, 1).Save(path))
}

func TestNewMLPInvalid(t *testing.T) {
	_, err := NewMLP(0, 8, 3, ReLU(), G.Zeroes())
	assert.Error(t, err)
	_, err = NewMLP(4, 8, 3, nil, G.Zeroes())
	assert.Error(t, err)
	_, err = NewMLP(4, 8, 3, ReLU(), nil)
	assert.Error(t, err)
}

package solver

import (
	"encoding/json"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
)

func TestUnmarshalAdam(t *testing.T) {
	data := []byte(`{"Type": "Adam", "Config": {"StepSize": 0.001, ` +
		`"Epsilon": 1e-8, "Beta1": 0.9, "Beta2": 0.999, "Batch": 1}}`)

	var s Solver
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, Adam, s.Type)
	assert.Equal(t, 0.001, s.Config.(AdamConfig).StepSize)

	_, ok := s.Solver.(*G.AdamSolver)
	assert.True(t, ok, "got %T", s.Solver)
}

func TestMarshalRoundTrip(t *testing.T) {
	vanilla := must.M1(NewVanilla(0.1, 1, 5))

	var s Solver
	require.NoError(t, json.Unmarshal(must.M1(json.Marshal(vanilla)), &s))
	assert.Equal(t, vanilla.Config, s.Config)

	_, ok := s.Solver.(*G.VanillaSolver)
	assert.True(t, ok, "got %T", s.Solver)
}

func TestInvalid(t *testing.T) {
	_, err := NewDefaultAdam(0, 1)
	assert.Error(t, err)

	_, err = NewVanilla(0.1, 0, 0)
	assert.Error(t, err)

	var s Solver
	assert.Error(t, json.Unmarshal([]byte(`{"Type": "RMSProp"}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"Type": "Adam", "Config": `+
		`{"StepSize": -1, "Batch": 1}}`), &s))
}

package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakeq/agent"
)

// steps returns the steps of two episodes, of lengths 3 and 2
func steps() []agent.Step {
	return []agent.Step{
		{Reward: 10},
		{Reward: 0},
		{Reward: -10, Terminal: true, Score: 1,
			Report: &agent.Report{Episode: 1, Score: 1, Best: 1, Mean: 1}},
		{Reward: 20},
		{Reward: -10, Terminal: true, Score: 2,
			Report: &agent.Report{Episode: 2, Score: 2, Best: 2, Mean: 1.5}},
	}
}

func TestTrackers(t *testing.T) {
	dir := t.TempDir()
	score := NewScore(filepath.Join(dir, "score.bin"))
	mean := NewMeanScore(filepath.Join(dir, "mean.bin"))
	ret := NewReturn(filepath.Join(dir, "return.bin"))
	length := NewEpisodeLength(filepath.Join(dir, "length.bin"))

	trackers := []Tracker{score, mean, ret, length}
	for _, step := range steps() {
		for _, tr := range trackers {
			tr.Track(step)
		}
	}

	want := map[string][]float64{
		"score.bin":  {1, 2},
		"mean.bin":   {1, 1.5},
		"return.bin": {0, 10},
		"length.bin": {3, 2},
	}
	assert.Equal(t, want["score.bin"], score.Data())
	assert.Equal(t, want["return.bin"], ret.Data())

	for _, tr := range trackers {
		require.NoError(t, tr.Save())
	}
	for name, data := range want {
		assert.Equal(t, data, must.M1(LoadData(filepath.Join(dir, name))),
			name)
	}
}

func TestSaveErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "data.bin")
	assert.Error(t, NewScore(missing).Save())
	assert.Error(t, NewPlot(missing, "Snake").Save())

	_, err := LoadData(missing)
	assert.Error(t, err)
}

func TestPlot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "scores.html")
	plot := NewPlot(filename, "Snake")
	for _, step := range steps() {
		plot.Track(step)
	}
	assert.Equal(t, []string{"1", "2"}, plot.episodes)
	require.NoError(t, plot.Save())

	html := string(must.M1(os.ReadFile(filename)))
	assert.Contains(t, html, "Mean Score")
	assert.Contains(t, html, "Snake")
}

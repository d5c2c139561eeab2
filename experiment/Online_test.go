package experiment

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/snakeq/agent"
	"github.com/samuelfneumann/snakeq/experiment/checkpointer"
	"github.com/samuelfneumann/snakeq/experiment/tracker"
)

// countdown is an agent whose episodes last length steps and whose
// score is the episode number
type countdown struct {
	length   int
	steps    int
	episodes int
	loss     float64
}

func (c *countdown) Step() (agent.Step, error) {
	c.steps++
	step := agent.Step{Reward: 1, Loss: c.loss}
	if c.steps%c.length == 0 {
		c.episodes++
		report := c.Report()
		step.Terminal = true
		step.Score = report.Score
		step.Report = &report
	}
	return step, nil
}

func (c *countdown) Report() agent.Report {
	return agent.Report{Episode: c.episodes, Score: c.episodes,
		Best: c.episodes, Mean: float64(c.episodes+1) / 2}
}

func (c *countdown) Episodes() int {
	return c.episodes
}

type saves struct{ names []string }

func (s *saves) Save(filename string) error {
	s.names = append(s.names, filename)
	return nil
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	a := &countdown{length: 4}
	score := tracker.NewScore(filepath.Join(dir, "scores.bin"))
	length := tracker.NewEpisodeLength(filepath.Join(dir, "lengths.bin"))

	exp := NewOnline(a, 5, score)
	exp.Register(length)
	s := &saves{}
	exp.AddCheckpointer(must.M1(checkpointer.NewNEpisode(2, s,
		checkpointer.FilenameEnumerator(0, "net", ".gob"))))

	require.NoError(t, exp.Run())
	assert.Equal(t, 5, exp.Completed())
	assert.Equal(t, 20, a.steps)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, score.Data())
	assert.Equal(t, []float64{4, 4, 4, 4, 4}, length.Data())
	assert.Equal(t, []string{"net1.gob", "net2.gob"}, s.names)

	require.NoError(t, exp.Save())
	assert.Equal(t, []float64{1, 2, 3, 4, 5},
		must.M1(tracker.LoadData(filepath.Join(dir, "scores.bin"))))
}

func TestRunEpisode(t *testing.T) {
	exp := NewOnline(&countdown{length: 3}, 10)

	report, err := exp.RunEpisode()
	require.NoError(t, err)
	assert.Equal(t, agent.Report{Episode: 1, Score: 1, Best: 1, Mean: 1},
		report)
	assert.Equal(t, 1, exp.Completed())
}

func TestNonFiniteLoss(t *testing.T) {
	exp := NewOnline(&countdown{length: 3, loss: math.NaN()}, 10)

	_, err := exp.RunEpisode()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonFinite))
	assert.Error(t, exp.Run())
}

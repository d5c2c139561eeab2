package tracker

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/samuelfneumann/snakeq/agent"
)

// Plot tracks the score and running mean score of each episode and
// saves them as a line chart in an HTML page
type Plot struct {
	scores   []opts.LineData
	means    []opts.LineData
	episodes []string
	filename string
	title    string
}

// NewPlot returns a new Plot Tracker which saves its chart to filename
func NewPlot(filename, title string) *Plot {
	return &Plot{filename: filename, title: title}
}

// Track adds the scores of an episode to the chart if step ends that
// episode
func (p *Plot) Track(step agent.Step) {
	if step.Report == nil {
		return
	}
	r := step.Report
	p.episodes = append(p.episodes, fmt.Sprintf("%d", r.Episode))
	p.scores = append(p.scores, opts.LineData{Value: r.Score})
	p.means = append(p.means, opts.LineData{Value: r.Mean})
}

// Save renders the chart to disk
func (p *Plot) Save() error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    p.title,
			Subtitle: "Score per episode",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Episode"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
	)
	line.SetXAxis(p.episodes).
		AddSeries("Score", p.scores).
		AddSeries("Mean Score", p.means)

	page := components.NewPage()
	page.AddCharts(line)

	file, err := os.Create(p.filename)
	if err != nil {
		return errors.Wrap(err, "save: could not create plot file")
	}
	if err := page.Render(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "save: could not render %v", p.filename)
	}
	return errors.Wrapf(file.Close(), "save: could not close %v", p.filename)
}

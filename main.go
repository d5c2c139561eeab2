// Command snakeq trains a deep Q-learning agent to play snake
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/samuelfneumann/snakeq/agent"
	"github.com/samuelfneumann/snakeq/agent/deepq"
	"github.com/samuelfneumann/snakeq/environment/snake"
	"github.com/samuelfneumann/snakeq/experiment"
	"github.com/samuelfneumann/snakeq/experiment/checkpointer"
	"github.com/samuelfneumann/snakeq/experiment/tracker"
	"github.com/samuelfneumann/snakeq/solver"
)

var (
	flagEpisodes   = flag.Int("episodes", 1000, "Number of episodes to train for.")
	flagSeed       = flag.Uint64("seed", 1, "Seed for the game, the weights and the agent.")
	flagConfig     = flag.String("config", "", "JSON file with the agent configuration. Flags set explicitly override it.")
	flagModel      = flag.String("model", "model.bin", "File the network is saved to on every new best score. Empty disables saving.")
	flagLoad       = flag.String("load", "", "File with previously saved network weights to start from.")
	flagHidden     = flag.Int("hidden", 256, "Number of units in the hidden layer.")
	flagLR         = flag.Float64("lr", 0.001, "Learning rate of the Adam solver.")
	flagGamma      = flag.Float64("gamma", 0.9, "Discount factor.")
	flagScores     = flag.String("scores", "", "File to save the score of each episode to.")
	flagPlot       = flag.String("plot", "", "HTML file to render the score plot to.")
	flagSnapshot   = flag.String("snapshot", "", "PNG file to save a snapshot of the final board to.")
	flagRender     = flag.Bool("render", false, "Render the board to the terminal after every step.")
	flagFrameDelay = flag.Duration("frame_delay", 0, "Delay after every step of the game, e.g. 50ms.")
	flagEvery      = flag.Int("checkpoint_every", 0, "If > 0, additionally save the network every so many episodes.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if err := run(); err != nil {
		klog.Fatalf("%+v", err)
	}
}

func run() error {
	gameConfig := snake.DefaultConfig(*flagSeed)
	gameConfig.FrameDelay = *flagFrameDelay
	game := must.M1(snake.New(gameConfig))

	config := must.M1(agentConfig())
	klog.V(1).Infof("Agent configuration: %v", config)

	q := must.M1(deepq.New(game, config, *flagSeed))
	if *flagLoad != "" {
		if err := q.Load(*flagLoad); err != nil {
			return err
		}
		klog.V(1).Infof("Loaded network from %q", *flagLoad)
	}

	exp := experiment.NewOnline(q, *flagEpisodes)
	if *flagScores != "" {
		exp.Register(tracker.NewScore(*flagScores))
		exp.Register(tracker.NewMeanScore(*flagScores + ".mean"))
	}
	if *flagPlot != "" {
		exp.Register(tracker.NewPlot(*flagPlot, "Snake Deep Q-Learning"))
	}
	if *flagRender {
		exp.Register(&render{game: game})
	}
	exp.Register(newProgress(*flagEpisodes))

	if *flagEvery > 0 {
		exp.AddCheckpointer(must.M1(checkpointer.NewNEpisode(*flagEvery,
			q.Network(), checkpointer.FilenameEnumerator(0, "checkpoint",
				".bin"))))
	}

	start := time.Now()
	runErr := exp.Run()
	if errors.Is(runErr, experiment.ErrNonFinite) {
		klog.Errorf("Aborting after %d episodes: %v", exp.Completed(), runErr)
	} else if runErr != nil {
		return runErr
	}
	klog.Infof("Trained for %d episodes in %s: %v", exp.Completed(),
		time.Since(start).Round(time.Millisecond), q.Report())

	if err := exp.Save(); err != nil {
		return err
	}
	if *flagSnapshot != "" {
		if err := game.SavePNG(*flagSnapshot); err != nil {
			return err
		}
	}
	return runErr
}

// agentConfig returns the configuration of the agent: the defaults,
// overridden by the -config file, overridden by explicitly set flags.
func agentConfig() (deepq.Config, error) {
	config, err := deepq.DefaultConfig(*flagSeed)
	if err != nil {
		return deepq.Config{}, err
	}
	config.HiddenSize = *flagHidden
	config.Gamma = *flagGamma
	config.ModelPath = *flagModel
	if config.Solver, err = solver.NewDefaultAdam(*flagLR, 1); err != nil {
		return deepq.Config{}, err
	}

	if *flagConfig != "" {
		data, err := os.ReadFile(*flagConfig)
		if err != nil {
			return deepq.Config{}, errors.Wrapf(err, "agentConfig: could "+
				"not read %q", *flagConfig)
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return deepq.Config{}, errors.Wrapf(err, "agentConfig: could "+
				"not parse %q", *flagConfig)
		}
	}

	var lrSet bool
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hidden":
			config.HiddenSize = *flagHidden
		case "gamma":
			config.Gamma = *flagGamma
		case "model":
			config.ModelPath = *flagModel
		case "lr":
			lrSet = true
		}
	})
	if lrSet {
		if config.Solver, err = solver.NewDefaultAdam(*flagLR, 1); err != nil {
			return deepq.Config{}, err
		}
	}

	return config, config.Validate()
}

// progress advances a progress bar and logs a line at the end of every
// episode
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(episodes int) *progress {
	return &progress{bar: progressbar.Default(int64(episodes), "Training")}
}

func (p *progress) Track(step agent.Step) {
	if step.Report == nil {
		return
	}
	r := step.Report
	klog.Infof("Game %d Score %d Record %d Mean %.3f Loss %.4g", r.Episode,
		r.Score, r.Best, r.Mean, step.EpisodeLoss)
	if err := p.bar.Add(1); err != nil {
		klog.Warningf("Progress bar: %v", err)
	}
}

func (p *progress) Save() error {
	return p.bar.Finish()
}

// render prints the board to the terminal after every step
type render struct {
	game *snake.Game
}

func (r *render) Track(agent.Step) {
	fmt.Println(r.game.String())
}

func (r *render) Save() error {
	return nil
}

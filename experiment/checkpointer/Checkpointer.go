// Package checkpointer implements saving objects, such as the network
// of an agent, while an experiment runs
package checkpointer

import (
	"github.com/samuelfneumann/snakeq/agent"
)

// Saver is an object that can save itself to a file
type Saver interface {
	Save(filename string) error
}

// Checkpointer checkpoints/saves objects based on the progress of an
// agent after each episode
type Checkpointer interface {
	Checkpoint(agent.Report) error
}

package checkpointer

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/samuelfneumann/snakeq/agent"
)

// best implements checkpointing each time the score of an episode
// exceeds the scores of all previous episodes
type best struct {
	best   int
	object Saver

	// filename returns the name of the file to save the object in. Use
	// Fixed to always overwrite the same file, or FilenameEnumerator to
	// keep every checkpoint.
	filename func() string
}

// NewBest returns a checkpointer that checkpoints object whenever an
// episode scores higher than all previous episodes. Scores of 0 or less
// are never checkpointed.
func NewBest(object Saver, filename func() string) Checkpointer {
	return &best{
		best:     0,
		object:   object,
		filename: filename,
	}
}

// Checkpoint saves the tracked object if r reports a new best score
func (b *best) Checkpoint(r agent.Report) error {
	if r.Score <= b.best {
		return nil
	}
	b.best = r.Score

	filename := b.filename()
	if err := b.object.Save(filename); err != nil {
		return errors.Wrapf(err, "checkpoint: episode %d", r.Episode)
	}
	klog.V(1).Infof("Saved %s with new best score %d at episode %d",
		filename, r.Score, r.Episode)
	return nil
}

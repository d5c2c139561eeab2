package checkpointer

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/samuelfneumann/snakeq/agent"
)

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	object   Saver // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each checkpoint should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// file1.gob, file2.gob, ..., fileK.gob), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	filename func() string
}

// NewNEpisode returns a checkpointer that checkpoints every n episodes.
func NewNEpisode(n int, object Saver,
	filename func() string) (Checkpointer, error) {
	if n < 1 {
		return nil, errors.Errorf("newNEpisode: interval must be positive "+
			"\n\thave(%v)", n)
	}
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint checkpoints the Checkpointer's tracked object by calling
// its Save() method
func (n *nEpisode) Checkpoint(r agent.Report) error {
	if r.Episode%n.interval != 0 {
		return nil
	}

	filename := n.filename()
	if err := n.object.Save(filename); err != nil {
		return errors.Wrapf(err, "checkpoint: episode %d", r.Episode)
	}
	klog.V(1).Infof("Saved %s at episode %d", filename, r.Episode)
	return nil
}

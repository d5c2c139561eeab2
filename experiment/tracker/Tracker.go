// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"

	"github.com/samuelfneumann/snakeq/agent"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(step agent.Step)
	Save() error
}

// LoadData loads and returns the data saved by a Tracker that saves a
// gob encoded []float64
func LoadData(filename string) ([]float64, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "loadData: could not open data file")
	}
	defer file.Close()

	// Decode the data
	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, errors.Wrapf(err, "loadData: could not decode %v",
			filename)
	}

	return data, nil
}

// save gob encodes data to filename
func save(filename string, data []float64) error {
	// Open the file to save to
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "save: could not open save file")
	}

	// Encode and save the file
	if err := gob.NewEncoder(file).Encode(data); err != nil {
		file.Close()
		return errors.Wrapf(err, "save: could not encode data to %v",
			filename)
	}
	return errors.Wrapf(file.Close(), "save: could not close %v", filename)
}

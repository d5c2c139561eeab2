package snake

import (
	"time"

	"github.com/pkg/errors"
)

// Rewards describes the reward scheme of the game. The values were
// chosen for gameplay feel; callers may rescale them but should keep
// their relative magnitudes.
type Rewards struct {
	Food      float64 // Beneficial item consumed
	Bonus     float64 // Bonus item consumed
	Hazard    float64 // Harmful item consumed
	Collision float64 // Wall/self collision or stall timeout
}

// DefaultRewards returns the default reward scheme
func DefaultRewards() Rewards {
	return Rewards{
		Food:      10,
		Bonus:     20,
		Hazard:    -20,
		Collision: -10,
	}
}

// Config describes a configuration of the game
type Config struct {
	Width, Height int // Board size in pixels
	BlockSize     int // Size of one grid cell in pixels

	Rewards Rewards

	// StallFactor ends an episode once the number of frames exceeds
	// StallFactor times the current snake length
	StallFactor int

	// FrameDelay is slept at the end of every step to pace the game
	// for human viewing. Zero disables pacing.
	FrameDelay time.Duration

	Seed uint64 // Seed for item placement
}

// DefaultConfig returns the default 640x480 configuration with 20
// pixel blocks
func DefaultConfig(seed uint64) Config {
	return Config{
		Width:       640,
		Height:      480,
		BlockSize:   20,
		Rewards:     DefaultRewards(),
		StallFactor: 100,
		Seed:        seed,
	}
}

// Validate checks a Config to ensure it describes a playable board
func (c Config) Validate() error {
	if c.BlockSize <= 0 {
		return errors.Errorf("validate: block size must be positive "+
			"\n\twant(>0)\n\thave(%v)", c.BlockSize)
	}
	if c.Width <= 0 || c.Width%c.BlockSize != 0 {
		return errors.Errorf("validate: width %v is not a positive "+
			"multiple of the block size %v", c.Width, c.BlockSize)
	}
	if c.Height <= 0 || c.Height%c.BlockSize != 0 {
		return errors.Errorf("validate: height %v is not a positive "+
			"multiple of the block size %v", c.Height, c.BlockSize)
	}
	if c.Width < 4*c.BlockSize {
		return errors.Errorf("validate: board must be at least 4 blocks "+
			"wide to fit the initial snake \n\twant(>=%v)\n\thave(%v)",
			4*c.BlockSize, c.Width)
	}
	if c.StallFactor <= 0 {
		return errors.Errorf("validate: stall factor must be positive "+
			"\n\twant(>0)\n\thave(%v)", c.StallFactor)
	}
	if c.FrameDelay < 0 {
		return errors.Errorf("validate: negative frame delay %v",
			c.FrameDelay)
	}
	return nil
}

// Package snake implements the snake survival game: a snake on a grid
// that collects a beneficial item, a bonus item, and avoids a harmful
// item while not running into walls or itself.
package snake

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/snakeq/environment"
)

// initialLength is the number of blocks the snake starts with
const initialLength = 3

var _ environment.Environment = (*Game)(nil)

// Game implements environment.Environment for the snake game
type Game struct {
	Config
	rng   *rand.Rand
	ender environment.Ender

	direction environment.Direction
	head      environment.Point
	body      []environment.Point // body[0] == head

	food   environment.Point
	bonus  environment.Point
	hazard environment.Point

	score int
	frame int
}

// New creates a new Game described by c. The game starts ready to use.
func New(c Config) (*Game, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		Config: c,
		rng:    rand.New(rand.NewSource(c.Seed)),
		ender:  environment.NewStallLimit(c.StallFactor),
	}
	g.Reset()

	return g, nil
}

// Reset resets the game between episodes. The snake starts in the
// centre of the board heading right with its body extending left.
func (g *Game) Reset() {
	g.direction = environment.Right

	bs := g.BlockSize
	g.head = environment.Point{X: (g.Width / 2 / bs) * bs,
		Y: (g.Height / 2 / bs) * bs}
	g.body = make([]environment.Point, initialLength)
	for i := range g.body {
		g.body[i] = g.head.Add(-i*bs, 0)
	}

	g.score = 0
	g.frame = 0
	g.food = g.place()
	g.bonus = g.place()
	g.hazard = g.place()
}

// place returns a uniformly random cell that is not covered by the
// snake
func (g *Game) place() environment.Point {
	cols := (g.Width-g.BlockSize)/g.BlockSize + 1
	rows := (g.Height-g.BlockSize)/g.BlockSize + 1

	for {
		p := environment.Point{
			X: g.rng.Intn(cols) * g.BlockSize,
			Y: g.rng.Intn(rows) * g.BlockSize,
		}
		if !g.onBody(p) {
			return p
		}
	}
}

// onBody returns whether p is covered by any segment of the snake
func (g *Game) onBody(p environment.Point) bool {
	for _, segment := range g.body {
		if segment == p {
			return true
		}
	}
	return false
}

// Step takes one action in the game and advances it a single frame
func (g *Game) Step(action mat.Vector) (float64, bool, int, error) {
	a, err := environment.ActionFromVector(action)
	if err != nil {
		return 0, false, g.score, err
	}
	g.frame++

	// Move the head and push it onto the body
	g.direction = g.direction.Turn(a)
	dx, dy := g.direction.Delta(g.BlockSize)
	g.head = g.head.Add(dx, dy)
	g.body = append([]environment.Point{g.head}, g.body...)

	defer g.pace()

	if g.IsCollision(g.head) || g.ender.End(g.frame, len(g.body)) {
		return g.Rewards.Collision, true, g.score, nil
	}

	var reward float64
	switch g.head {
	case g.food:
		g.score++
		reward = g.Rewards.Food
		g.food = g.place()

	case g.bonus:
		g.score += 2
		reward = g.Rewards.Bonus
		g.bonus = g.place()

	case g.hazard:
		reward = g.Rewards.Hazard
		g.body = g.body[:len(g.body)-1]
		g.hazard = g.place()

	default:
		g.body = g.body[:len(g.body)-1]
	}

	return reward, false, g.score, nil
}

// pace sleeps for the configured frame delay
func (g *Game) pace() {
	if g.FrameDelay > 0 {
		time.Sleep(g.FrameDelay)
	}
}

// IsCollision returns whether a head at p collides with a wall or with
// the body of the snake, excluding the head itself.
func (g *Game) IsCollision(p environment.Point) bool {
	return g.Observables().IsCollision(p)
}

// Observables returns a snapshot of the raw game state
func (g *Game) Observables() environment.Observables {
	body := make([]environment.Point, len(g.body))
	copy(body, g.body)

	return environment.Observables{
		Width:     g.Width,
		Height:    g.Height,
		BlockSize: g.BlockSize,
		Head:      g.head,
		Body:      body,
		Direction: g.direction,
		Food:      g.food,
		Bonus:     g.bonus,
		Hazard:    g.hazard,
	}
}

// Score returns the score of the current episode
func (g *Game) Score() int {
	return g.score
}

// Frame returns the number of frames played in the current episode
func (g *Game) Frame() int {
	return g.frame
}

// Len returns the current length of the snake
func (g *Game) Len() int {
	return len(g.body)
}

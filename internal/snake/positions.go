package snake

import (
	"math/rand"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// InitialLength is the number of segments a new snake starts with.
const InitialLength = 3

// Playable reports whether a grid fits a new snake lying horizontally with
// at least one free cell left for food.
func Playable(grid core.Grid) bool {
	return grid.Width >= InitialLength && grid.Area() > InitialLength
}

// initialSnakeSpan is the fraction of the grid width the starting head may
// be placed in, leaving room ahead of a right-facing snake.
const initialSnakeSpan = 0.8

// FoodSource picks the next food cell.
type FoodSource interface {
	RandomFoodCell(occupied []core.Cell, grid core.Grid) core.Cell
}

// Positions generates random grid coordinates from a seeded source.
// Two Positions with the same seed produce the same sequence.
type Positions struct {
	rng *rand.Rand
}

// NewPositions creates a generator seeded with seed.
func NewPositions(seed int64) *Positions {
	return &Positions{rng: rand.New(rand.NewSource(seed))}
}

// RandomCell samples a cell uniformly from the grid.
func (p *Positions) RandomCell(grid core.Grid) core.Cell {
	return core.Cell{
		X: p.scaled(grid.Width),
		Y: p.scaled(grid.Height),
	}
}

// RandomFoodCell resamples until it finds a cell that is not occupied.
// It never returns if occupied covers the entire grid.
func (p *Positions) RandomFoodCell(occupied []core.Cell, grid core.Grid) core.Cell {
	for {
		c := p.RandomCell(grid)
		if !Snake(occupied).Contains(c) {
			return c
		}
	}
}

// InitialSnake returns a three-segment snake lying horizontally and facing
// right. The head is placed in the left 80% of the grid and at least two
// cells from the left edge so the body fits. The grid must be Playable.
func (p *Positions) InitialSnake(grid core.Grid) Snake {
	head := core.Cell{
		X: int(p.rng.Float64() * float64(grid.Width) * initialSnakeSpan),
		Y: p.scaled(grid.Height),
	}
	head.X = core.Clamp(head.X, InitialLength-1, grid.Width-1)

	return Snake{
		head,
		{X: head.X - 1, Y: head.Y},
		{X: head.X - 2, Y: head.Y},
	}
}

// scaled returns floor(random * bound).
func (p *Positions) scaled(bound int) int {
	return int(p.rng.Float64() * float64(bound))
}

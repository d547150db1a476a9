// Package core provides fundamental types and utilities for the snake game.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "fmt"

// Cell is a discrete (x, y) coordinate on the playing grid.
type Cell struct {
	X, Y int
}

// String returns the cell as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the cell offset by one unit in the given direction.
// Up decreases Y, matching screen coordinates.
func (c Cell) Add(d Direction) Cell {
	switch d {
	case Up:
		return Cell{X: c.X, Y: c.Y - 1}
	case Down:
		return Cell{X: c.X, Y: c.Y + 1}
	case Left:
		return Cell{X: c.X - 1, Y: c.Y}
	case Right:
		return Cell{X: c.X + 1, Y: c.Y}
	}
	return c
}

// Grid is the discrete coordinate space in cells.
type Grid struct {
	Width, Height int
}

// GridFromCanvas derives the grid from a continuous canvas size and a fixed
// cell size. Partial cells at the right and bottom edges are dropped.
// A non-positive cell size yields an empty grid.
func GridFromCanvas(canvasW, canvasH, cellSize int) Grid {
	if cellSize <= 0 || canvasW <= 0 || canvasH <= 0 {
		return Grid{}
	}
	return Grid{
		Width:  canvasW / cellSize,
		Height: canvasH / cellSize,
	}
}

// Contains reports whether the cell lies inside the grid.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

// Area returns the number of cells in the grid.
func (g Grid) Area() int {
	return g.Width * g.Height
}

// Empty reports whether the grid has no cells.
func (g Grid) Empty() bool {
	return g.Width <= 0 || g.Height <= 0
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Package snake implements the Snake game engine: position generation,
// direction control, the pure step function, score tracking and the
// start/restart/game-over lifecycle.
//
// The package performs no I/O. Timers, rendering and persistence are reached
// through the Scheduler, Renderer and KeyValueStore interfaces.
package snake

import (
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// Snake is the ordered body of the snake, head at index 0.
type Snake []core.Cell

// Head returns the first segment. The snake must not be empty.
func (s Snake) Head() core.Cell {
	return s[0]
}

// Contains reports whether any segment occupies c.
func (s Snake) Contains(c core.Cell) bool {
	for _, seg := range s {
		if seg == c {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the body.
func (s Snake) Clone() Snake {
	if s == nil {
		return nil
	}
	out := make(Snake, len(s))
	copy(out, s)
	return out
}

// headHitsBody reports whether the head shares a cell with a later segment.
func (s Snake) headHitsBody() bool {
	if len(s) < 2 {
		return false
	}
	head := s[0]
	for _, seg := range s[1:] {
		if seg == head {
			return true
		}
	}
	return false
}

// Heading tracks the direction applied on the last step (Current) and the
// direction requested for the next one (Next).
type Heading struct {
	Current core.Direction
	Next    core.Direction
}

// NewHeading returns a heading with both fields set to d.
func NewHeading(d core.Direction) Heading {
	return Heading{Current: d, Next: d}
}

// GameState is the mutable bundle advanced by Step.
type GameState struct {
	Grid    core.Grid
	Snake   Snake
	Heading Heading
	Food    core.Cell
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	s.Snake = s.Snake.Clone()
	return s
}

// Phase is the lifecycle state of a game session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseGameOver
)

// String returns a lowercase name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of a session handed to renderers.
type Snapshot struct {
	Tick     uint64
	Phase    Phase
	Grid     core.Grid
	Snake    Snake
	Food     core.Cell
	Heading  core.Direction
	Score    int
	Best     int
	Interval time.Duration
}

// Package tui provides the Bubble Tea integration for the snake game.
// It handles the terminal UI loop, input mapping, rendering and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game step. Gen identifies the schedule that
// produced it; ticks from a replaced or stopped schedule are dropped.
type TickMsg struct {
	Gen  uint64
	Time time.Time
}

// tickCmd returns a Bubble Tea command that sends one tick message after interval.
func tickCmd(gen uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

// TickScheduler adapts Bubble Tea's one-shot tea.Tick to snake.Scheduler.
// The callback runs inside Update, so the game stays on the program's
// event loop. Not safe for concurrent use.
type TickScheduler struct {
	gen      uint64
	armed    bool
	interval time.Duration
	fn       func()
	pending  tea.Cmd
}

// NewTickScheduler creates a disarmed scheduler.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Arm replaces the current schedule. The first tick command is queued and
// must be collected with Take.
func (s *TickScheduler) Arm(interval time.Duration, fn func()) {
	s.gen++
	s.armed = true
	s.interval = interval
	s.fn = fn
	s.pending = tickCmd(s.gen, interval)
}

// Stop invalidates the current schedule.
func (s *TickScheduler) Stop() {
	s.gen++
	s.armed = false
	s.fn = nil
	s.pending = nil
}

// Take returns and clears the queued tick command, if any.
func (s *TickScheduler) Take() tea.Cmd {
	cmd := s.pending
	s.pending = nil
	return cmd
}

// Handle runs the callback for a current tick and returns the command for
// the next one. Stale ticks return nil.
func (s *TickScheduler) Handle(msg TickMsg) tea.Cmd {
	if !s.armed || msg.Gen != s.gen {
		return nil
	}
	s.fn()

	// The callback may have re-armed or stopped the schedule.
	if cmd := s.Take(); cmd != nil {
		return cmd
	}
	if s.armed && msg.Gen == s.gen {
		return tickCmd(s.gen, s.interval)
	}
	return nil
}

// Armed reports whether a schedule is active.
func (s *TickScheduler) Armed() bool {
	return s.armed
}

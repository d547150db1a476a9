package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapDirection(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Direction
		ok   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.Up, true},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.Down, true},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.Left, true},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.Right, true},
		{"w", runeKey('w'), core.Up, true},
		{"a", runeKey('a'), core.Left, true},
		{"s", runeKey('s'), core.Down, true},
		{"d", runeKey('d'), core.Right, true},
		{"k", runeKey('k'), core.Up, true},
		{"j", runeKey('j'), core.Down, true},
		{"h", runeKey('h'), core.Left, true},
		{"l", runeKey('l'), core.Right, true},
		{"x ignored", runeKey('x'), 0, false},
		{"enter ignored", tea.KeyMsg{Type: tea.KeyEnter}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keys.Direction(tt.msg)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("Direction(%q) = %v, %v; want %v, %v", tt.msg.String(), got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKeyMapSetPhase(t *testing.T) {
	keys := DefaultKeyMap()

	keys.SetPhase(snake.PhaseIdle)
	if !keys.Start.Enabled() || keys.Restart.Enabled() || !keys.NextDifficulty.Enabled() {
		t.Error("idle: want start and difficulty enabled, restart disabled")
	}

	keys.SetPhase(snake.PhaseRunning)
	if keys.Start.Enabled() || keys.Restart.Enabled() || keys.NextDifficulty.Enabled() {
		t.Error("running: want start, restart and difficulty disabled")
	}

	keys.SetPhase(snake.PhaseGameOver)
	if keys.Start.Enabled() || !keys.Restart.Enabled() || !keys.PrevDifficulty.Enabled() {
		t.Error("game over: want restart and difficulty enabled, start disabled")
	}
}

func TestTickSchedulerGenerations(t *testing.T) {
	s := NewTickScheduler()
	calls := 0

	if s.Take() != nil {
		t.Error("disarmed scheduler should have no pending command")
	}

	s.Arm(10*time.Millisecond, func() { calls++ })
	if s.Take() == nil {
		t.Fatal("Arm() should queue a tick command")
	}
	if s.Take() != nil {
		t.Error("Take() should clear the pending command")
	}

	first := s.gen
	if cmd := s.Handle(TickMsg{Gen: first}); cmd == nil {
		t.Error("current tick should schedule the next one")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	s.Arm(20*time.Millisecond, func() { calls += 10 })
	s.Take()
	if cmd := s.Handle(TickMsg{Gen: first}); cmd != nil {
		t.Error("stale tick should not schedule anything")
	}
	if calls != 1 {
		t.Errorf("stale tick ran a callback: calls = %d", calls)
	}

	s.Handle(TickMsg{Gen: s.gen})
	if calls != 11 {
		t.Errorf("calls = %d, want 11 after new schedule fired", calls)
	}

	gen := s.gen
	s.Stop()
	if s.Armed() {
		t.Error("Armed() after Stop()")
	}
	if cmd := s.Handle(TickMsg{Gen: gen}); cmd != nil || calls != 11 {
		t.Error("tick after Stop() should be dropped")
	}
}

func TestTickSchedulerStopFromCallback(t *testing.T) {
	s := NewTickScheduler()
	s.Arm(time.Millisecond, func() { s.Stop() })
	s.Take()

	if cmd := s.Handle(TickMsg{Gen: s.gen}); cmd != nil {
		t.Error("callback stopped the schedule; no next tick expected")
	}
}

// screenRow returns row y of s as plain text.
func screenRow(s *core.Screen, y int) string {
	var sb strings.Builder
	for x := 0; x < s.Width(); x++ {
		sb.WriteRune(s.GetCell(x, y).Rune)
	}
	return sb.String()
}

// screenText returns the whole screen as plain text, one line per row.
func screenText(s *core.Screen) string {
	rows := make([]string, s.Height())
	for y := range rows {
		rows[y] = screenRow(s, y)
	}
	return strings.Join(rows, "\n")
}

func TestHUDText(t *testing.T) {
	tests := []struct {
		name        string
		score, best int
		width       int
		left, right string
	}{
		{"wide", 3, 12, 40, " SCORE 3", "BEST 12 "},
		{"exact fit", 3, 12, 16, " SCORE 3", "BEST 12 "},
		{"narrow", 3, 12, 12, " S 3", "B 12 "},
		{"too narrow for best", 1234, 99999, 8, " S 1234", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := hudText(tt.score, tt.best, tt.width)
			if left != tt.left || right != tt.right {
				t.Errorf("hudText() = %q, %q; want %q, %q", left, right, tt.left, tt.right)
			}
		})
	}
}

func TestBoardDraw(t *testing.T) {
	b := NewBoard()
	b.Render(snake.Snapshot{
		Phase: snake.PhaseRunning,
		Grid:  core.Grid{Width: 5, Height: 4},
		Snake: snake.Snake{{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Food:  core.Cell{X: 4, Y: 3},
		Score: 3,
		Best:  12,
	})

	screen := b.Draw()
	w, h := BoardSize(core.Grid{Width: 5, Height: 4})
	if screen.Width() != w || screen.Height() != h {
		t.Fatalf("screen = %dx%d, want %dx%d", screen.Width(), screen.Height(), w, h)
	}

	// A 5-cell board is too narrow for the long labels.
	if row := screenRow(screen, 0); row != " S 3   B 12 " {
		t.Errorf("HUD row = %q, want %q", row, " S 3   B 12 ")
	}

	// Grid cell (x, y) is drawn at column 1+2x, row 2+y.
	head := screen.GetCell(1+2*2, 2+1)
	if head.Rune != glyphHead || head.Color != core.ColorBrightGreen {
		t.Errorf("head cell = %+v", head)
	}
	body := screen.GetCell(1+2*0, 2+1)
	if body.Rune != glyphBody || body.Color != core.ColorGreen {
		t.Errorf("tail cell = %+v", body)
	}
	food := screen.GetCell(1+2*4, 2+3)
	if food.Rune != glyphFood || food.Color != core.ColorRed {
		t.Errorf("food cell = %+v", food)
	}

	if screen.GetCell(0, 1).Rune != '┌' || screen.GetCell(w-1, h-1).Rune != '┘' {
		t.Error("playfield border missing")
	}
}

func TestBoardOverlay(t *testing.T) {
	b := NewBoard()
	snap := snake.Snapshot{
		Phase: snake.PhaseGameOver,
		Grid:  core.Grid{Width: 20, Height: 10},
		Snake: snake.Snake{{X: 1, Y: 1}},
		Score: 7,
	}
	b.Render(snap)

	out := screenText(b.Draw())
	if !strings.Contains(out, "GAME OVER") || !strings.Contains(out, "score 7") {
		t.Errorf("game over overlay missing:\n%s", out)
	}
	if row := screenRow(b.Draw(), 0); !strings.HasPrefix(row, " SCORE 7") || !strings.HasSuffix(row, "BEST 0 ") {
		t.Errorf("HUD row = %q", row)
	}

	snap.Phase = snake.PhaseRunning
	b.Render(snap)
	if strings.Contains(screenText(b.Draw()), "GAME OVER") {
		t.Error("overlay should be hidden while running")
	}
}

func newTestModel(t *testing.T) (Model, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	f := &session.Factory{
		Config:  config.Default(),
		Store:   store,
		History: store,
		Seed:    11,
	}
	m, err := NewModel(Options{Factory: f, Scores: store, Width: 200, Height: 100})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm, cmd
}

func TestModelIdleView(t *testing.T) {
	m, _ := newTestModel(t)

	if m.Phase() != snake.PhaseIdle {
		t.Fatalf("phase = %s, want idle", m.Phase())
	}
	if m.Init() != nil {
		t.Error("Init() should not start ticking before the player starts")
	}

	view := m.View()
	for _, want := range []string{"press enter to start", "difficulty:", "normal"} {
		if !strings.Contains(view, want) {
			t.Errorf("idle view missing %q", want)
		}
	}
}

func TestModelDifficultyChange(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.preset != config.PresetHard || m.ctrl.Interval() != 60*time.Millisecond {
		t.Errorf("after tab: preset %s interval %v; want hard 60ms", m.preset, m.ctrl.Interval())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.preset != config.PresetEasy || m.ctrl.Interval() != 150*time.Millisecond {
		t.Errorf("after two shift+tab: preset %s interval %v; want easy 150ms", m.preset, m.ctrl.Interval())
	}
}

func TestModelPlayToGameOver(t *testing.T) {
	m, store := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("starting the game should schedule a tick")
	}
	if m.Phase() != snake.PhaseRunning {
		t.Fatalf("phase = %s, want running", m.Phase())
	}
	if strings.Contains(m.View(), "difficulty:") {
		t.Error("difficulty controls should be hidden while running")
	}

	// Difficulty keys are ignored mid-game.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.preset != config.PresetNormal {
		t.Errorf("preset changed while running: %s", m.preset)
	}

	for i := 0; i < 1000 && m.Phase() == snake.PhaseRunning; i++ {
		m, _ = update(t, m, TickMsg{Gen: m.sched.gen})
	}
	if m.Phase() != snake.PhaseGameOver {
		t.Fatalf("phase = %s, want game_over", m.Phase())
	}

	view := m.View()
	if !strings.Contains(view, "GAME OVER") {
		t.Error("game over view missing overlay")
	}
	if !strings.Contains(view, "local") {
		t.Error("game over view should list the recorded game")
	}

	games, err := store.TopGames(10)
	if err != nil || len(games) != 1 {
		t.Fatalf("TopGames() = %v, %v; want one game", games, err)
	}

	m, cmd = update(t, m, runeKey('r'))
	if m.Phase() != snake.PhaseRunning || cmd == nil {
		t.Errorf("restart: phase %s cmd %v", m.Phase(), cmd)
	}
}

func TestModelDropsStaleTicks(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	before := m.board.Snapshot().Tick
	m, cmd := update(t, m, TickMsg{Gen: m.sched.gen + 1})
	if cmd != nil || m.board.Snapshot().Tick != before {
		t.Error("tick from another generation should be ignored")
	}

	m, _ = update(t, m, TickMsg{Gen: m.sched.gen})
	if m.board.Snapshot().Tick != before+1 {
		t.Errorf("tick = %d, want %d", m.board.Snapshot().Tick, before+1)
	}
}

func TestModelTurn(t *testing.T) {
	m, _ := newTestModel(t)
	head := m.board.Snapshot().Snake.Head()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, TickMsg{Gen: m.sched.gen})

	got := m.board.Snapshot().Snake.Head()
	if got != (core.Cell{X: head.X, Y: head.Y + 1}) {
		t.Errorf("head = %v, want %v moved down", got, head)
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Error("quit should return tea.Quit")
	}
	if m.sched.Armed() {
		t.Error("quit should stop the tick schedule")
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestModelTerminalTooSmall(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})

	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("expected a resize hint on a small terminal")
	}
}

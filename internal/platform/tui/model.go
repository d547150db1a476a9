package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	presetStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Options configures a Model.
type Options struct {
	Factory *session.Factory
	Player  string        // empty for local play
	Preset  config.Preset // empty uses the configured default
	Scores  ScoreLister   // optional; feeds the game-over table
	Width   int
	Height  int
}

// Model is the Bubble Tea model for one snake session.
type Model struct {
	ctrl   *snake.Controller
	sched  *TickScheduler
	board  *Board
	cfg    config.Config
	preset config.Preset
	keys   KeyMap
	help   help.Model
	scores ScoreLister
	table  table.Model
	top    []storage.GameRecord

	width    int
	height   int
	quitting bool
}

// NewModel creates an idle session model.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Factory.Config
	preset := opts.Preset
	if preset == "" {
		preset = config.Preset(cfg.Difficulty.Default)
	}

	sched := NewTickScheduler()
	board := NewBoard()
	ctrl, err := opts.Factory.New(session.Game{
		Player:    opts.Player,
		Preset:    preset,
		Scheduler: sched,
		Renderer:  board,
	})
	if err != nil {
		return Model{}, err
	}
	ctrl.Render()

	m := Model{
		ctrl:   ctrl,
		sched:  sched,
		board:  board,
		cfg:    cfg,
		preset: preset,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		scores: opts.Scores,
		table:  newScoreTable(opts.Width),
		width:  opts.Width,
		height: opts.Height,
	}
	m.help.Width = opts.Width
	m.keys.SetPhase(ctrl.Phase())
	return m, nil
}

// Init waits for the player to start.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.sched.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Start):
		m.ctrl.Start()

	case key.Matches(msg, m.keys.Restart):
		m.ctrl.Restart()

	case key.Matches(msg, m.keys.NextDifficulty):
		m.setPreset(m.cfg.NextPreset(m.preset))

	case key.Matches(msg, m.keys.PrevDifficulty):
		m.setPreset(m.cfg.PrevPreset(m.preset))

	default:
		if d, ok := m.keys.Direction(msg); ok {
			m.ctrl.Turn(d)
		}
	}

	m.keys.SetPhase(m.ctrl.Phase())
	return m, m.sched.Take()
}

// setPreset changes the difficulty for the next game.
func (m *Model) setPreset(p config.Preset) {
	interval, err := m.cfg.IntervalFor(p)
	if err != nil {
		return
	}
	m.preset = p
	m.ctrl.SetInterval(interval)
	m.ctrl.Render()
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.table = newScoreTable(msg.Width)
	m.table.SetRows(scoreRows(m.top))
	return m, nil
}

// handleTick advances the game on a current tick.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	before := m.ctrl.Phase()
	cmd := m.sched.Handle(msg)

	if before == snake.PhaseRunning && m.ctrl.Phase() == snake.PhaseGameOver {
		m.loadTopGames()
		m.keys.SetPhase(snake.PhaseGameOver)
	}
	return m, cmd
}

// loadTopGames refreshes the game-over table.
func (m *Model) loadTopGames() {
	if m.scores == nil {
		return
	}
	games, err := m.scores.TopGames(maxTopGames)
	if err != nil {
		m.top = nil
	} else {
		m.top = games
	}
	m.table.SetRows(scoreRows(m.top))
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.board.Snapshot()
	needW, needH := BoardSize(snap.Grid)
	if m.width > 0 && m.height > 0 && (m.width < needW || m.height < needH) {
		return warnStyle.Render(fmt.Sprintf(
			"Terminal too small: need %dx%d, have %dx%d.\nResize or lower board size in the config. Press q to quit.",
			needW, needH, m.width, m.height))
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.board.Draw()))
	b.WriteString("\n")

	// Start and difficulty controls are only shown between games
	if snap.Phase != snake.PhaseRunning {
		b.WriteString(statusStyle.Render("difficulty: "))
		b.WriteString(presetStyle.Render(string(m.preset)))
		b.WriteString(statusStyle.Render(fmt.Sprintf(" (%dms)", snap.Interval.Milliseconds())))
		b.WriteString("\n")
	}

	if snap.Phase == snake.PhaseGameOver && len(m.top) > 0 {
		b.WriteString("\n")
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Phase returns the lifecycle phase of the session.
func (m Model) Phase() snake.Phase {
	return m.ctrl.Phase()
}

// Run starts the Bubble Tea program with a new model.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}

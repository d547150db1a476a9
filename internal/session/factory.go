package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// LocalPlayer is the history name of games played in a local terminal.
// Remote players cannot take it, so its best score can live in the base slot.
const LocalPlayer = "local"

// ReservedPlayer reports whether a remote player may not use name.
func ReservedPlayer(name string) bool {
	return strings.EqualFold(name, LocalPlayer)
}

// ResultSaver records finished games.
// This allows sessions to save history without depending on a concrete store.
type ResultSaver interface {
	SaveGame(g storage.GameRecord) (int64, error)
}

// Factory creates game controllers that share one configuration, best-score
// store and history.
type Factory struct {
	Config  config.Config
	Store   snake.KeyValueStore // nil disables best-score persistence
	History ResultSaver         // nil disables history
	Logger  snake.Logger        // optional

	// Seed fixes the RNG seed of every new session. Zero seeds from the clock.
	Seed int64
}

// Game describes one session to create.
type Game struct {
	Player    string
	Preset    config.Preset // empty uses the configured default
	Scheduler snake.Scheduler
	Renderer  snake.Renderer

	// OnGameOver runs after the result has been recorded.
	OnGameOver func(snake.Result)
}

// New creates an idle controller for g.
// Returns an error if the preset is unknown, the player name is reserved or
// the board is too small to play on.
func (f *Factory) New(g Game) (*snake.Controller, error) {
	if ReservedPlayer(g.Player) {
		return nil, fmt.Errorf("session: player name %q is reserved", g.Player)
	}
	grid := f.Config.Board.Grid()
	if !snake.Playable(grid) {
		return nil, fmt.Errorf("session: board %dx%d is too small", grid.Width, grid.Height)
	}
	preset := g.Preset
	if preset == "" {
		preset = config.Preset(f.Config.Difficulty.Default)
	}
	interval, err := f.Config.IntervalFor(preset)
	if err != nil {
		return nil, err
	}

	seed := f.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	key := snake.PlayerBestScoreKey(f.Config.Storage.BestScoreKey, g.Player)

	return snake.NewController(snake.Options{
		Grid:      grid,
		Interval:  interval,
		Scheduler: g.Scheduler,
		Positions: snake.NewPositions(seed),
		Tracker:   snake.NewScoreTracker(f.Store, key),
		Renderer:  g.Renderer,
		Logger:    f.Logger,
		OnGameOver: func(res snake.Result) {
			f.record(g.Player, res)
			if g.OnGameOver != nil {
				g.OnGameOver(res)
			}
		},
	}), nil
}

func (f *Factory) record(player string, res snake.Result) {
	if f.History == nil {
		return
	}
	if player == "" {
		player = LocalPlayer
	}
	_, err := f.History.SaveGame(storage.GameRecord{
		Player:   player,
		Score:    res.Score,
		Length:   res.Length,
		Interval: res.Interval,
		Duration: res.Duration,
	})
	if err != nil && f.Logger != nil {
		f.Logger.Warn("could not record game", "player", player, "error", err)
	}
}

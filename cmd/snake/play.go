package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Arrows/WASD/hjkl  - Steer
  Enter/Space       - Start
  R                 - Restart (after game over)
  Tab/Shift+Tab     - Change difficulty (between games)
  ?                 - Toggle help
  Q/Esc/Ctrl+C      - Quit

Difficulty presets (step interval, configurable):
  easy   - 150ms
  normal - 100ms
  hard   - 60ms

Examples:
  snake play
  snake play --difficulty hard
  snake play --config ./my-snake.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset (default from config)")
}

func runPlay(_ *cobra.Command, _ []string) {
	preset := config.ParsePreset(flagDifficulty)
	if preset != "" {
		if _, err := appConfig.IntervalFor(preset); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// The alt screen owns stdout, so log to a file.
	logOut, closeLog := openLogFile(config.ExpandHome(appConfig.Log.File))
	defer closeLog()
	logger := newLogger(logOut, "snake")

	factory := &session.Factory{
		Config: appConfig,
		Logger: logger,
		Seed:   flagSeed,
	}
	opts := tui.Options{Factory: factory, Preset: preset}

	store, err := openStore()
	if err != nil {
		// Continue without history; best score lives for this process only
		logger.Warn("could not open scores database", "error", err)
		factory.Store = storage.NewMemoryStore()
	} else {
		defer store.Close()
		factory.Store = store
		factory.History = store
		opts.Scores = store
	}

	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		opts.Width, opts.Height = w, h
	}

	if err := tui.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openLogFile opens path for appending. Logging is discarded if the file
// cannot be opened.
func openLogFile(path string) (io.Writer, func()) {
	if path == "" {
		return io.Discard, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

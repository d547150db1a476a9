// Package config provides YAML-based configuration loading and
// difficulty presets for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

// Config is the full application configuration.
type Config struct {
	Board      BoardConfig      `yaml:"board"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// BoardConfig describes the playfield. The grid is derived as
// canvas size divided by cell size.
type BoardConfig struct {
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`
	CellSize     int `yaml:"cell_size"`
}

// DifficultyConfig selects the step interval.
type DifficultyConfig struct {
	Default string         `yaml:"default"`
	Presets map[string]int `yaml:"presets"` // preset name -> interval in milliseconds
}

// StorageConfig controls persistence.
type StorageConfig struct {
	DBPath       string `yaml:"db_path"`
	BestScoreKey string `yaml:"best_score_key"`
}

// ServerConfig controls the SSH and HTTP servers.
type ServerConfig struct {
	SSHAddr        string        `yaml:"ssh_addr"`
	HTTPAddr       string        `yaml:"http_addr"`
	HostKeyPath    string        `yaml:"host_key_path"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // used by the local TUI only
}

// Grid returns the playfield grid in cells.
func (b BoardConfig) Grid() core.Grid {
	return core.GridFromCanvas(b.CanvasWidth, b.CanvasHeight, b.CellSize)
}

// Interval returns the step interval for the configured default preset.
func (c Config) Interval() (time.Duration, error) {
	return c.IntervalFor(Preset(c.Difficulty.Default))
}

// IntervalFor returns the step interval of a named preset.
func (c Config) IntervalFor(p Preset) (time.Duration, error) {
	ms, ok := c.Difficulty.Presets[string(p)]
	if !ok {
		return 0, fmt.Errorf("config: unknown difficulty %q", p)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("config: difficulty %q has non-positive interval %d", p, ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if c.Board.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("board.cell_size must be positive, got %d", c.Board.CellSize))
	}
	if c.Board.CanvasWidth <= 0 || c.Board.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("board canvas must be positive, got %dx%d",
			c.Board.CanvasWidth, c.Board.CanvasHeight))
	}
	if g := c.Board.Grid(); c.Board.CellSize > 0 && g.Empty() {
		errs = append(errs, errors.New("board canvas is smaller than one cell"))
	} else if c.Board.CellSize > 0 && !snake.Playable(g) {
		errs = append(errs, fmt.Errorf("board grid %dx%d is too small for a snake and food (need width >= %d and more than %d cells)",
			g.Width, g.Height, snake.InitialLength, snake.InitialLength))
	}
	if len(c.Difficulty.Presets) == 0 {
		errs = append(errs, errors.New("difficulty.presets is empty"))
	}
	for name, ms := range c.Difficulty.Presets {
		if ms <= 0 {
			errs = append(errs, fmt.Errorf("difficulty preset %q has non-positive interval %d", name, ms))
		}
	}
	if _, ok := c.Difficulty.Presets[c.Difficulty.Default]; !ok {
		errs = append(errs, fmt.Errorf("difficulty.default %q is not a preset", c.Difficulty.Default))
	}
	if c.Server.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.idle_timeout must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

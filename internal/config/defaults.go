package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// Default returns the hardcoded configuration. It matches
// defaults/snake.yaml and is used when the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Board: BoardConfig{
			CanvasWidth:  400,
			CanvasHeight: 400,
			CellSize:     10,
		},
		Difficulty: DifficultyConfig{
			Default: string(PresetNormal),
			Presets: map[string]int{
				string(PresetEasy):   150,
				string(PresetNormal): 100,
				string(PresetHard):   60,
			},
		},
		Storage: StorageConfig{
			DBPath:       "~/.snake/snake.db",
			BestScoreKey: "best-score",
		},
		Server: ServerConfig{
			SSHAddr:     ":23234",
			HTTPAddr:    ":8080",
			HostKeyPath: ".ssh/snake_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.snake/snake.log",
		},
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the YAML configuration.
const (
	EnvDBPath     = "SNAKE_DB"
	EnvLogLevel   = "SNAKE_LOG_LEVEL"
	EnvDifficulty = "SNAKE_DIFFICULTY"
	EnvSSHAddr    = "SNAKE_SSH_ADDR"
	EnvHTTPAddr   = "SNAKE_HTTP_ADDR"
)

// Load loads the snake configuration.
// Search order: customPath -> ~/.snake/config.yaml -> ./configs/snake.yaml -> embedded default.
// The chosen file is layered over the embedded defaults, so it only needs the
// keys it changes. Environment overrides are applied last and the result is
// validated.
func Load(customPath string) (Config, error) {
	cfg := embeddedDefault()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
	} else {
		loadFirst(&cfg, userConfigPath("config.yaml"), filepath.Join("configs", "snake.yaml"))
	}

	applyEnv(&cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFirst layers the first readable and parseable file over cfg.
func loadFirst(cfg *Config, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		next := *cfg
		next.Difficulty.Presets = clonePresets(cfg.Difficulty.Presets)
		if err := yaml.Unmarshal(data, &next); err == nil {
			*cfg = next
			return
		}
	}
}

func embeddedDefault() Config {
	cfg := Default()
	if err := yaml.Unmarshal(defaultSnakeYAML, &cfg); err != nil {
		return Default() // Fallback to hardcoded if embed fails
	}
	return cfg
}

func clonePresets(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDBPath); ok && v != "" {
		cfg.Storage.DBPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvDifficulty); ok && v != "" {
		cfg.Difficulty.Default = string(ParsePreset(v))
	}
	if v, ok := lookup(EnvSSHAddr); ok && v != "" {
		cfg.Server.SSHAddr = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		cfg.Server.HTTPAddr = v
	}
}

// LoadDotEnv loads environment files into the process environment.
// Variables already set are not overwritten and missing files are skipped.
// With no paths it loads ./.env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

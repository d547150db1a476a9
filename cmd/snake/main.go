// snake is the classic snake game for the terminal, SSH and the browser.
//
// Usage:
//
//	snake play               - Play in this terminal
//	snake serve              - Serve the game over SSH and HTTP/WebSocket
//	snake scores             - Show best score and finished games
//	snake config             - Print the effective configuration
//
// Global flags:
//
//	--config <path> - Config file (default: ~/.snake/config.yaml, ./configs/snake.yaml)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.snake/snake.db)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagConfig string
	flagSeed   int64
	flagDBPath string

	// appConfig is loaded before every command runs.
	appConfig config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal and browser",
	Long: `Snake steers a growing snake around a walled grid. Eating food
grows the snake and scores a point; hitting a wall or the body ends the game.

Available commands:
  play     - Play in this terminal
  serve    - Serve the game over SSH and HTTP/WebSocket
  scores   - Show best score and finished games
  config   - Print the effective configuration

Examples:
  snake play
  snake play --difficulty hard
  snake serve --ssh :2222 --http :8080
  snake scores --limit 20`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads .env, the YAML config and flag overrides into appConfig.
func loadConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}

	appConfig = cfg
	return nil
}

// newLogger creates a component logger at the configured level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(appConfig.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", appConfig.Log.Level)
	}
	return logger
}

// openStore opens the configured database.
func openStore() (*storage.Store, error) {
	return storage.Open(appConfig.Storage.DBPath)
}

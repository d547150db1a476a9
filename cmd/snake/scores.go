package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagLimit  int
	flagPlayer string
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show best score and finished games",
	Long: `Display the best score and the top finished games.

With --player, shows that player's best score, statistics and recent games.
Local games are recorded as player "local"; SSH games use the SSH user name.

Examples:
  snake scores
  snake scores --limit 20
  snake scores --player alice
  snake scores --player alice --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of games to show")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Show one player's games")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the game history of --player")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if flagPlayer == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear requires --player")
			os.Exit(1)
		}
		if err := store.ClearGames(flagPlayer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared game history of %s\n", flagPlayer)
		return
	}

	// The local player shares the base best-score slot.
	slotPlayer := flagPlayer
	if slotPlayer == session.LocalPlayer {
		slotPlayer = ""
	}
	key := snake.PlayerBestScoreKey(appConfig.Storage.BestScoreKey, slotPlayer)
	best := 0
	if raw, ok, err := store.Get(key); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading best score: %v\n", err)
		os.Exit(1)
	} else if ok {
		best = snake.ParseBestScore(raw)
	}

	var games []storage.GameRecord
	if flagPlayer != "" {
		games, err = store.RecentGames(flagPlayer, flagLimit)
	} else {
		games, err = store.TopGames(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
		os.Exit(1)
	}

	if flagPlayer != "" {
		fmt.Printf("Recent Games - %s\n", flagPlayer)
	} else {
		fmt.Println("Top Games")
	}
	fmt.Printf("Best: %d\n", best)
	fmt.Println()

	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-6s  %-6s  %-8s  %-8s  %s\n", "Rank", "Player", "Score", "Length", "Speed", "Time", "Date")
	fmt.Printf("  %-4s  %-12s  %-6s  %-6s  %-8s  %-8s  %s\n", "----", "------", "-----", "------", "-----", "----", "----")

	for i, g := range games {
		fmt.Printf("  %-4d  %-12s  %-6d  %-6d  %-8s  %-8s  %s\n",
			i+1, g.Player, g.Score, g.Length,
			g.Interval.String(), g.Duration.Round(100*time.Millisecond).String(),
			g.CreatedAt.Format("2006-01-02 15:04"))
	}

	if flagPlayer != "" {
		stats, err := store.PlayerStats(flagPlayer)
		if err == nil && stats.GamesCount > 0 {
			fmt.Println()
			fmt.Printf("Games: %d  High: %d  Average: %.1f  Last played: %s\n",
				stats.GamesCount, stats.HighScore, stats.AvgScore,
				stats.LastPlayed.Format("2006-01-02 15:04"))
		}
	}
}

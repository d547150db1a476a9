package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/storage"
)

// maxTopGames is how many finished games the game-over table lists.
const maxTopGames = 5

// ScoreLister returns the best finished games.
type ScoreLister interface {
	TopGames(limit int) ([]storage.GameRecord, error)
}

// newScoreTable creates the game-over table of top games.
func newScoreTable(width int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 12},
		{Title: "Score", Width: 6},
		{Title: "Length", Width: 6},
		{Title: "Date", Width: 12},
	}

	// Give spare width to the player column
	if extra := width - 4 - tableWidth(columns); extra > 0 {
		columns[1].Width += min(extra, 12)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(maxTopGames+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func tableWidth(columns []table.Column) int {
	w := 0
	for _, c := range columns {
		w += c.Width + 2 // cell padding
	}
	return w
}

// scoreRows converts game records to table rows.
func scoreRows(games []storage.GameRecord) []table.Row {
	rows := make([]table.Row, len(games))
	for i, g := range games {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			g.Player,
			fmt.Sprintf("%d", g.Score),
			fmt.Sprintf("%d", g.Length),
			g.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

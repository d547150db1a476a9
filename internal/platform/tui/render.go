package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/snake"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorWhite:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Board layout: one HUD row above a bordered playfield. Each grid cell is
// two terminal columns wide so cells look square.
const (
	cellWidth = 2
	hudRows   = 1
)

const (
	glyphHead = '█'
	glyphBody = '▓'
	glyphFood = '●'
)

// Board is the terminal renderer. It implements snake.Renderer by keeping
// the latest snapshot and draws it onto a core.Screen on demand.
type Board struct {
	screen *core.Screen
	snap   snake.Snapshot
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{screen: core.NewScreen(0, 0)}
}

// Render stores the snapshot for the next Draw.
func (b *Board) Render(s snake.Snapshot) {
	b.snap = s
}

// Snapshot returns the last rendered snapshot.
func (b *Board) Snapshot() snake.Snapshot {
	return b.snap
}

// BoardSize returns the terminal size needed to draw grid.
func BoardSize(grid core.Grid) (w, h int) {
	return grid.Width*cellWidth + 2, grid.Height + 2 + hudRows
}

// Draw paints the last snapshot and returns the screen.
func (b *Board) Draw() *core.Screen {
	s := b.snap
	w, h := BoardSize(s.Grid)
	if b.screen.Width() != w || b.screen.Height() != h {
		b.screen.Resize(w, h)
	}
	b.screen.Clear()

	b.drawHUD(w)
	b.screen.DrawBox(0, hudRows, w, s.Grid.Height+2, core.ColorGray)

	b.drawCell(s.Food, glyphFood, core.ColorRed)
	for i, c := range s.Snake {
		if i == 0 {
			continue
		}
		b.drawCell(c, glyphBody, core.ColorGreen)
	}
	if len(s.Snake) > 0 {
		b.drawCell(s.Snake.Head(), glyphHead, core.ColorBrightGreen)
	}

	switch s.Phase {
	case snake.PhaseIdle:
		b.drawOverlay(core.ColorWhite, "S N A K E", "", "press enter to start")
	case snake.PhaseGameOver:
		b.drawOverlay(core.ColorYellow, "GAME OVER", fmt.Sprintf("score %d", s.Score), "press r to restart")
	}

	return b.screen
}

func (b *Board) drawHUD(w int) {
	left, right := hudText(b.snap.Score, b.snap.Best, w)
	b.screen.DrawTextColored(0, 0, left, core.ColorWhite)
	if right != "" {
		b.screen.DrawTextColored(w-len(right), 0, right, core.ColorYellow)
	}
}

// hudText picks score and best labels that fit side by side in w columns,
// shortening them on narrow boards and dropping the best score last.
func hudText(score, best, w int) (left, right string) {
	left, right = fmt.Sprintf(" SCORE %d", score), fmt.Sprintf("BEST %d ", best)
	if len(left)+len(right) <= w {
		return left, right
	}
	left, right = fmt.Sprintf(" S %d", score), fmt.Sprintf("B %d ", best)
	if len(left)+len(right) <= w {
		return left, right
	}
	return left, ""
}

func (b *Board) drawCell(c core.Cell, glyph rune, color core.Color) {
	if !b.snap.Grid.Contains(c) {
		return
	}
	x, y := 1+c.X*cellWidth, hudRows+1+c.Y
	for i := 0; i < cellWidth; i++ {
		r := glyph
		if glyph == glyphFood && i > 0 {
			r = ' '
		}
		b.screen.SetColored(x+i, y, r, color)
	}
}

// drawOverlay centers lines in the playfield.
func (b *Board) drawOverlay(color core.Color, lines ...string) {
	top := hudRows + 1 + (b.snap.Grid.Height-len(lines))/2
	for i, line := range lines {
		if line != "" {
			b.screen.DrawTextCentered(top+i, line, color)
		}
	}
}

package core

// Color represents a foreground color for a screen cell.
// Renderers map it to terminal or browser colors.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorGreen
	ColorBrightGreen
	ColorRed
	ColorYellow
	ColorGray
	ColorWhite
)

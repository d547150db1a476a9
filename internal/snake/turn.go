package snake

import "github.com/vovakirdan/tui-snake/internal/core"

// RequestTurn returns the heading to store in h.Next after a directional
// input. A request that would reverse h.Current (or is not a valid heading)
// leaves the pending value unchanged.
func RequestTurn(h Heading, requested core.Direction) core.Direction {
	if !requested.Valid() || requested.IsOpposite(h.Current) {
		return h.Next
	}
	return requested
}

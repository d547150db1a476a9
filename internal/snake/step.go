package snake

// StepResult is the outcome of advancing a game by one tick.
type StepResult struct {
	State    GameState
	Ate      bool // head landed on the food; the snake grew by one
	Collided bool // head left the grid or hit the body; the session is over
}

// Step advances the game by one tick. The move is always committed: the
// returned state contains the new head even when Collided is set, so the
// fatal move can be shown before the session ends.
//
// The direction is latched before food and collision checks so a turn
// requested during this tick takes effect on this tick. Step does not modify
// the input snake; the returned state owns a fresh slice.
func Step(state GameState, foods FoodSource) StepResult {
	if len(state.Snake) == 0 {
		return StepResult{State: state, Collided: true}
	}

	head := state.Snake.Head().Add(state.Heading.Next)

	moved := make(Snake, 0, len(state.Snake)+1)
	moved = append(moved, head)
	moved = append(moved, state.Snake...)

	state.Heading.Current = state.Heading.Next

	ate := head == state.Food
	if ate {
		// Keep the tail; the snake grows into the food cell.
		state.Snake = moved
		state.Food = foods.RandomFoodCell(moved, state.Grid)
	} else {
		state.Snake = moved[:len(moved)-1]
	}

	collided := !state.Grid.Contains(head) || state.Snake.headHitsBody()

	return StepResult{
		State:    state,
		Ate:      ate,
		Collided: collided,
	}
}

package game

// AppState is the top-level application state.
type AppState int

const (
	StateMenu AppState = iota
	StatePlaying
	StateGameOver
)

func (s AppState) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "play"
	case StateGameOver:
		return "game-over"
	}
	return "unknown"
}

// ParseState maps a start-scene name from the config to a state. Unknown
// names start at the menu.
func ParseState(name string) AppState {
	switch name {
	case "play", "playing":
		return StatePlaying
	case "game-over", "gameover":
		return StateGameOver
	}
	return StateMenu
}

// Transition is the side effect of a state change.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionStart
	TransitionEnd
	TransitionRestart
	TransitionQuit
)

// Step returns the next state given this frame's confirm (Enter) and back
// (Escape) presses. Back wins when both arrive in the same frame.
func Step(s AppState, confirm, back bool) (AppState, Transition) {
	switch s {
	case StateMenu:
		if back {
			return s, TransitionQuit
		}
		if confirm {
			return StatePlaying, TransitionStart
		}
	case StatePlaying:
		if back {
			return StateGameOver, TransitionEnd
		}
	case StateGameOver:
		if back {
			return s, TransitionQuit
		}
		if confirm {
			return StatePlaying, TransitionRestart
		}
	}
	return s, TransitionNone
}

// banner returns the overlay lines shown in a state.
func banner(s AppState) []string {
	switch s {
	case StateMenu:
		return []string{"runner3d", "Enter: start", "Esc: quit"}
	case StateGameOver:
		return []string{"Game over", "Enter: restart", "Esc: quit"}
	}
	return nil
}

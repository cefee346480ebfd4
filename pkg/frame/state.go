package frame

import "strconv"

// Reduce applies one action to the previous state.
func Reduce(state ViewState, action Action) ViewState {
	active := defaultActiveControl
	if action.ButtonIndex > 0 {
		active = strconv.Itoa(action.ButtonIndex)
	}
	return ViewState{
		Active:             active,
		TotalButtonPresses: state.TotalButtonPresses + 1,
	}
}

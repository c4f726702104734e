package dialogue

// State is the dialogue position of one conversation session. Question
// turns are transparent: they produce an answer without changing state,
// so they need no state value of their own.
type State int

const (
	StateGreeting State = iota
	StateCollectingItems
	StateCollectingQuantities
	StateCollectingName
	StateConfirming
	StateHandlingComplaint
	StateHumanHandoff
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateGreeting:
		return "greeting"
	case StateCollectingItems:
		return "collecting_items"
	case StateCollectingQuantities:
		return "collecting_quantities"
	case StateCollectingName:
		return "collecting_name"
	case StateConfirming:
		return "confirming"
	case StateHandlingComplaint:
		return "handling_complaint"
	case StateHumanHandoff:
		return "human_handoff"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Terminal reports whether the session has stopped driving the call.
func (s State) Terminal() bool {
	return s == StateClosed || s == StateHumanHandoff
}

// collectionState reports whether the session is mid-order, where turns
// are treated as order input regardless of the classified intent.
func collectionState(s State) bool {
	switch s {
	case StateCollectingItems, StateCollectingQuantities, StateCollectingName, StateConfirming:
		return true
	}
	return false
}

package csvimport

import "fmt"

// State is a step of the import workflow.
type State string

const (
	StateIdle      State = "idle"
	StateParsing   State = "parsing"
	StateMapping   State = "mapping"
	StateReady     State = "ready"
	StateImporting State = "importing"
	StateDone      State = "done"
	StateError     State = "error"
)

var transitions = map[State][]State{
	StateIdle:      {StateParsing},
	StateParsing:   {StateMapping, StateReady, StateError},
	StateMapping:   {StateMapping, StateReady, StateError, StateIdle},
	StateReady:     {StateImporting, StateMapping, StateIdle},
	StateImporting: {StateDone, StateError},
	StateError:     {StateIdle, StateParsing, StateMapping},
	StateDone:      {StateIdle},
}

// CanTransition reports whether the workflow may move from s to next.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionError is returned for a move the workflow does not allow.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid import transition %s -> %s", e.From, e.To)
}

// Machine tracks the current state of one import.
type Machine struct {
	state State
}

// NewMachine returns a machine in the idle state.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Transition moves to next or leaves the state untouched and returns a
// *TransitionError.
func (m *Machine) Transition(next State) error {
	if !m.state.CanTransition(next) {
		return &TransitionError{From: m.state, To: next}
	}
	m.state = next
	return nil
}

// Messages attached to a classified parse.
const (
	MessageNoValidRows   = "no valid rows found in the file."
	MessageRowErrors     = "some rows are invalid; fix the file or the mapping."
	MessageReviewMapping = "check the column mapping before importing."
	MessageReady         = "ready to import."
)

// Classify picks the state an import lands in once parsing is over.
func Classify(result Result, needsReview []Field) (State, string) {
	switch {
	case len(result.Records) == 0 && len(result.Errors) == 0:
		return StateError, MessageNoValidRows
	case result.Empty():
		return StateError, MessageEmptyFile
	case result.Structural():
		return StateMapping, result.Errors[0].Message
	case len(result.Errors) > 0:
		return StateError, MessageRowErrors
	case len(needsReview) > 0:
		return StateMapping, MessageReviewMapping
	}
	return StateReady, MessageReady
}

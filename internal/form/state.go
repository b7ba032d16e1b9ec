package form

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of a form dialog.
type State int

const (
	StatePristine State = iota
	StateEditing
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StatePristine:
		return "pristine"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Event drives a State change.
type Event int

const (
	EventEdit Event = iota
	EventSubmit
	EventSchemaPass
	EventSchemaFail
	EventServerAccept
	EventServerReject
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventEdit:
		return "edit"
	case EventSubmit:
		return "submit"
	case EventSchemaPass:
		return "schema-pass"
	case EventSchemaFail:
		return "schema-fail"
	case EventServerAccept:
		return "server-accept"
	case EventServerReject:
		return "server-reject"
	case EventReset:
		return "reset"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

var ErrInvalidTransition = errors.New("invalid form transition")

type transitionKey struct {
	from  State
	event Event
}

var transitions = map[transitionKey]State{
	{StatePristine, EventEdit}:           StateEditing,
	{StatePristine, EventSubmit}:         StateValidating,
	{StateEditing, EventEdit}:            StateEditing,
	{StateEditing, EventSubmit}:          StateValidating,
	{StateValidating, EventSchemaPass}:   StateSubmitting,
	{StateValidating, EventSchemaFail}:   StateEditing,
	{StateSubmitting, EventServerAccept}: StatePristine,
	{StateSubmitting, EventServerReject}: StateEditing,
	{StatePristine, EventReset}:          StatePristine,
	{StateEditing, EventReset}:           StatePristine,
}

// Transition returns the state reached from `from` on ev. It has no side effects.
func Transition(from State, ev Event) (State, error) {
	next, ok := transitions[transitionKey{from, ev}]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
	}
	return next, nil
}

package form

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Mode distinguishes the create dialog from the edit dialog of an entity.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

var ErrSubmitInFlight = errors.New("form submission already in flight")

// ValidationError carries field-scoped schema failures. It is returned before
// anything is sent.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.Fields.Fields() {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Cloner lets form values with slices or maps hand out independent copies.
type Cloner[T any] interface {
	Clone() T
}

func copyOf[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// SendFunc delivers validated values to the server.
type SendFunc[T any] func(ctx context.Context, values T) error

// Session is the state of one create or edit dialog. Values are replaced
// wholesale; callers never hold a reference into them.
type Session[T any] struct {
	mu       sync.Mutex
	mode     Mode
	schema   Schema[T]
	initial  T
	values   T
	state    State
	touched  map[string]bool
	errs     FieldErrors
	server   error
	targetID int64
	seeded   bool
}

// New starts a pristine session. For create dialogs initial is the default
// record; edit dialogs are usually seeded later through Reseed.
func New[T any](mode Mode, initial T, schema Schema[T]) *Session[T] {
	return &Session[T]{
		mode:    mode,
		schema:  schema,
		initial: copyOf(initial),
		values:  copyOf(initial),
		state:   StatePristine,
		touched: map[string]bool{},
	}
}

func (s *Session[T]) Mode() Mode {
	return s.mode
}

func (s *Session[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Values returns a copy of the current field values.
func (s *Session[T]) Values() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.values)
}

// FieldErrors returns the errors from the last failed validation.
func (s *Session[T]) FieldErrors() FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) == 0 {
		return nil
	}
	out := make(FieldErrors, len(s.errs))
	for k, v := range s.errs {
		out[k] = v
	}
	return out
}

// ServerError is the rejection from the last submission, if any.
func (s *Session[T]) ServerError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server
}

func (s *Session[T]) Touched(field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched[field]
}

// TargetID is the entity the edit dialog was last seeded from.
func (s *Session[T]) TargetID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targetID, s.seeded
}

// Set applies mutate to a copy of the values and marks field as touched.
func (s *Session[T]) Set(field string, mutate func(*T)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	next, err := Transition(s.state, EventEdit)
	if err != nil {
		return err
	}
	values := copyOf(s.values)
	mutate(&values)
	s.values = values
	s.state = next
	s.touched[field] = true
	delete(s.errs, field)
	return nil
}

// Reseed replaces the values with those of targetID. Seeding the same target
// again keeps the in-progress edits. The target cannot change while a
// submission is in flight.
func (s *Session[T]) Reseed(targetID int64, values T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	if s.seeded && s.targetID == targetID {
		return nil
	}
	s.targetID = targetID
	s.seeded = true
	s.initial = copyOf(values)
	s.resetLocked()
	return nil
}

// Reset discards edits and returns to the initial values.
func (s *Session[T]) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := Transition(s.state, EventReset); err != nil {
		if s.state == StateSubmitting {
			return ErrSubmitInFlight
		}
		return err
	}
	s.resetLocked()
	return nil
}

// Validate runs the schema against the current values without changing state.
func (s *Session[T]) Validate() FieldErrors {
	values := s.Values()
	return s.schema.Validate(values)
}

// Submit validates and, when the values pass, hands them to send. Invalid
// values and concurrent submissions never reach send.
func (s *Session[T]) Submit(ctx context.Context, send SendFunc[T]) error {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if _, err := Transition(s.state, EventSubmit); err != nil {
		s.mu.Unlock()
		return err
	}

	s.state = StateValidating
	if errs := s.schema.Validate(s.values); len(errs) > 0 {
		s.state, _ = Transition(s.state, EventSchemaFail)
		s.errs = errs
		s.mu.Unlock()
		return &ValidationError{Fields: errs}
	}
	s.state, _ = Transition(s.state, EventSchemaPass)
	s.errs = nil
	s.server = nil
	snapshot := copyOf(s.values)
	s.mu.Unlock()

	err := send(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state, _ = Transition(s.state, EventServerReject)
		s.server = err
		return err
	}
	s.state, _ = Transition(s.state, EventServerAccept)
	s.seeded = false
	s.resetLocked()
	return nil
}

func (s *Session[T]) resetLocked() {
	s.values = copyOf(s.initial)
	s.state = StatePristine
	s.touched = map[string]bool{}
	s.errs = nil
	s.server = nil
}

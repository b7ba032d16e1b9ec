package dashboard

import (
	"context"
	"sync"

	"github.com/angelmondragon/delivery-admin/internal/form"
)

// FormDialog wraps a form session with open/closed state.
type FormDialog[T any] struct {
	mu      sync.Mutex
	open    bool
	session *form.Session[T]
}

func NewFormDialog[T any](session *form.Session[T]) *FormDialog[T] {
	return &FormDialog[T]{session: session}
}

func (d *FormDialog[T]) Session() *form.Session[T] {
	return d.session
}

func (d *FormDialog[T]) Open() {
	d.mu.Lock()
	d.open = true
	d.mu.Unlock()
}

// OpenFor seeds the dialog from entity id before opening it. It fails
// without opening while the dialog is still submitting.
func (d *FormDialog[T]) OpenFor(id int64, values T) error {
	if err := d.session.Reseed(id, values); err != nil {
		return err
	}
	d.Open()
	return nil
}

func (d *FormDialog[T]) Close() {
	d.mu.Lock()
	d.open = false
	d.mu.Unlock()
}

func (d *FormDialog[T]) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Submit validates the form and sends it through runner as m. The dialog
// closes only when the server accepts.
func (d *FormDialog[T]) Submit(ctx context.Context, runner *Runner, m Mutation, send func(context.Context, T) error) error {
	err := d.session.Submit(ctx, func(ctx context.Context, values T) error {
		call := m
		call.Run = func(ctx context.Context) error { return send(ctx, values) }
		return runner.Do(ctx, call)
	})
	if err != nil {
		return err
	}
	d.Close()
	return nil
}

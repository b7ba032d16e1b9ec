package dashboard

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/angelmondragon/delivery-admin/pkg/logger"
)

// ToastKind tells success and error notifications apart.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind
	Message string
}

// Notifier shows transient messages to the operator.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// ConsoleNotifier prints toasts to out and mirrors them to the log.
type ConsoleNotifier struct {
	out  io.Writer
	logg *logger.Logger
}

func NewConsoleNotifier(out io.Writer, logg *logger.Logger) *ConsoleNotifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &ConsoleNotifier{out: out, logg: logg}
}

func (n *ConsoleNotifier) Success(ctx context.Context, msg string) {
	n.logg.Info(ctx, msg)
	if n.out != nil {
		fmt.Fprintf(n.out, "ok: %s\n", msg)
	}
}

func (n *ConsoleNotifier) Error(ctx context.Context, msg string) {
	n.logg.Warn(ctx, msg)
	if n.out != nil {
		fmt.Fprintf(n.out, "error: %s\n", msg)
	}
}

// Recorder keeps every toast in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Success(_ context.Context, msg string) { r.add(ToastSuccess, msg) }

func (r *Recorder) Error(_ context.Context, msg string) { r.add(ToastError, msg) }

func (r *Recorder) add(kind ToastKind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Kind: kind, Message: msg})
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

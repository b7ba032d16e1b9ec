package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/angelmondragon/delivery-admin/internal/querycache"
	pkgerrors "github.com/angelmondragon/delivery-admin/pkg/errors"
	"github.com/angelmondragon/delivery-admin/pkg/logger"
)

// DefaultFailure is shown when the server gives no usable message.
const DefaultFailure = "Something went wrong, please try again"

var ErrMutationPending = errors.New("mutation already pending")

// Mutation is one write issued from a screen.
type Mutation struct {
	// Key identifies the triggering control, e.g. "stores.toggle-status:7".
	Key string
	// Confirm, when set, is asked before anything is sent.
	Confirm     string
	Invalidates []querycache.Resource
	Success     string
	Failure     string
	Run         func(ctx context.Context) error
}

// Runner executes mutations for every screen of one console session.
type Runner struct {
	cache     *querycache.Cache
	notifier  Notifier
	confirmer Confirmer
	logg      *logger.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewRunner(cache *querycache.Cache, notifier Notifier, confirmer Confirmer, logg *logger.Logger) *Runner {
	if notifier == nil {
		notifier = &Recorder{}
	}
	if confirmer == nil {
		confirmer = Deny
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Runner{
		cache:     cache,
		notifier:  notifier,
		confirmer: confirmer,
		logg:      logg,
		pending:   map[string]struct{}{},
	}
}

func (r *Runner) Cache() *querycache.Cache {
	return r.cache
}

// Pending reports whether the control identified by key is busy.
func (r *Runner) Pending(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, busy := r.pending[key]
	return busy
}

// Do confirms when asked to, runs m once, and on success invalidates the
// declared resources exactly once and toasts. Failures are toasted and
// returned unchanged. Nothing is retried.
func (r *Runner) Do(ctx context.Context, m Mutation) error {
	if m.Confirm != "" {
		ok, err := r.confirmer.Confirm(ctx, m.Confirm)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotConfirmed
		}
	}

	if m.Key != "" {
		r.mu.Lock()
		if _, busy := r.pending[m.Key]; busy {
			r.mu.Unlock()
			return ErrMutationPending
		}
		r.pending[m.Key] = struct{}{}
		r.mu.Unlock()
		defer func() {
			r.mu.Lock()
			delete(r.pending, m.Key)
			r.mu.Unlock()
		}()
	}

	if err := m.Run(ctx); err != nil {
		failure := m.Failure
		if failure == "" {
			failure = DefaultFailure
		}
		r.logg.Error(ctx, "mutation failed: "+m.Key, err)
		r.notifier.Error(ctx, pkgerrors.PublicMessage(err, failure))
		return err
	}

	if r.cache != nil && len(m.Invalidates) > 0 {
		r.cache.Invalidate(ctx, m.Invalidates...)
	}
	if m.Success != "" {
		r.notifier.Success(ctx, m.Success)
	}
	return nil
}

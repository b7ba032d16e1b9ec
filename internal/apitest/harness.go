package apitest

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
	"github.com/angelmondragon/delivery-admin/internal/session"
	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
	"github.com/stretchr/testify/require"
)

// Harness wires a signed-in console against a fake server. Cache refetches
// run inline so assertions can follow a mutation directly.
type Harness struct {
	Server  *Server
	API     *apiclient.Client
	Session *session.Session
	Cache   *querycache.Cache
	Toasts  *dashboard.Recorder
	Runner  *dashboard.Runner

	confirm atomic.Bool
	prompts atomic.Int32
}

func NewHarness(t testing.TB) *Harness {
	t.Helper()
	h := &Harness{
		Server:  New(t),
		Session: session.New(nil),
		Cache:   querycache.New(querycache.WithDispatcher(querycache.Inline)),
		Toasts:  &dashboard.Recorder{},
	}
	h.confirm.Store(true)
	require.NoError(t, h.Session.Establish(context.Background(), DefaultToken, &session.User{ID: 1, Name: "Admin"}))

	api, err := apiclient.New(h.Server.URL, apiclient.WithCredentials(h.Session))
	require.NoError(t, err)
	h.API = api

	confirmer := dashboard.ConfirmFunc(func(context.Context, string) (bool, error) {
		h.prompts.Add(1)
		return h.confirm.Load(), nil
	})
	h.Runner = dashboard.NewRunner(h.Cache, h.Toasts, confirmer, nil)
	return h
}

// DeclineConfirmations makes every later confirmation prompt answer no.
func (h *Harness) DeclineConfirmations() {
	h.confirm.Store(false)
}

// Prompts reports how many confirmations were asked for.
func (h *Harness) Prompts() int {
	return int(h.prompts.Load())
}

// LastToast fails the test when nothing was shown.
func (h *Harness) LastToast(t testing.TB) dashboard.Toast {
	t.Helper()
	last, ok := h.Toasts.Last()
	require.True(t, ok, "expected a toast")
	return last
}

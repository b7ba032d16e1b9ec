package dashboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
	pkgerrors "github.com/angelmondragon/delivery-admin/pkg/errors"
	"github.com/stretchr/testify/require"
)

func mountedCounter(t *testing.T, cache *querycache.Cache) (*querycache.Reader[int32], *int32) {
	t.Helper()
	var calls int32
	reader := querycache.Mount(context.Background(), cache, querycache.AreasKey(), func(context.Context) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	})
	t.Cleanup(reader.Close)
	return reader, &calls
}

func TestRunnerInvalidatesOnceOnSuccess(t *testing.T) {
	cache := querycache.New(querycache.WithDispatcher(querycache.Inline))
	_, calls := mountedCounter(t, cache)
	toasts := &Recorder{}
	runner := NewRunner(cache, toasts, AlwaysConfirm, nil)

	err := runner.Do(context.Background(), Mutation{
		Key:         "areas.delete:1",
		Confirm:     "Delete area?",
		Invalidates: []querycache.Resource{querycache.ResourceAreas},
		Success:     "Area deleted",
		Run:         func(context.Context) error { return nil },
	})
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(calls), "mount plus exactly one refetch")

	last, ok := toasts.Last()
	require.True(t, ok)
	require.Equal(t, Toast{Kind: ToastSuccess, Message: "Area deleted"}, last)
}

func TestRunnerFailureToastsServerMessage(t *testing.T) {
	cache := querycache.New(querycache.WithDispatcher(querycache.Inline))
	_, calls := mountedCounter(t, cache)
	toasts := &Recorder{}
	runner := NewRunner(cache, toasts, nil, nil)

	serverErr := pkgerrors.New(pkgerrors.CodeConflict, "conflict").WithPublicMessage("Area has stores")
	err := runner.Do(context.Background(), Mutation{
		Invalidates: []querycache.Resource{querycache.ResourceAreas},
		Success:     "never",
		Failure:     "Failed to delete area",
		Run:         func(context.Context) error { return serverErr },
	})
	require.ErrorIs(t, err, serverErr)
	require.Equal(t, int32(1), atomic.LoadInt32(calls), "failed writes must not invalidate")
	require.Equal(t, []Toast{{Kind: ToastError, Message: "Area has stores"}}, toasts.Toasts())

	_ = runner.Do(context.Background(), Mutation{
		Failure: "Failed to delete area",
		Run:     func(context.Context) error { return errors.New("dial tcp: refused") },
	})
	last, _ := toasts.Last()
	require.Equal(t, "Failed to delete area", last.Message)

	_ = runner.Do(context.Background(), Mutation{Run: func(context.Context) error { return errors.New("x") }})
	last, _ = toasts.Last()
	require.Equal(t, DefaultFailure, last.Message)
}

func TestRunnerDeclinedConfirmationSendsNothing(t *testing.T) {
	toasts := &Recorder{}
	runner := NewRunner(querycache.New(), toasts, Deny, nil)
	ran := false

	err := runner.Do(context.Background(), Mutation{
		Confirm: "Delete store?",
		Run:     func(context.Context) error { ran = true; return nil },
	})
	require.ErrorIs(t, err, ErrNotConfirmed)
	require.False(t, ran)
	require.Empty(t, toasts.Toasts())
}

func TestRunnerGuardsPendingKey(t *testing.T) {
	runner := NewRunner(querycache.New(), &Recorder{}, nil, nil)
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)

	go func() {
		done <- runner.Do(context.Background(), Mutation{
			Key: "stores.toggle-status:7",
			Run: func(context.Context) error {
				close(entered)
				<-release
				return nil
			},
		})
	}()
	<-entered

	require.True(t, runner.Pending("stores.toggle-status:7"))
	err := runner.Do(context.Background(), Mutation{
		Key: "stores.toggle-status:7",
		Run: func(context.Context) error { t.Fatalf("guarded mutation ran"); return nil },
	})
	require.ErrorIs(t, err, ErrMutationPending)

	require.NoError(t, runner.Do(context.Background(), Mutation{
		Key: "stores.toggle-status:8",
		Run: func(context.Context) error { return nil },
	}))

	close(release)
	require.NoError(t, <-done)
	require.False(t, runner.Pending("stores.toggle-status:7"))
}

type nameForm struct {
	Name string `json:"name" validate:"required"`
}

func TestFormDialogClosesOnlyOnAccept(t *testing.T) {
	runner := NewRunner(querycache.New(), &Recorder{}, nil, nil)
	dialog := NewFormDialog(form.New(form.ModeCreate, nameForm{}, form.NewSchema(form.StructRule[nameForm]())))
	dialog.Open()

	sends := 0
	send := func(context.Context, nameForm) error { sends++; return errors.New("rejected") }

	var verr *form.ValidationError
	require.ErrorAs(t, dialog.Submit(context.Background(), runner, Mutation{}, send), &verr)
	require.Zero(t, sends)
	require.True(t, dialog.IsOpen())

	require.NoError(t, dialog.Session().Set("name", func(v *nameForm) { v.Name = "Grocery" }))
	require.Error(t, dialog.Submit(context.Background(), runner, Mutation{}, send))
	require.Equal(t, 1, sends)
	require.True(t, dialog.IsOpen())
	require.Equal(t, "Grocery", dialog.Session().Values().Name)

	accept := func(context.Context, nameForm) error { sends++; return nil }
	require.NoError(t, dialog.Submit(context.Background(), runner, Mutation{}, accept))
	require.False(t, dialog.IsOpen())
	require.Equal(t, form.StatePristine, dialog.Session().State())
}

func TestPromptConfirmer(t *testing.T) {
	var out bytes.Buffer
	p := NewPromptConfirmer(strings.NewReader("y\nno\n"), &out)

	ok, err := p.Confirm(context.Background(), "Delete user 3?")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, out.String(), "Delete user 3? [y/N]: ")

	ok, err = p.Confirm(context.Background(), "Delete user 4?")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = p.Confirm(context.Background(), "EOF answers no")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConsoleNotifierWrites(t *testing.T) {
	var out bytes.Buffer
	n := NewConsoleNotifier(&out, nil)
	n.Success(context.Background(), "Area created")
	n.Error(context.Background(), "Failed")
	require.Equal(t, "ok: Area created\nerror: Failed\n", out.String())
}

func TestPrefetchReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran int32
	err := Prefetch(context.Background(),
		func(context.Context) error { atomic.AddInt32(&ran, 1); return nil },
		nil,
		func(context.Context) error { atomic.AddInt32(&ran, 1); return boom },
	)
	require.ErrorIs(t, err, boom)
	require.Equal(t, int32(2), atomic.LoadInt32(&ran))
}

func TestPrefetchFailureDoesNotCancelSiblings(t *testing.T) {
	boom := errors.New("boom")
	failed := make(chan struct{})
	var siblingErr error
	err := Prefetch(context.Background(),
		func(context.Context) error {
			defer close(failed)
			return boom
		},
		func(ctx context.Context) error {
			<-failed
			select {
			case <-ctx.Done():
				siblingErr = ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
			return nil
		},
	)
	require.ErrorIs(t, err, boom)
	require.NoError(t, siblingErr)
}

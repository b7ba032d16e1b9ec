package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/angelmondragon/delivery-admin/internal/apitest"
	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestApp(t *testing.T) (*app, *apitest.Harness, *bytes.Buffer) {
	t.Helper()
	h := apitest.NewHarness(t)
	out := &bytes.Buffer{}
	a, err := newApp(appParams{API: h.API, Session: h.Session, Runner: h.Runner, Out: out})
	require.NoError(t, err)
	return a, h, out
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func TestRunRejectsUnknownCommands(t *testing.T) {
	a, h, _ := newTestApp(t)
	ctx := context.Background()

	require.ErrorIs(t, a.run(ctx, nil), errUsage)
	require.ErrorIs(t, a.run(ctx, []string{"orders"}), errUsage)
	require.ErrorIs(t, a.run(ctx, []string{"areas"}), errUsage)
	require.ErrorIs(t, a.run(ctx, []string{"areas", "archive"}), errUsage)
	require.ErrorIs(t, a.run(ctx, []string{"areas", "get"}), errUsage, "--id is required")
	require.Empty(t, h.Server.Requests())
}

func TestUsageErrorsPrintGeneratedHelp(t *testing.T) {
	a, _, out := newTestApp(t)

	require.ErrorIs(t, a.run(context.Background(), []string{"stores", "archive"}), errUsage)
	require.Contains(t, out.String(), "admin stores [command]")
	require.Contains(t, out.String(), "toggle-status")

	out.Reset()
	require.ErrorIs(t, a.run(context.Background(), []string{"areas", "list", "--bogus"}), errUsage)
	require.Contains(t, out.String(), "--place")
}

func TestHelpIsNotAnError(t *testing.T) {
	a, h, out := newTestApp(t)
	require.NoError(t, a.run(context.Background(), []string{"areas", "create", "--help"}))
	require.Contains(t, out.String(), "--price")
	require.Empty(t, h.Server.Requests())
}

func TestResourceCommandsNeedASession(t *testing.T) {
	a, h, _ := newTestApp(t)
	require.NoError(t, h.Session.Logout(context.Background()))

	err := a.run(context.Background(), []string{"areas", "list"})
	require.ErrorIs(t, err, errSignedOut)
	require.Empty(t, h.Server.Requests())
}

func TestLoginThenWhoami(t *testing.T) {
	a, h, out := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, h.Session.Logout(ctx))
	h.Server.AddAccount("admin@example.com", "", "secret1")

	require.NoError(t, a.run(ctx, []string{"login", "--id", "admin@example.com", "--password", "secret1"}))
	require.Contains(t, out.String(), "Signed in as Admin")
	require.Equal(t, apitest.DefaultToken, h.Session.AccessToken())

	out.Reset()
	require.NoError(t, a.run(ctx, []string{"whoami"}))
	require.Contains(t, out.String(), "admin@example.com")
	require.Contains(t, out.String(), "Token expires:")
}

func TestLoginWithoutPasswordNeverCallsTheAPI(t *testing.T) {
	a, h, out := newTestApp(t)

	err := a.run(context.Background(), []string{"login", "--id", "admin@example.com"})
	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, out.String(), "password: is required")
	require.Zero(t, h.Server.Count(http.MethodPost, "/auth/login"))
}

func TestAreasCreateFromFlags(t *testing.T) {
	a, h, _ := newTestApp(t)

	err := a.run(context.Background(), []string{"areas", "create", "--name", "Downtown", "--price", "10.5", "--place", "3"})
	require.NoError(t, err)

	posts := h.Server.Find(http.MethodPost, "/areas/create")
	require.Len(t, posts, 1)
	require.JSONEq(t, `{"name":"Downtown","price":10.5,"place_id":3}`, string(posts[0].Body))
	require.Equal(t, "Area created successfully!", h.LastToast(t).Message)
}

func TestAreasCreatePrintsFieldErrors(t *testing.T) {
	a, h, out := newTestApp(t)

	err := a.run(context.Background(), []string{"areas", "create", "--name", "Downtown"})
	require.Error(t, err)
	require.Contains(t, out.String(), "place_id: is required")
	require.Contains(t, out.String(), "price: is required")
	require.Empty(t, h.Server.Mutations())
}

func TestAreasUpdateKeepsFieldsNotGiven(t *testing.T) {
	a, h, _ := newTestApp(t)
	ids := h.Server.Seed(apitest.Areas, map[string]any{"name": "Downtown", "price": 10.5, "place_id": int64(3)})

	err := a.run(context.Background(), []string{"areas", "update", "--id", formatID(ids[0]), "--price", "12"})
	require.NoError(t, err)

	puts := h.Server.Find(http.MethodPut, "/areas/"+formatID(ids[0]))
	require.Len(t, puts, 1)
	require.JSONEq(t, `{"name":"Downtown","price":12,"place_id":3}`, string(puts[0].Body))
	require.Equal(t, "Area updated successfully!", h.LastToast(t).Message)
}

func TestDeclinedDeleteIsCancelled(t *testing.T) {
	a, h, out := newTestApp(t)
	ids := h.Server.Seed(apitest.Stores, map[string]any{"name": "Corner Shop"})
	h.DeclineConfirmations()

	require.NoError(t, a.run(context.Background(), []string{"stores", "delete", "--id", formatID(ids[0])}))
	require.Contains(t, out.String(), "Cancelled.")
	require.Equal(t, 1, h.Prompts())
	require.Empty(t, h.Server.Mutations())
	require.Equal(t, 1, h.Server.Len(apitest.Stores))
}

func TestStoresToggleStatus(t *testing.T) {
	a, h, _ := newTestApp(t)
	ids := h.Server.Seed(apitest.Stores, map[string]any{"name": "Corner Shop", "is_active": true})

	require.NoError(t, a.run(context.Background(), []string{"stores", "toggle-status", "--id", formatID(ids[0])}))
	require.Len(t, h.Server.Find(http.MethodPatch, "/stores/toggle-status/"+formatID(ids[0])), 1)
	require.Equal(t, dashboard.Toast{Kind: dashboard.ToastSuccess, Message: "Store status updated!"}, h.LastToast(t))
}

func TestPlacesListFiltersByQuery(t *testing.T) {
	a, h, out := newTestApp(t)
	h.Server.Seed(apitest.Places,
		map[string]any{"name": "Old Town", "address": "Main st", "latitude": "30.0444", "longitude": 31.2357},
		map[string]any{"name": "Harbor", "address": "Pier 4", "latitude": 0, "longitude": 0},
	)

	require.NoError(t, a.run(context.Background(), []string{"places", "list", "-q", "main"}))
	require.Contains(t, out.String(), "Old Town")
	require.Contains(t, out.String(), "30.0444")
	require.NotContains(t, out.String(), "Harbor")
}

func TestPlacesCreateWithStoreTypes(t *testing.T) {
	a, h, _ := newTestApp(t)

	err := a.run(context.Background(), []string{"places", "create", "--name", "Old Town", "--address", "Main st", "--types", "1,2"})
	require.NoError(t, err)

	posts := h.Server.Find(http.MethodPost, "/places/create")
	require.Len(t, posts, 1)
	require.JSONEq(t, `{"name":"Old Town","address":"Main st","latitude":0,"longitude":0,"store_type_ids":[1,2]}`, string(posts[0].Body))
}

func TestMaintenanceOnNeedsAMessage(t *testing.T) {
	a, h, out := newTestApp(t)
	h.Server.Seed(apitest.Settings, map[string]any{
		"name_en": "Delivery", "name_ar": "توصيل", "version": "1.0", "description": "Food and more",
		"url": "https://example.com", "email": "team@example.com", "phone": "0100", "address": "Cairo",
	})
	ctx := context.Background()

	err := a.run(ctx, []string{"settings", "maintenance", "on"})
	require.Error(t, err)
	require.Contains(t, out.String(), "maintenance_message: is required")
	require.Empty(t, h.Server.Mutations())

	require.NoError(t, a.run(ctx, []string{"settings", "maintenance", "--message", "Back soon", "on"}))
	puts := h.Server.Mutations()
	require.Len(t, puts, 1)
	require.Equal(t, http.MethodPut, puts[0].Method)
	require.Equal(t, "true", puts[0].Form.Get("maintenance_mode"))
	require.Equal(t, "Back soon", puts[0].Form.Get("maintenance_message"))
}

func TestUsersExportWritesTwoSheets(t *testing.T) {
	a, h, out := newTestApp(t)
	h.Server.Seed(apitest.Users,
		map[string]any{"name": "Mona", "email": "mona@example.com", "role_id": int64(2), "role": map[string]any{"id": int64(2), "role": "store_owner"}},
		map[string]any{"name": "Omar", "email": "omar@example.com", "role_id": int64(4), "role": map[string]any{"id": int64(4), "role": "user"}},
	)
	path := filepath.Join(t.TempDir(), "users.xlsx")

	require.NoError(t, a.run(context.Background(), []string{"users", "export", "--out", path}))
	require.Contains(t, out.String(), "Exported to "+path)

	xl, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = xl.Close() })
	require.Equal(t, []string{"Users", "Statistics"}, xl.GetSheetList())

	rows, err := xl.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"ID", "Name", "Email", "Phone", "Role", "Store"}, rows[0])
	require.Equal(t, "Mona", rows[1][1])
	require.Equal(t, "store_owner", rows[1][4])
}

func TestParseIDList(t *testing.T) {
	got, err := parseIDList("3, 1,,2")
	require.NoError(t, err)
	require.Equal(t, []int64{3, 1, 2}, got)

	_, err = parseIDList("1,x")
	require.Error(t, err)
	_, err = parseIDList("0")
	require.Error(t, err)
}

func TestYesSkipsTheConfirmation(t *testing.T) {
	h := apitest.NewHarness(t)
	cache := querycache.New(querycache.WithDispatcher(querycache.Inline))
	runner := dashboard.NewRunner(cache, h.Toasts, skipWhenAssumed(dashboard.Deny), nil)
	out := &bytes.Buffer{}
	a, err := newApp(appParams{API: h.API, Session: h.Session, Runner: runner, Out: out})
	require.NoError(t, err)
	ids := h.Server.Seed(apitest.Stores, map[string]any{"name": "Corner Shop"})
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"stores", "delete", "--id", formatID(ids[0])}))
	require.Contains(t, out.String(), "Cancelled.")
	require.Equal(t, 1, h.Server.Len(apitest.Stores))

	require.NoError(t, a.run(ctx, []string{"--yes", "stores", "delete", "--id", formatID(ids[0])}))
	require.Len(t, h.Server.Find(http.MethodDelete, "/stores/"+formatID(ids[0])), 1)
	require.Zero(t, h.Server.Len(apitest.Stores))
}

func TestFlagValuesDoNotCarryOver(t *testing.T) {
	a, h, _ := newTestApp(t)
	ids := h.Server.Seed(apitest.Areas, map[string]any{"name": "Downtown", "price": 10.5, "place_id": int64(3)})
	ctx := context.Background()

	require.NoError(t, a.run(ctx, []string{"areas", "update", "--id", formatID(ids[0]), "--price", "12"}))
	require.NoError(t, a.run(ctx, []string{"areas", "update", "--id", formatID(ids[0]), "--name", "Uptown"}))

	puts := h.Server.Find(http.MethodPut, "/areas/"+formatID(ids[0]))
	require.Len(t, puts, 2)
	require.JSONEq(t, `{"name":"Uptown","price":12,"place_id":3}`, string(puts[1].Body))
}

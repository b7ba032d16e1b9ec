package areas

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/angelmondragon/delivery-admin/internal/apitest"
	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/places"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func mountedScreen(t *testing.T, h *apitest.Harness) *Screen {
	t.Helper()
	screen := NewScreen(NewClient(h.API), places.NewClient(h.API), h.Runner)
	require.NoError(t, screen.Mount(context.Background()))
	t.Cleanup(screen.Close)
	return screen
}

func fillDowntown(t *testing.T, s *form.Session[Form]) {
	t.Helper()
	require.NoError(t, s.Set("name", func(f *Form) { f.Name = "Downtown" }))
	require.NoError(t, s.Set("price", func(f *Form) { f.Price = price(10.5) }))
	require.NoError(t, s.Set("place_id", func(f *Form) { f.PlaceID = 3 }))
}

func TestCreateAreaPostsBodyAndRefetches(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Places, map[string]any{"id": int64(3), "name": "Old Town", "address": "Main st"})
	screen := mountedScreen(t, h)
	require.Equal(t, 1, h.Server.Count(http.MethodGet, "/areas"))

	screen.OpenCreate()
	fillDowntown(t, screen.Create.Session())
	require.NoError(t, screen.SubmitCreate(context.Background()))

	posts := h.Server.Find(http.MethodPost, "/areas/create")
	require.Len(t, posts, 1)
	require.JSONEq(t, `{"name":"Downtown","price":10.5,"place_id":3}`, string(posts[0].Body))
	require.Equal(t, apitest.DefaultToken, posts[0].Bearer())

	require.Equal(t, dashboard.Toast{Kind: dashboard.ToastSuccess, Message: "Area created successfully!"}, h.LastToast(t))
	require.False(t, screen.Create.IsOpen())
	require.Equal(t, 2, h.Server.Count(http.MethodGet, "/areas"), "one refetch after create")

	items := screen.Items()
	require.Len(t, items, 1)
	require.Equal(t, "Downtown", items[0].Name)
	require.Equal(t, "10.5", items[0].Price.String())
	require.Equal(t, "Old Town", screen.PlaceName(items[0]))

	require.Equal(t, form.StatePristine, screen.Create.Session().State())
	require.Empty(t, screen.Create.Session().Values().Name)
}

func TestCreateAreaWithMissingFieldsSendsNothing(t *testing.T) {
	h := apitest.NewHarness(t)
	screen := mountedScreen(t, h)

	screen.OpenCreate()
	require.NoError(t, screen.Create.Session().Set("name", func(f *Form) { f.Name = "Downtown" }))

	err := screen.SubmitCreate(context.Background())
	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, []string{"place_id", "price"}, verr.Fields.Fields())
	require.Empty(t, h.Server.Mutations())
	require.True(t, screen.Create.IsOpen())
	require.Empty(t, h.Toasts.Toasts())
}

func TestCreateAreaRejectsNegativePrice(t *testing.T) {
	h := apitest.NewHarness(t)
	screen := mountedScreen(t, h)

	screen.OpenCreate()
	fillDowntown(t, screen.Create.Session())
	require.NoError(t, screen.Create.Session().Set("price", func(f *Form) { f.Price = price(-1) }))

	require.Error(t, screen.SubmitCreate(context.Background()))
	require.Equal(t, "must be at least 0", screen.Create.Session().FieldErrors()["price"])
	require.Empty(t, h.Server.Mutations())
}

func TestCreateAreaServerErrorKeepsValues(t *testing.T) {
	h := apitest.NewHarness(t)
	screen := mountedScreen(t, h)
	h.Server.FailNext(http.MethodPost, "/areas/create", http.StatusUnprocessableEntity, "Area code already used")

	screen.OpenCreate()
	fillDowntown(t, screen.Create.Session())
	require.Error(t, screen.SubmitCreate(context.Background()))

	require.Equal(t, dashboard.Toast{Kind: dashboard.ToastError, Message: "Area code already used"}, h.LastToast(t))
	require.True(t, screen.Create.IsOpen())
	require.Equal(t, form.StateEditing, screen.Create.Session().State())
	require.Equal(t, "Downtown", screen.Create.Session().Values().Name)
	require.Equal(t, 1, h.Server.Count(http.MethodGet, "/areas"), "failed mutation must not refetch")
}

func TestEditAreaReseedsForEachTarget(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Areas,
		map[string]any{"name": "North", "price": 5, "place_id": 1},
		map[string]any{"name": "South", "price": 7.25, "place_id": 2},
	)
	screen := mountedScreen(t, h)
	items := screen.Items()
	require.Len(t, items, 2)

	require.NoError(t, screen.OpenEdit(items[0]))
	require.NoError(t, screen.Edit.Session().Set("name", func(f *Form) { f.Name = "North edited" }))
	screen.Edit.Close()

	require.NoError(t, screen.OpenEdit(items[1]))
	values := screen.Edit.Session().Values()
	require.Equal(t, "South", values.Name)
	require.Equal(t, 7.25, *values.Price)
	require.Equal(t, int64(2), values.PlaceID)

	require.NoError(t, screen.SubmitEdit(context.Background()))
	puts := h.Server.Find(http.MethodPut, "/areas/2")
	require.Len(t, puts, 1)
	require.JSONEq(t, `{"name":"South","price":7.25,"place_id":2}`, string(puts[0].Body))
	require.Equal(t, "Area updated successfully!", h.LastToast(t).Message)
}

func TestDeclinedDeleteSendsNothing(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Areas, map[string]any{"name": "North", "price": 5, "place_id": 1})
	screen := mountedScreen(t, h)
	h.DeclineConfirmations()

	err := screen.Delete(context.Background(), 1)
	require.ErrorIs(t, err, dashboard.ErrNotConfirmed)
	require.Equal(t, 1, h.Prompts())
	require.Zero(t, h.Server.Count(http.MethodDelete, "/areas/1"))
	require.Len(t, screen.Items(), 1)
}

func TestConfirmedDeleteRemovesAndRefetches(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Areas, map[string]any{"name": "North", "price": 5, "place_id": 1})
	screen := mountedScreen(t, h)

	require.NoError(t, screen.Delete(context.Background(), 1))
	require.Equal(t, 1, h.Server.Count(http.MethodDelete, "/areas/1"))
	require.Empty(t, screen.Items())
	require.Equal(t, "Area deleted successfully!", h.LastToast(t).Message)
}

func TestListByPlace(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Areas,
		map[string]any{"name": "North", "price": 5, "place_id": 1},
		map[string]any{"name": "South", "price": 6, "place_id": 2},
	)
	list, err := NewClient(h.API).ListByPlace(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "South", list[0].Name)
}

func TestMountKeepsAreasWhenPlacesFail(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Areas, map[string]any{"name": "Downtown", "price": 10, "place_id": int64(3)})
	h.Server.FailNext(http.MethodGet, "/places", http.StatusInternalServerError, "Server error")

	screen := mountedScreen(t, h)

	items := screen.Items()
	require.Len(t, items, 1)
	require.Equal(t, "Downtown", items[0].Name)
	_, err := screen.Places.Data()
	require.Error(t, err)
	require.Empty(t, screen.PlaceName(items[0]))
}

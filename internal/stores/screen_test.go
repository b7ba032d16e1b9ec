package stores

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/angelmondragon/delivery-admin/internal/apitest"
	"github.com/angelmondragon/delivery-admin/internal/places"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
	"github.com/angelmondragon/delivery-admin/internal/storetypes"
	"github.com/angelmondragon/delivery-admin/pkg/upload"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func mountedScreen(t *testing.T, h *apitest.Harness) *Screen {
	t.Helper()
	screen := NewScreen(NewClient(h.API), places.NewClient(h.API), storetypes.NewClient(h.API), h.Runner)
	require.NoError(t, screen.Mount(context.Background()))
	t.Cleanup(screen.Close)
	return screen
}

func watchStatistics(t *testing.T, h *apitest.Harness) *int32 {
	t.Helper()
	var calls int32
	reader := querycache.Mount(context.Background(), h.Cache, querycache.UserStatisticsKey(), func(context.Context) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	})
	t.Cleanup(reader.Close)
	return &calls
}

func TestToggleStatusPatchesAndRefetches(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Stores, map[string]any{"id": int64(7), "name": "Corner Shop", "is_active": true})
	screen := mountedScreen(t, h)
	stats := watchStatistics(t, h)

	require.NoError(t, screen.ToggleStatus(context.Background(), 7))

	patches := h.Server.Find(http.MethodPatch, "/stores/toggle-status/7")
	require.Len(t, patches, 1)
	require.JSONEq(t, `{}`, string(patches[0].Body))
	require.Equal(t, apitest.DefaultToken, patches[0].Bearer())
	require.Equal(t, 2, h.Server.Count(http.MethodGet, "/stores"))
	require.False(t, screen.Items()[0].IsActive)
	require.Equal(t, int32(1), atomic.LoadInt32(stats), "toggles leave statistics alone")
	require.Equal(t, "Store status updated!", h.LastToast(t).Message)
}

func TestVerifyAndFeatureUseTheirEndpoints(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Stores, map[string]any{"id": int64(7), "name": "Corner Shop"})
	screen := mountedScreen(t, h)

	require.NoError(t, screen.Verify(context.Background(), 7))
	require.NoError(t, screen.ToggleFeatured(context.Background(), 7))

	require.Equal(t, 1, h.Server.Count(http.MethodPatch, "/stores/7/verify"))
	require.Equal(t, 1, h.Server.Count(http.MethodPatch, "/stores/7/featured"))
	store := screen.Items()[0]
	require.True(t, store.IsVerified)
	require.True(t, store.IsFeatured)
}

func TestCreateStoreSendsMultipartAndRefreshesStatistics(t *testing.T) {
	h := apitest.NewHarness(t)
	screen := mountedScreen(t, h)
	stats := watchStatistics(t, h)

	screen.OpenCreate()
	session := screen.Create.Session()
	require.NoError(t, session.Set("name", func(f *Form) { f.Name = "Corner Shop" }))
	require.NoError(t, session.Set("place_id", func(f *Form) { f.PlaceID = 3 }))
	require.NoError(t, session.Set("store_type_id", func(f *Form) { f.StoreTypeID = 2 }))
	require.NoError(t, session.Set("phone", func(f *Form) { f.Phone = "0123" }))
	require.NoError(t, session.Set("logo", func(f *Form) { f.Logo.Attach(upload.FromBytes("logo.png", pngBytes)) }))
	require.NoError(t, screen.SubmitCreate(context.Background()))

	posts := h.Server.Find(http.MethodPost, "/stores/create")
	require.Len(t, posts, 1)
	req := posts[0]
	require.Equal(t, "Corner Shop", req.Form.Get("name"))
	require.Equal(t, "3", req.Form.Get("place_id"))
	require.Equal(t, "2", req.Form.Get("store_type_id"))
	require.Equal(t, "0123", req.Form.Get("phone"))
	_, hasAddress := req.Form["address"]
	require.False(t, hasAddress, "blank optional fields are not sent")
	require.Equal(t, "logo.png", req.Files["logo"].Filename)
	require.Equal(t, "image/png", req.Files["logo"].ContentType)
	_, hasBanner := req.Files["banner"]
	require.False(t, hasBanner)

	require.Equal(t, int32(2), atomic.LoadInt32(stats), "create refreshes statistics once")
	items := screen.Items()
	require.Len(t, items, 1)
	require.Equal(t, int64(3), items[0].PlaceID)
	require.Contains(t, items[0].Logo, "logo.png")
}

func TestNonImageLogoIsRejected(t *testing.T) {
	h := apitest.NewHarness(t)
	screen := mountedScreen(t, h)

	screen.OpenCreate()
	session := screen.Create.Session()
	require.NoError(t, session.Set("name", func(f *Form) { f.Name = "Corner Shop" }))
	require.NoError(t, session.Set("place_id", func(f *Form) { f.PlaceID = 3 }))
	require.NoError(t, session.Set("store_type_id", func(f *Form) { f.StoreTypeID = 2 }))
	require.NoError(t, session.Set("logo", func(f *Form) { f.Logo.Attach(upload.FromBytes("notes.txt", []byte("plain text"))) }))

	require.Error(t, screen.SubmitCreate(context.Background()))
	require.Equal(t, "must be an image", session.FieldErrors()["logo"])
	require.Empty(t, h.Server.Mutations())
}

func TestEditStoreKeepsExistingImages(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Stores, map[string]any{
		"name": "Corner Shop", "place_id": 3, "store_type_id": 2, "logo": "https://cdn.example.test/logo.png",
	})
	screen := mountedScreen(t, h)

	require.NoError(t, screen.OpenEdit(screen.Items()[0]))
	require.Equal(t, "https://cdn.example.test/logo.png", screen.Edit.Session().Values().Logo.Preview())
	require.NoError(t, screen.Edit.Session().Set("phone", func(f *Form) { f.Phone = "0999" }))
	require.NoError(t, screen.SubmitEdit(context.Background()))

	puts := h.Server.Find(http.MethodPut, "/stores/update/1")
	require.Len(t, puts, 1)
	require.Empty(t, puts[0].Files, "unchanged images are not re-uploaded")
	require.Equal(t, "0999", puts[0].Form.Get("phone"))
	require.Equal(t, "https://cdn.example.test/logo.png", screen.Items()[0].Logo)
}

func TestListByTypeUnwrapsStores(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Stores,
		map[string]any{"name": "A", "store_type_id": 1},
		map[string]any{"name": "B", "store_type_id": 2},
	)
	list, err := NewClient(h.API).ListByType(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "B", list[0].Name)
}

func TestDeleteStoreRefreshesStatistics(t *testing.T) {
	h := apitest.NewHarness(t)
	h.Server.Seed(apitest.Stores, map[string]any{"name": "A"})
	screen := mountedScreen(t, h)
	stats := watchStatistics(t, h)

	require.NoError(t, screen.Delete(context.Background(), 1))
	require.Equal(t, int32(2), atomic.LoadInt32(stats))
	require.Empty(t, screen.Items())
}

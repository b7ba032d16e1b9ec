package stores

import (
	"context"
	"fmt"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/places"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
	"github.com/angelmondragon/delivery-admin/internal/storetypes"
)

var (
	// Store counts feed the user statistics tiles.
	membershipChange = []querycache.Resource{querycache.ResourceStores, querycache.ResourceUserStatistics}
	storeChange      = []querycache.Resource{querycache.ResourceStores}
)

// Screen is the stores page with place and store type pickers.
type Screen struct {
	client     *Client
	places     *places.Client
	storeTypes *storetypes.Client
	runner     *dashboard.Runner

	List       *querycache.Reader[[]Store]
	Places     *querycache.Reader[[]places.Place]
	StoreTypes *querycache.Reader[[]storetypes.StoreType]
	Create     *dashboard.FormDialog[Form]
	Edit       *dashboard.FormDialog[Form]
}

func NewScreen(client *Client, placesClient *places.Client, storeTypes *storetypes.Client, runner *dashboard.Runner) *Screen {
	return &Screen{
		client:     client,
		places:     placesClient,
		storeTypes: storeTypes,
		runner:     runner,
		Create:     dashboard.NewFormDialog(form.New(form.ModeCreate, Form{}, Schema)),
		Edit:       dashboard.NewFormDialog(form.New(form.ModeEdit, Form{}, Schema)),
	}
}

// Mount loads the stores with the places and store types used by the
// dialogs. Only the stores list can fail Mount.
func (s *Screen) Mount(ctx context.Context) error {
	cache := s.runner.Cache()
	return dashboard.Prefetch(ctx,
		func(ctx context.Context) error {
			s.List = querycache.Mount(ctx, cache, querycache.StoresKey(), s.client.List)
			_, err := s.List.Data()
			return err
		},
		func(ctx context.Context) error {
			s.Places = querycache.Mount(ctx, cache, querycache.PlacesKey(), s.places.List)
			return nil
		},
		func(ctx context.Context) error {
			s.StoreTypes = querycache.Mount(ctx, cache, querycache.StoreTypesKey(), s.storeTypes.List)
			return nil
		},
	)
}

func (s *Screen) Close() {
	if s.List != nil {
		s.List.Close()
	}
	if s.Places != nil {
		s.Places.Close()
	}
	if s.StoreTypes != nil {
		s.StoreTypes.Close()
	}
}

func (s *Screen) Items() []Store {
	if s.List == nil {
		return nil
	}
	items, _ := s.List.Data()
	return items
}

func (s *Screen) OpenCreate() {
	s.Create.Open()
}

func (s *Screen) OpenEdit(st Store) error {
	return s.Edit.OpenFor(st.ID, FromEntity(st))
}

func (s *Screen) SubmitCreate(ctx context.Context) error {
	return s.Create.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         "stores.create",
		Invalidates: membershipChange,
		Success:     "Store created successfully!",
		Failure:     "Failed to create store",
	}, func(ctx context.Context, f Form) error {
		_, err := s.client.Create(ctx, f.Input())
		return err
	})
}

func (s *Screen) SubmitEdit(ctx context.Context) error {
	id, ok := s.Edit.Session().TargetID()
	if !ok {
		return fmt.Errorf("no store selected for edit")
	}
	return s.Edit.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         fmt.Sprintf("stores.update:%d", id),
		Invalidates: storeChange,
		Success:     "Store updated successfully!",
		Failure:     "Failed to update store",
	}, func(ctx context.Context, f Form) error {
		_, err := s.client.Update(ctx, id, f.Input())
		return err
	})
}

func (s *Screen) Delete(ctx context.Context, id int64) error {
	return s.runner.Do(ctx, dashboard.Mutation{
		Key:         fmt.Sprintf("stores.delete:%d", id),
		Confirm:     "Are you sure you want to delete this store?",
		Invalidates: membershipChange,
		Success:     "Store deleted successfully!",
		Failure:     "Failed to delete store",
		Run:         func(ctx context.Context) error { return s.client.Delete(ctx, id) },
	})
}

func (s *Screen) ToggleStatus(ctx context.Context, id int64) error {
	return s.toggle(ctx, "toggle-status", id, "Store status updated!", "Failed to update status", s.client.ToggleStatus)
}

func (s *Screen) Verify(ctx context.Context, id int64) error {
	return s.toggle(ctx, "verify", id, "Store verification updated!", "Failed to verify store", s.client.Verify)
}

func (s *Screen) ToggleFeatured(ctx context.Context, id int64) error {
	return s.toggle(ctx, "featured", id, "Featured status updated!", "Failed to update featured status", s.client.ToggleFeatured)
}

func (s *Screen) toggle(ctx context.Context, action string, id int64, success, failure string, call func(context.Context, int64) (*Flags, error)) error {
	return s.runner.Do(ctx, dashboard.Mutation{
		Key:         fmt.Sprintf("stores.%s:%d", action, id),
		Invalidates: storeChange,
		Success:     success,
		Failure:     failure,
		Run: func(ctx context.Context) error {
			_, err := call(ctx, id)
			return err
		},
	})
}

package places

import (
	"context"
	"fmt"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
	"github.com/angelmondragon/delivery-admin/internal/storetypes"
)

var invalidates = []querycache.Resource{querycache.ResourcePlaces}

// Screen is the places page. Store types are loaded for the multi-select.
type Screen struct {
	client     *Client
	storeTypes *storetypes.Client
	runner     *dashboard.Runner

	List       *querycache.Reader[[]Place]
	StoreTypes *querycache.Reader[[]storetypes.StoreType]
	Create     *dashboard.FormDialog[Form]
	Edit       *dashboard.FormDialog[Form]
}

func NewScreen(client *Client, storeTypes *storetypes.Client, runner *dashboard.Runner) *Screen {
	return &Screen{
		client:     client,
		storeTypes: storeTypes,
		runner:     runner,
		Create:     dashboard.NewFormDialog(form.New(form.ModeCreate, Form{}, Schema)),
		Edit:       dashboard.NewFormDialog(form.New(form.ModeEdit, Form{}, Schema)),
	}
}

// Mount loads places and store types together. Only the places list can
// fail Mount.
func (s *Screen) Mount(ctx context.Context) error {
	cache := s.runner.Cache()
	return dashboard.Prefetch(ctx,
		func(ctx context.Context) error {
			s.List = querycache.Mount(ctx, cache, querycache.PlacesKey(), s.client.List)
			_, err := s.List.Data()
			return err
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
	if s.StoreTypes != nil {
		s.StoreTypes.Close()
	}
}

// Items returns the list narrowed by the search box.
func (s *Screen) Items(query string) []Place {
	if s.List == nil {
		return nil
	}
	items, _ := s.List.Data()
	return Filter(items, query)
}

func (s *Screen) OpenCreate() {
	s.Create.Open()
}

func (s *Screen) OpenEdit(p Place) error {
	return s.Edit.OpenFor(p.ID, FromEntity(p))
}

func (s *Screen) SubmitCreate(ctx context.Context) error {
	return s.Create.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         "places.create",
		Invalidates: invalidates,
		Success:     "Place created successfully!",
		Failure:     "Failed to create place",
	}, func(ctx context.Context, f Form) error {
		_, err := s.client.Create(ctx, f.Request())
		return err
	})
}

func (s *Screen) SubmitEdit(ctx context.Context) error {
	id, ok := s.Edit.Session().TargetID()
	if !ok {
		return fmt.Errorf("no place selected for edit")
	}
	return s.Edit.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         fmt.Sprintf("places.update:%d", id),
		Invalidates: invalidates,
		Success:     "Place updated successfully!",
		Failure:     "Failed to update place",
	}, func(ctx context.Context, f Form) error {
		_, err := s.client.Update(ctx, id, f.Request())
		return err
	})
}

func (s *Screen) Delete(ctx context.Context, id int64) error {
	return s.runner.Do(ctx, dashboard.Mutation{
		Key:         fmt.Sprintf("places.delete:%d", id),
		Confirm:     "Are you sure you want to delete this place?",
		Invalidates: invalidates,
		Success:     "Place deleted successfully!",
		Failure:     "Failed to delete place",
		Run:         func(ctx context.Context) error { return s.client.Delete(ctx, id) },
	})
}

package areas

import (
	"context"
	"fmt"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/places"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
)

var invalidates = []querycache.Resource{querycache.ResourceAreas}

// Screen is the areas page. Places feed the place picker.
type Screen struct {
	client *Client
	places *places.Client
	runner *dashboard.Runner

	List   *querycache.Reader[[]Area]
	Places *querycache.Reader[[]places.Place]
	Create *dashboard.FormDialog[Form]
	Edit   *dashboard.FormDialog[Form]
}

func NewScreen(client *Client, placesClient *places.Client, runner *dashboard.Runner) *Screen {
	return &Screen{
		client: client,
		places: placesClient,
		runner: runner,
		Create: dashboard.NewFormDialog(form.New(form.ModeCreate, Form{}, Schema)),
		Edit:   dashboard.NewFormDialog(form.New(form.ModeEdit, Form{}, Schema)),
	}
}

// Mount loads areas and places together. A places error stays on Places and
// only shows up as missing place names.
func (s *Screen) Mount(ctx context.Context) error {
	cache := s.runner.Cache()
	return dashboard.Prefetch(ctx,
		func(ctx context.Context) error {
			s.List = querycache.Mount(ctx, cache, querycache.AreasKey(), s.client.List)
			_, err := s.List.Data()
			return err
		},
		func(ctx context.Context) error {
			s.Places = querycache.Mount(ctx, cache, querycache.PlacesKey(), s.places.List)
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
}

func (s *Screen) Items() []Area {
	if s.List == nil {
		return nil
	}
	items, _ := s.List.Data()
	return items
}

// PlaceName resolves an area's place for display, preferring the nested
// object the server sends.
func (s *Screen) PlaceName(a Area) string {
	if a.Place != nil && a.Place.Name != "" {
		return a.Place.Name
	}
	if s.Places != nil {
		list, _ := s.Places.Data()
		for _, p := range list {
			if p.ID == a.PlaceID {
				return p.Name
			}
		}
	}
	return ""
}

func (s *Screen) OpenCreate() {
	s.Create.Open()
}

func (s *Screen) OpenEdit(a Area) error {
	return s.Edit.OpenFor(a.ID, FromEntity(a))
}

func (s *Screen) SubmitCreate(ctx context.Context) error {
	return s.Create.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         "areas.create",
		Invalidates: invalidates,
		Success:     "Area created successfully!",
		Failure:     "Failed to create area",
	}, func(ctx context.Context, f Form) error {
		_, err := s.client.Create(ctx, f.Request())
		return err
	})
}

func (s *Screen) SubmitEdit(ctx context.Context) error {
	id, ok := s.Edit.Session().TargetID()
	if !ok {
		return fmt.Errorf("no area selected for edit")
	}
	return s.Edit.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         fmt.Sprintf("areas.update:%d", id),
		Invalidates: invalidates,
		Success:     "Area updated successfully!",
		Failure:     "Failed to update area",
	}, func(ctx context.Context, f Form) error {
		_, err := s.client.Update(ctx, id, f.Request())
		return err
	})
}

func (s *Screen) Delete(ctx context.Context, id int64) error {
	return s.runner.Do(ctx, dashboard.Mutation{
		Key:         fmt.Sprintf("areas.delete:%d", id),
		Confirm:     "Are you sure you want to delete this area?",
		Invalidates: invalidates,
		Success:     "Area deleted successfully!",
		Failure:     "Failed to delete area",
		Run:         func(ctx context.Context) error { return s.client.Delete(ctx, id) },
	})
}

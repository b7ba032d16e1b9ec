package storetypes

import (
	"context"
	"fmt"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
)

var invalidates = []querycache.Resource{querycache.ResourceStoreTypes}

// Screen is the store types page: a list plus create and edit dialogs.
type Screen struct {
	client *Client
	runner *dashboard.Runner

	List   *querycache.Reader[[]StoreType]
	Create *dashboard.FormDialog[Form]
	Edit   *dashboard.FormDialog[Form]
}

func NewScreen(client *Client, runner *dashboard.Runner) *Screen {
	return &Screen{
		client: client,
		runner: runner,
		Create: dashboard.NewFormDialog(form.New(form.ModeCreate, Form{}, Schema(form.ModeCreate))),
		Edit:   dashboard.NewFormDialog(form.New(form.ModeEdit, Form{}, Schema(form.ModeEdit))),
	}
}

// Mount loads the list and keeps it fresh until Close.
func (s *Screen) Mount(ctx context.Context) error {
	s.List = querycache.Mount(ctx, s.runner.Cache(), querycache.StoreTypesKey(), s.client.List)
	_, err := s.List.Data()
	return err
}

func (s *Screen) Close() {
	if s.List != nil {
		s.List.Close()
	}
}

func (s *Screen) Items() []StoreType {
	if s.List == nil {
		return nil
	}
	items, _ := s.List.Data()
	return items
}

func (s *Screen) OpenCreate() {
	s.Create.Open()
}

func (s *Screen) OpenEdit(st StoreType) error {
	return s.Edit.OpenFor(st.ID, FromEntity(st))
}

func (s *Screen) SubmitCreate(ctx context.Context) error {
	return s.Create.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         "store-types.create",
		Invalidates: invalidates,
		Success:     "Store type created successfully!",
		Failure:     "Failed to create store type",
	}, func(ctx context.Context, f Form) error {
		_, err := s.client.Create(ctx, f.Input())
		return err
	})
}

func (s *Screen) SubmitEdit(ctx context.Context) error {
	id, ok := s.Edit.Session().TargetID()
	if !ok {
		return fmt.Errorf("no store type selected for edit")
	}
	return s.Edit.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         fmt.Sprintf("store-types.update:%d", id),
		Invalidates: invalidates,
		Success:     "Store type updated successfully!",
		Failure:     "Failed to update store type",
	}, func(ctx context.Context, f Form) error {
		_, err := s.client.Update(ctx, id, f.Input())
		return err
	})
}

func (s *Screen) Delete(ctx context.Context, id int64) error {
	return s.runner.Do(ctx, dashboard.Mutation{
		Key:         fmt.Sprintf("store-types.delete:%d", id),
		Confirm:     "Are you sure you want to delete this store type?",
		Invalidates: invalidates,
		Success:     "Store type deleted successfully!",
		Failure:     "Failed to delete store type",
		Run:         func(ctx context.Context) error { return s.client.Delete(ctx, id) },
	})
}

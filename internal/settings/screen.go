package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
)

const (
	updateSuccess = "Settings updated successfully!"
	saveFailure   = "Failed to save settings"
)

var (
	invalidates = []querycache.Resource{querycache.ResourceSettings}

	ErrNoSettings = errors.New("settings have not been loaded")
)

// Screen is the settings page. There is one settings row; when the server
// has none the edit dialog creates it.
type Screen struct {
	client *Client
	runner *dashboard.Runner

	Current *querycache.Reader[*Setting]
	Edit    *dashboard.FormDialog[Form]
}

func NewScreen(client *Client, runner *dashboard.Runner) *Screen {
	return &Screen{
		client: client,
		runner: runner,
		Edit:   dashboard.NewFormDialog(form.New(form.ModeEdit, Form{}, Schema)),
	}
}

func (s *Screen) Mount(ctx context.Context) error {
	s.Current = querycache.Mount(ctx, s.runner.Cache(), querycache.SettingsKey(), s.client.Get)
	_, err := s.Current.Data()
	return err
}

func (s *Screen) Close() {
	if s.Current != nil {
		s.Current.Close()
	}
}

// Setting returns the last loaded settings row, or nil.
func (s *Screen) Setting() *Setting {
	if s.Current == nil {
		return nil
	}
	current, _ := s.Current.Data()
	return current
}

// OpenEdit seeds the dialog from the loaded settings, or opens it empty.
func (s *Screen) OpenEdit() error {
	if current := s.Setting(); current != nil {
		return s.Edit.OpenFor(current.ID, FromEntity(*current))
	}
	s.Edit.Open()
	return nil
}

func (s *Screen) SubmitEdit(ctx context.Context) error {
	id, ok := s.Edit.Session().TargetID()
	return s.Edit.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         "settings.save",
		Invalidates: invalidates,
		Success:     updateSuccess,
		Failure:     saveFailure,
	}, func(ctx context.Context, f Form) error {
		var err error
		if ok {
			_, err = s.client.Update(ctx, id, f.Input())
		} else {
			_, err = s.client.Create(ctx, f.Input())
		}
		return err
	})
}

// SetMaintenance turning off is sent at once with the stored message.
// Turning on opens the edit dialog with maintenance mode set, since a
// message is required.
func (s *Screen) SetMaintenance(ctx context.Context, enabled bool) error {
	current := s.Setting()
	if current == nil {
		return ErrNoSettings
	}
	if enabled {
		if err := s.OpenEdit(); err != nil {
			return err
		}
		return s.Edit.Session().Set("maintenance_mode", func(f *Form) { f.MaintenanceMode = true })
	}
	return s.runner.Do(ctx, dashboard.Mutation{
		Key:         fmt.Sprintf("settings.maintenance:%d", current.ID),
		Invalidates: invalidates,
		Success:     updateSuccess,
		Failure:     saveFailure,
		Run: func(ctx context.Context) error {
			_, err := s.client.ToggleMaintenance(ctx, current.ID, MaintenanceRequest{
				MaintenanceMode:    false,
				MaintenanceMessage: current.MaintenanceMessage,
			})
			return err
		},
	})
}

package profile

import (
	"context"
	"errors"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
	"github.com/angelmondragon/delivery-admin/internal/session"
)

var (
	invalidates = []querycache.Resource{querycache.ResourceProfile}

	ErrNoProfile = errors.New("profile has not been loaded")
)

// Screen is the profile page. A saved profile is mirrored into the session.
type Screen struct {
	client  *Client
	session *session.Session
	runner  *dashboard.Runner

	Current *querycache.Reader[*Profile]
	Edit    *dashboard.FormDialog[Form]
}

func NewScreen(client *Client, sess *session.Session, runner *dashboard.Runner) *Screen {
	return &Screen{
		client:  client,
		session: sess,
		runner:  runner,
		Edit:    dashboard.NewFormDialog(form.New(form.ModeEdit, Form{}, Schema)),
	}
}

func (s *Screen) Mount(ctx context.Context) error {
	s.Current = querycache.Mount(ctx, s.runner.Cache(), querycache.ProfileKey(), s.client.Get)
	_, err := s.Current.Data()
	return err
}

func (s *Screen) Close() {
	if s.Current != nil {
		s.Current.Close()
	}
}

func (s *Screen) Profile() *Profile {
	if s.Current == nil {
		return nil
	}
	current, _ := s.Current.Data()
	return current
}

func (s *Screen) OpenEdit() error {
	current := s.Profile()
	if current == nil {
		return ErrNoProfile
	}
	return s.Edit.OpenFor(current.ID, FromEntity(*current))
}

func (s *Screen) SubmitEdit(ctx context.Context) error {
	return s.Edit.Submit(ctx, s.runner, dashboard.Mutation{
		Key:         "profile.update",
		Invalidates: invalidates,
		Success:     "Profile updated successfully!",
		Failure:     "Failed to update profile",
	}, func(ctx context.Context, f Form) error {
		updated, err := s.client.Update(ctx, f.Input())
		if err != nil {
			return err
		}
		if s.session == nil {
			return nil
		}
		return s.session.SetUser(ctx, updated.SessionUser())
	})
}

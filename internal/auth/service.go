package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/angelmondragon/delivery-admin/internal/form"
	"github.com/angelmondragon/delivery-admin/internal/session"
	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
	pkgerrors "github.com/angelmondragon/delivery-admin/pkg/errors"
)

const (
	resource            = "auth"
	missingTokenMessage = "login response did not include a token"
)

type sessionWriter interface {
	Establish(ctx context.Context, token string, user *session.User) error
	SetUser(ctx context.Context, user *session.User) error
	Logout(ctx context.Context) error
}

// Service signs the operator in and out of the console.
type Service struct {
	api     *apiclient.Client
	session sessionWriter
}

func NewService(api *apiclient.Client, sess sessionWriter) (*Service, error) {
	if api == nil {
		return nil, errors.New("api client required")
	}
	if sess == nil {
		return nil, errors.New("session required")
	}
	return &Service{api: api, session: sess}, nil
}

// Login posts the credentials and stores the returned token and user.
func (s *Service) Login(ctx context.Context, identifier, password string) (*session.User, error) {
	values := Credentials{Identifier: identifier, Password: password}
	if fields := LoginSchema.Validate(values); fields != nil {
		return nil, &form.ValidationError{Fields: fields}
	}

	var out LoginResponse
	err := s.api.Do(ctx, apiclient.Request{
		Resource: resource,
		Method:   http.MethodPost,
		Path:     "auth/login",
		JSON:     NewLoginRequest(identifier, password),
		Envelope: apiclient.EnvelopeNone,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, missingTokenMessage)
	}
	if err := s.session.Establish(ctx, out.Token, out.User); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session")
	}
	return out.User, nil
}

// Register creates an account and mirrors the returned user. The server
// does not issue a token here, so the session stays signed out.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*session.User, error) {
	if fields := RegisterSchema.Validate(req); fields != nil {
		return nil, &form.ValidationError{Fields: fields}
	}

	var out RegisterResponse
	err := s.api.Do(ctx, apiclient.Request{
		Resource: resource,
		Method:   http.MethodPost,
		Path:     "auth/register",
		JSON:     req,
		Envelope: apiclient.EnvelopeNone,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.User != nil {
		if err := s.session.SetUser(ctx, out.User); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session user")
		}
	}
	return out.User, nil
}

// Logout drops the token and the mirrored user. Nothing is sent to the API.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

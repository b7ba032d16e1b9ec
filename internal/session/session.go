package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/delivery-admin/pkg/types"
	"github.com/golang-jwt/jwt/v5"
)

// User is the operator profile mirrored next to the access token.
type User struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Phone  string         `json:"phone"`
	Avatar string         `json:"avatar,omitempty"`
	Role   *types.RoleRef `json:"role,omitempty"`
}

// Record is what a Store persists between runs.
type Record struct {
	Token string
	User  *User
}

// Store persists the session record. Load on an empty store returns a zero
// Record and no error.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}

// Session holds the operator credential and profile mirror for one console
// process. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
	user  *User
}

// New builds a session over store. A nil store keeps everything in memory.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Init loads the persisted record.
func (s *Session) Init(ctx context.Context) error {
	rec, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = rec.Token
	s.user = cloneUser(rec.User)
	s.mu.Unlock()
	return nil
}

// Establish records a freshly issued token and the user returned with it.
func (s *Session) Establish(ctx context.Context, token string, user *User) error {
	token = strings.TrimSpace(token)
	s.mu.Lock()
	s.token = token
	s.user = cloneUser(user)
	rec := s.recordLocked()
	s.mu.Unlock()
	return s.store.Save(ctx, rec)
}

// SetUser replaces the mirrored profile without touching the token.
func (s *Session) SetUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	s.user = cloneUser(user)
	rec := s.recordLocked()
	s.mu.Unlock()
	return s.store.Save(ctx, rec)
}

// Logout forgets the token and profile, in memory and in the store.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// AccessToken satisfies apiclient.CredentialSource.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// Authenticated reports whether a token is held. Expiry is left to the server.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// ExpiresAt reads the exp claim from the token without verifying it.
// Opaque tokens report false.
func (s *Session) ExpiresAt() (time.Time, bool) {
	return tokenExpiry(s.AccessToken())
}

func (s *Session) recordLocked() Record {
	return Record{Token: s.token, User: cloneUser(s.user)}
}

func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Role != nil {
		role := *u.Role
		out.Role = &role
	}
	return &out
}

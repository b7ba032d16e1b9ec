package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	redisclient "github.com/angelmondragon/delivery-admin/pkg/redis"
	"github.com/angelmondragon/delivery-admin/pkg/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		Subject:   "1",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestFileStorePersistsAcrossSessions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileStore(path, "access_token")
	require.NoError(t, err)

	sess := New(store)
	require.NoError(t, sess.Init(ctx))
	require.False(t, sess.Authenticated())

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, exp)
	user := &User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: &types.RoleRef{ID: 1, Role: "admin"}}
	require.NoError(t, sess.Establish(ctx, token, user))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded := New(store)
	require.NoError(t, reloaded.Init(ctx))
	require.Equal(t, token, reloaded.AccessToken())
	require.Equal(t, "admin", reloaded.User().Role.Role)

	got, ok := reloaded.ExpiresAt()
	require.True(t, ok)
	require.True(t, got.Equal(exp), "expected %v, got %v", exp, got)

	require.NoError(t, reloaded.Logout(ctx))
	require.False(t, reloaded.Authenticated())
	require.Nil(t, reloaded.User())
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected session file removed, got %v", err)
	}
}

func TestFileStoreIgnoresOtherCookie(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	writer, _ := NewFileStore(path, "access_token")
	require.NoError(t, writer.Save(ctx, Record{Token: "opaque", User: &User{ID: 2}}))

	reader, _ := NewFileStore(path, "admin_token")
	rec, err := reader.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, rec.Token)
	require.Equal(t, int64(2), rec.User.ID)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	store, _ := NewFileStore(path, "")
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSetUserKeepsToken(t *testing.T) {
	ctx := context.Background()
	sess := New(nil)
	require.NoError(t, sess.Establish(ctx, " opaque-token ", &User{ID: 1, Name: "Old"}))
	require.NoError(t, sess.SetUser(ctx, &User{ID: 1, Name: "New"}))

	require.Equal(t, "opaque-token", sess.AccessToken())
	require.Equal(t, "New", sess.User().Name)
	_, ok := sess.ExpiresAt()
	require.False(t, ok, "opaque tokens have no expiry")

	mirror := sess.User()
	mirror.Name = "mutated"
	require.Equal(t, "New", sess.User().Name)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()
	store := &RedisStore{kv: kv, keys: kv, cookieName: "access_token"}

	token := signedToken(t, time.Now().Add(30*time.Minute))
	require.NoError(t, store.Save(ctx, Record{Token: token, User: &User{ID: 5, Name: "Ops"}}))
	if ttl := kv.ttl["sess:access_token"]; ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("unexpected token ttl %s", ttl)
	}

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, token, rec.Token)
	require.Equal(t, "Ops", rec.User.Name)

	require.NoError(t, store.Save(ctx, Record{Token: token}))
	rec, err = store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, rec.User)

	require.NoError(t, store.Clear(ctx))
	rec, err = store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, rec.Token)
}

func TestRedisStoreCombinesWriteErrors(t *testing.T) {
	kv := newMockKV()
	kv.failSet = errors.New("readonly replica")
	store := &RedisStore{kv: kv, keys: kv, cookieName: "access_token"}

	err := store.Save(context.Background(), Record{Token: "opaque", User: &User{ID: 1}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "readonly replica")
	require.Equal(t, 2, kv.setCalls)
}

type mockKV struct {
	mu       sync.Mutex
	data     map[string]string
	ttl      map[string]time.Duration
	failSet  error
	setCalls int
}

func newMockKV() *mockKV {
	return &mockKV{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *mockKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.failSet != nil {
		return m.failSet
	}
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = ttl
	return nil
}

func (m *mockKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return v, nil
}

func (m *mockKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockKV) SessionTokenKey(cookieName string) string { return "sess:" + cookieName }
func (m *mockKV) SessionUserKey() string                   { return "sess:user" }

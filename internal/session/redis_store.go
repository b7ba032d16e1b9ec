package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/delivery-admin/pkg/config"
	redisclient "github.com/angelmondragon/delivery-admin/pkg/redis"
	"go.uber.org/multierr"
)

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionTokenKey(cookieName string) string
	SessionUserKey() string
}

// RedisStore shares one operator session across machines through Redis.
type RedisStore struct {
	kv         kvStore
	keys       sessionKeyer
	cookieName string
}

func NewRedisStore(client *redisclient.Client, cookieName string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if cookieName == "" {
		cookieName = config.DefaultCookieName
	}
	return &RedisStore{kv: client, keys: client, cookieName: cookieName}, nil
}

func (r *RedisStore) Load(ctx context.Context) (Record, error) {
	var rec Record

	token, err := r.kv.Get(ctx, r.keys.SessionTokenKey(r.cookieName))
	switch {
	case errors.Is(err, redisclient.ErrNotFound):
	case err != nil:
		return Record{}, fmt.Errorf("load session token: %w", err)
	default:
		rec.Token = token
	}

	raw, err := r.kv.Get(ctx, r.keys.SessionUserKey())
	switch {
	case errors.Is(err, redisclient.ErrNotFound):
	case err != nil:
		return Record{}, fmt.Errorf("load session user: %w", err)
	default:
		var user User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return Record{}, fmt.Errorf("decode session user: %w", err)
		}
		rec.User = &user
	}
	return rec, nil
}

// Save writes the token with a TTL matching its exp claim, when it has one.
func (r *RedisStore) Save(ctx context.Context, rec Record) error {
	var errs error

	tokenKey := r.keys.SessionTokenKey(r.cookieName)
	if rec.Token == "" {
		errs = multierr.Append(errs, r.kv.Del(ctx, tokenKey))
	} else {
		var ttl time.Duration
		if exp, ok := tokenExpiry(rec.Token); ok {
			ttl = time.Until(exp)
			if ttl <= 0 {
				ttl = time.Second
			}
		}
		errs = multierr.Append(errs, r.kv.Set(ctx, tokenKey, rec.Token, ttl))
	}

	userKey := r.keys.SessionUserKey()
	if rec.User == nil {
		errs = multierr.Append(errs, r.kv.Del(ctx, userKey))
	} else {
		raw, err := json.Marshal(rec.User)
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("encode session user: %w", err))
		}
		errs = multierr.Append(errs, r.kv.Set(ctx, userKey, string(raw), 0))
	}
	return errs
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.kv.Del(ctx, r.keys.SessionTokenKey(r.cookieName), r.keys.SessionUserKey())
}

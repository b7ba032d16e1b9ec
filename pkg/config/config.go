package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DELIVERY_ADMIN"

	EnvAppEnv        = "DELIVERY_ADMIN_APP_ENV"
	EnvLogLevel      = "DELIVERY_ADMIN_LOG_LEVEL"
	EnvAPIURL        = "DELIVERY_ADMIN_API_URL"
	EnvAPITimeout    = "DELIVERY_ADMIN_API_TIMEOUT"
	EnvSessionStore  = "DELIVERY_ADMIN_SESSION_STORE"
	EnvSessionPath   = "DELIVERY_ADMIN_SESSION_PATH"
	EnvSessionCookie = "DELIVERY_ADMIN_SESSION_COOKIE"
	EnvRedisURL      = "DELIVERY_ADMIN_REDIS_URL"
	EnvRedisAddr     = "DELIVERY_ADMIN_REDIS_ADDR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"

	DefaultCookieName = "access_token"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.normalize(); err != nil {
		return nil, err
	}
	if cfg.Session.Store == SessionStoreRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("either %s or %s is required for the redis session store", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DELIVERY_ADMIN_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"DELIVERY_ADMIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DELIVERY_ADMIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the console at the marketplace REST API. A zero Timeout
// leaves the transport defaults in charge.
type APIConfig struct {
	BaseURL   string        `envconfig:"DELIVERY_ADMIN_API_URL" required:"true"`
	Timeout   time.Duration `envconfig:"DELIVERY_ADMIN_API_TIMEOUT" default:"0s"`
	UserAgent string        `envconfig:"DELIVERY_ADMIN_API_USER_AGENT" default:"delivery-admin"`
}

func (a *APIConfig) validate() error {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.BaseURL == "" {
		return fmt.Errorf("%s is required", EnvAPIURL)
	}
	if !strings.HasPrefix(a.BaseURL, "http://") && !strings.HasPrefix(a.BaseURL, "https://") {
		return fmt.Errorf("%s must be an http(s) url, got %q", EnvAPIURL, a.BaseURL)
	}
	if a.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", EnvAPITimeout)
	}
	return nil
}

type SessionConfig struct {
	Store      string `envconfig:"DELIVERY_ADMIN_SESSION_STORE" default:"file"`
	Path       string `envconfig:"DELIVERY_ADMIN_SESSION_PATH"`
	CookieName string `envconfig:"DELIVERY_ADMIN_SESSION_COOKIE" default:"access_token"`
}

func (s *SessionConfig) normalize() error {
	s.Store = strings.ToLower(strings.TrimSpace(s.Store))
	switch s.Store {
	case "":
		s.Store = SessionStoreFile
	case SessionStoreFile, SessionStoreRedis:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvSessionStore, SessionStoreFile, SessionStoreRedis, s.Store)
	}
	if strings.TrimSpace(s.CookieName) == "" {
		s.CookieName = DefaultCookieName
	}
	if s.Store == SessionStoreFile && s.Path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolving session path (set %s): %w", EnvSessionPath, err)
		}
		s.Path = filepath.Join(dir, "delivery-admin", "session.json")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"DELIVERY_ADMIN_REDIS_URL"`
	Address      string        `envconfig:"DELIVERY_ADMIN_REDIS_ADDR"`
	Password     string        `envconfig:"DELIVERY_ADMIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"DELIVERY_ADMIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DELIVERY_ADMIN_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"DELIVERY_ADMIN_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"DELIVERY_ADMIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DELIVERY_ADMIN_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"DELIVERY_ADMIN_REDIS_WRITE_TIMEOUT" default:"3s"`
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelmondragon/delivery-admin/internal/dashboard"
	"github.com/angelmondragon/delivery-admin/internal/querycache"
	"github.com/angelmondragon/delivery-admin/internal/session"
	"github.com/angelmondragon/delivery-admin/pkg/apiclient"
	"github.com/angelmondragon/delivery-admin/pkg/config"
	"github.com/angelmondragon/delivery-admin/pkg/logger"
	"github.com/angelmondragon/delivery-admin/pkg/metrics"
	"github.com/angelmondragon/delivery-admin/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run())
}

func run() int {
	logg := logger.New(logger.Options{ServiceName: "admin", Level: logger.ParseLevel(os.Getenv(config.EnvLogLevel))})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return 1
	}

	logg = logger.New(logger.Options{
		ServiceName: "admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openSessionStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to open session store", err)
		return 1
	}
	defer closeStore()

	sess := session.New(store)
	if err := sess.Init(ctx); err != nil {
		logg.Error(ctx, "failed to restore session", err)
		return 1
	}

	reg := prometheus.NewRegistry()

	apiOpts := []apiclient.Option{
		apiclient.WithCredentials(sess),
		apiclient.WithLogger(logg),
		apiclient.WithMetrics(metrics.NewClientMetrics(reg)),
		apiclient.WithUserAgent(cfg.API.UserAgent),
	}
	if cfg.API.Timeout > 0 {
		apiOpts = append(apiOpts, apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))
	}
	api, err := apiclient.New(cfg.API.BaseURL, apiOpts...)
	if err != nil {
		logg.Error(ctx, "failed to create api client", err)
		return 1
	}

	cache := querycache.New(
		querycache.WithLogger(logg),
		querycache.WithMetrics(metrics.NewCacheMetrics(reg)),
	)

	confirmer := skipWhenAssumed(dashboard.NewPromptConfirmer(os.Stdin, os.Stdout))
	runner := dashboard.NewRunner(cache, dashboard.NewConsoleNotifier(os.Stdout, logg), confirmer, logg)

	a, err := newApp(appParams{
		API:     api,
		Session: sess,
		Runner:  runner,
		Logger:  logg,
		Out:     os.Stdout,
		ErrOut:  os.Stderr,
	})
	if err != nil {
		logg.Error(ctx, "failed to build console", err)
		return 1
	}

	code := 0
	if err := a.run(ctx, os.Args[1:]); err != nil {
		code = 1
		if errors.Is(err, errUsage) {
			code = 2
		}
		fmt.Fprintln(os.Stderr, "error:", err)
	}

	cache.Wait()
	logMetrics(ctx, logg, reg)
	return code
}

func openSessionStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		store, err := session.NewRedisStore(client, cfg.Session.CookieName)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}, nil
	default:
		store, err := session.NewFileStore(cfg.Session.Path, cfg.Session.CookieName)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func logMetrics(ctx context.Context, logg *logger.Logger, g prometheus.Gatherer) {
	samples, err := metrics.Summarize(g)
	if err != nil {
		logg.Warn(ctx, "failed to gather metrics: "+err.Error())
		return
	}
	for _, s := range samples {
		fctx := logg.WithFields(ctx, map[string]any{
			"metric": s.Name,
			"labels": s.Labels,
			"value":  s.Value,
			"count":  s.Count,
		})
		logg.Debug(fctx, "metric")
	}
}

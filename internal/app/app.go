// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/internal/bootstrap"
	"github.com/AccelByte/extend-churn-dashboard/internal/config"
	"github.com/AccelByte/extend-churn-dashboard/internal/server"
	"github.com/AccelByte/extend-churn-dashboard/pkg/backend"
	"github.com/AccelByte/extend-churn-dashboard/pkg/handler"
	"github.com/AccelByte/extend-churn-dashboard/pkg/inference"
	"github.com/AccelByte/extend-churn-dashboard/pkg/session"
	"github.com/AccelByte/extend-churn-dashboard/pkg/simulator"
	"github.com/cenkalti/backoff/v4"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	httpServer        *server.HTTPServer
	servers           []server.Server
	redisClient       *redis.Client
	backendClient     *backend.Client
	store             session.Store
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// ============================================================
// Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Telemetry (so every later component picks up the tracer)
// 2. Session store (Redis only when SESSION_STORE=redis)
// 3. Analytics backend clients (inference + data views)
// 4. Explanation engine and simulation service
// 5. Servers (dashboard API, gRPC health, metrics)
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(cfg.OtelServiceName, cfg.Environment, cfg.OtelEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	// ============================================================
	// Step 2: Initialize the session store
	// ============================================================
	if cfg.SessionStore == config.SessionStoreRedis {
		if err := app.initRedis(ctx); err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
	}
	app.store = bootstrap.InitSessionStore(app.redisClient, cfg.SessionTTL)

	// ============================================================
	// Step 3: Initialize analytics backend clients
	// ============================================================
	// Both clients share the base URL. The inference client never
	// fails a request; the views fall back to static data.
	// ============================================================
	baseURL := cfg.BackendURL()
	predictor := inference.NewClient(nil, inference.ClientConfig{BaseURL: baseURL, Timeout: cfg.BackendTimeout})
	app.backendClient = backend.NewClient(nil, backend.ClientConfig{BaseURL: baseURL, Timeout: cfg.BackendTimeout})

	dash, err := bootstrap.InitViews(app.backendClient, cfg.FallbackPath, cfg.LedgerLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to init views: %w", err)
	}

	// ============================================================
	// Step 4: Explanation engine and simulation service
	// ============================================================
	engine, err := bootstrap.InitExplainer(cfg.DriversPath)
	if err != nil {
		return nil, err
	}
	sim := simulator.NewService(predictor, engine, app.store)

	// ============================================================
	// Step 5: Setup servers
	// ============================================================
	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, handler.NewHandler(app.store, sim, dash))
	if err := app.httpServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup HTTP server: %w", err)
	}

	checks := map[string]server.Pinger{
		server.BackendService:  app.backendClient,
		server.SessionsService: app.store,
	}
	grpcServer := server.NewGRPCServer(cfg.GRPCPort, checks, server.DefaultHealthInterval)
	if err := grpcServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	metricsServer := server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// Started in this order, stopped in the same order.
	app.servers = []server.Server{app.httpServer, grpcServer, metricsServer}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initRedis initializes the Redis client for the session store.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisAddr(),
		Password:     a.cfg.RedisPassword,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(a.cfg.RedisRetryDelayMs) * time.Millisecond
	maxRetries := backoff.WithMaxRetries(b, uint64(a.cfg.RedisMaxRetries))

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		backoff.WithContext(maxRetries, ctx),
	)

	if err != nil {
		client.Close()
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// waitForBackend checks the analytics backend once at startup.
// An unreachable backend is only logged: the dashboard serves fallbacks until it wakes up.
func (a *App) waitForBackend(ctx context.Context) {
	if a.cfg.ReadinessRetries == 0 {
		return
	}

	if err := backend.WaitReady(ctx, a.backendClient, a.cfg.ReadinessRetries, time.Minute); err != nil {
		logrus.Warnf("analytics backend at %s not reachable, serving fallbacks: %v", a.backendClient.BaseURL(), err)
	}
}

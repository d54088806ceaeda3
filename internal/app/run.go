// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run(ctx context.Context) error {
	for _, s := range a.servers {
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("failed to start %s server: %w", s.Name(), err)
		}
	}

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.waitForBackend(ctx)

	logrus.Info("application started successfully")

	<-ctx.Done()

	logrus.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down all application components.
//
// ============================================================
// Shutdown order
// ============================================================
// Components are shut down in reverse dependency order:
// 1. Stop accepting new requests (API, gRPC and metrics servers)
// 2. Close external connections (Redis)
// 3. Flush telemetry data (OpenTelemetry)
//
// Shutdown errors are logged but don't stop the shutdown
// sequence. Each component gets a chance to clean up.
// ============================================================
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down application...")

	// ============================================================
	// Step 1: Shutdown servers (stop accepting new requests)
	// ============================================================
	for _, s := range a.servers {
		if err := s.Shutdown(ctx); err != nil {
			logrus.Errorf("%s shutdown error: %v", s.Name(), err)
		}
	}

	// ============================================================
	// Step 2: Close external connections
	// ============================================================
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logrus.Errorf("Redis close error: %v", err)
		}
	}

	// ============================================================
	// Step 3: Flush telemetry data
	// ============================================================
	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
	return nil
}

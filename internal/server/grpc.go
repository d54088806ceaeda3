// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/common"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Health service names. The empty service name reports the process itself and is always SERVING.
const (
	BackendService  = "churn.dashboard.Backend"
	SessionsService = "churn.dashboard.Sessions"
)

// DefaultHealthInterval is how often dependencies are pinged for the health status.
const DefaultHealthInterval = 30 * time.Second

// Pinger is a dependency whose reachability is published as a health status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GRPCServer manages the gRPC server lifecycle.
type GRPCServer struct {
	server   *grpc.Server
	port     int
	health   *health.Server
	checks   map[string]Pinger
	interval time.Duration
	cancel   context.CancelFunc
}

// NewGRPCServer creates a new gRPC server instance. Each entry of checks is pinged
// every interval and reported under its service name.
func NewGRPCServer(port int, checks map[string]Pinger, interval time.Duration) *GRPCServer {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	return &GRPCServer{
		port:     port,
		health:   health.NewServer(),
		checks:   checks,
		interval: interval,
	}
}

// Setup configures the gRPC server with interceptors and registers the health service.
func (s *GRPCServer) Setup() error {
	unaryInterceptors := []grpc.UnaryServerInterceptor{
		logging.UnaryServerInterceptor(common.InterceptorLogger(logrus.StandardLogger())),
	}
	streamInterceptors := []grpc.StreamServerInterceptor{
		logging.StreamServerInterceptor(common.InterceptorLogger(logrus.StandardLogger())),
	}

	// Create server with OpenTelemetry instrumentation
	s.server = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(unaryInterceptors...),
		grpc.ChainStreamInterceptor(streamInterceptors...),
	)

	// ============================================================
	// Enable gRPC server features
	// ============================================================
	// - Reflection: allows tools like grpcurl to inspect services
	// - Health check: for Kubernetes liveness/readiness checks,
	//   plus a per-service status for each dependency
	// ============================================================
	reflection.Register(s.server)
	grpc_health_v1.RegisterHealthServer(s.server, s.health)

	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	for service := range s.checks {
		s.health.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_UNKNOWN)
	}

	logrus.Infof("gRPC reflection and health check enabled")

	return nil
}

// Start begins listening and serving gRPC requests, and starts the dependency health loop.
func (s *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	go func() {
		logrus.Infof("gRPC server listening on port %d", s.port)
		if err := s.server.Serve(lis); err != nil {
			logrus.Fatalf("gRPC server failed: %v", err)
		}
	}()

	if len(s.checks) > 0 {
		watchCtx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.watch(watchCtx)
	}

	return nil
}

func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		for service := range s.checks {
			s.check(ctx, service)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// check pings one dependency and publishes the result.
func (s *GRPCServer) check(ctx context.Context, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := s.checks[service].Ping(pingCtx); err != nil {
		logrus.Warnf("%s unreachable: %v", service, err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus(service, status)
	return status
}

// Name identifies the server in lifecycle logs.
func (s *GRPCServer) Name() string {
	return "gRPC health"
}

// Shutdown marks every service NOT_SERVING, stops the health loop and drains open calls.
func (s *GRPCServer) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}

// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/metrics"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func healthStatus(t *testing.T, s *GRPCServer, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := s.health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("health Check(%q) error = %v", service, err)
	}
	return resp.Status
}

func TestHealthChecks(t *testing.T) {
	analytics := &stubPinger{}
	sessions := &stubPinger{}
	s := NewGRPCServer(0, map[string]Pinger{BackendService: analytics, SessionsService: sessions}, time.Second)
	if err := s.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if got := healthStatus(t, s, BackendService); got != grpc_health_v1.HealthCheckResponse_UNKNOWN {
		t.Errorf("status before first ping = %v, expected UNKNOWN", got)
	}

	s.check(context.Background(), BackendService)
	s.check(context.Background(), SessionsService)
	if got := healthStatus(t, s, BackendService); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("status with reachable backend = %v, expected SERVING", got)
	}

	analytics.err = errors.New("connection refused")
	s.check(context.Background(), BackendService)
	if got := healthStatus(t, s, BackendService); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status with unreachable backend = %v, expected NOT_SERVING", got)
	}

	// dependencies are reported independently and the process itself stays healthy
	if got := healthStatus(t, s, SessionsService); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("sessions status = %v, expected SERVING", got)
	}
	if got := healthStatus(t, s, ""); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("overall status = %v, expected SERVING", got)
	}
}

func TestMetricsServer_ExposesDashboardMetrics(t *testing.T) {
	m := NewMetricsServer(0, "/metrics")
	if err := m.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	metrics.StaleResponsesTotal.Inc()

	rec := httptest.NewRecorder()
	m.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "churn_dashboard_stale_responses_total") {
		t.Error("metrics output missing churn_dashboard_stale_responses_total")
	}
}

func TestServers_ShutdownWithoutStart(t *testing.T) {
	grpcServer := NewGRPCServer(0, nil, 0)
	if err := grpcServer.Setup(); err != nil {
		t.Fatalf("gRPC Setup() error = %v", err)
	}
	metricsServer := NewMetricsServer(0, "/metrics")
	if err := metricsServer.Setup(); err != nil {
		t.Fatalf("metrics Setup() error = %v", err)
	}

	for _, s := range []Server{grpcServer, metricsServer} {
		if err := s.Shutdown(context.Background()); err != nil {
			t.Errorf("%s Shutdown() error = %v", s.Name(), err)
		}
	}
}

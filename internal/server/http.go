// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPServer serves the dashboard REST API.
type HTTPServer struct {
	server  *http.Server
	port    int
	handler *handler.Handler
}

// NewHTTPServer creates a new dashboard API server instance.
func NewHTTPServer(port int, h *handler.Handler) *HTTPServer {
	return &HTTPServer{
		port:    port,
		handler: h,
	}
}

// Setup builds the router and middleware chain.
func (s *HTTPServer) Setup() error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger(logrus.StandardLogger()))
	r.Use(middleware.Recoverer)

	s.handler.Routes(r)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           otelhttp.NewHandler(r, "dashboard"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Handler returns the instrumented router. Setup must have been called.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Name identifies the server in lifecycle logs.
func (s *HTTPServer) Name() string {
	return "dashboard API"
}

// Start begins serving the API on the configured port.
func (s *HTTPServer) Start(ctx context.Context) error {
	serve(s.Name(), s.server)
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

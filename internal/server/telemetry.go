// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-churn-dashboard/pkg/common"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// tracePropagator carries B3 and W3C headers so a dashboard request and the
// analytics backend calls it makes share one trace.
func tracePropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(b3.New(), propagation.TraceContext{}, propagation.Baggage{})
}

// SetupTelemetry installs the global Zipkin tracer provider and propagator.
// The returned func flushes pending spans.
func SetupTelemetry(serviceName, environment, endpoint string) (func(context.Context) error, error) {
	provider, err := common.NewTracerProvider(serviceName, environment, endpoint, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(tracePropagator())
	logrus.WithFields(logrus.Fields{
		"service":     serviceName,
		"environment": environment,
	}).Info("tracing enabled")

	return func(ctx context.Context) error {
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("flush spans: %w", err)
		}
		return nil
	}, nil
}

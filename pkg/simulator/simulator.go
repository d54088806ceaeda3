// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/common"
	"github.com/AccelByte/extend-churn-dashboard/pkg/dashboard"
	"github.com/AccelByte/extend-churn-dashboard/pkg/explain"
	"github.com/AccelByte/extend-churn-dashboard/pkg/inference"
	"github.com/AccelByte/extend-churn-dashboard/pkg/metrics"
	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
	"github.com/AccelByte/extend-churn-dashboard/pkg/session"
)

// Explainer ranks illustrative drivers for a payload.
type Explainer interface {
	Explain(payload profile.Payload) []explain.Driver
}

// Outcome is the result of one risk simulation.
type Outcome struct {
	Payload    profile.Payload            `json:"payload"`
	Prediction inference.PredictionResult `json:"prediction"`
	Drivers    []explain.Driver           `json:"drivers"`
}

// Service runs risk simulations: engineer features, score remotely, explain locally.
type Service struct {
	predictor inference.Predictor
	explainer Explainer
	store     session.Store
}

// NewService creates a new simulation service.
func NewService(predictor inference.Predictor, explainer Explainer, store session.Store) *Service {
	return &Service{
		predictor: predictor,
		explainer: explainer,
		store:     store,
	}
}

// Simulate scores p without touching any session.
func (s *Service) Simulate(ctx context.Context, p profile.MemberProfile) Outcome {
	start := time.Now()
	defer func() { metrics.SimulationDuration.Observe(time.Since(start).Seconds()) }()

	return s.run(ctx, profile.NewPayload(p))
}

// SimulateSession runs a simulation on the session's current form.
// The call is tagged with the next sequence number; if a newer simulation was started
// while this one was in flight, its result is dropped and the newer state is returned.
func (s *Service) SimulateSession(ctx context.Context, id string) (dashboard.State, error) {
	scope := common.GetScopeFromContext(ctx, "simulator.SimulateSession")
	defer scope.Finish()
	scope.SetAttributes("session", id)

	start := time.Now()
	defer func() { metrics.SimulationDuration.Observe(time.Since(start).Seconds()) }()

	// 1. Issue a sequence number and capture the form as it is now
	var (
		seq     uint64
		payload profile.Payload
	)
	_, err := s.store.Update(scope.Ctx, id, func(current dashboard.State) (dashboard.State, error) {
		next, err := dashboard.Reduce(current, dashboard.SimulationStarted{})
		if err != nil {
			return current, err
		}
		seq = next.IssuedSeq
		payload = next.Payload()
		return next, nil
	})
	if err != nil {
		return dashboard.State{}, fmt.Errorf("failed to start simulation: %w", err)
	}
	scope.SetAttributes("seq", seq)

	// 2. Score and explain outside the store update; the form may change meanwhile
	outcome := s.run(scope.Ctx, payload)

	// 3. Apply unless a newer simulation was issued
	stale := false
	state, err := s.store.Update(scope.Ctx, id, func(current dashboard.State) (dashboard.State, error) {
		stale = dashboard.IsStale(current, seq)
		return dashboard.Reduce(current, dashboard.PredictionReceived{
			Seq:     seq,
			Result:  outcome.Prediction,
			Drivers: outcome.Drivers,
		})
	})
	if err != nil {
		return dashboard.State{}, fmt.Errorf("failed to apply simulation: %w", err)
	}

	if stale {
		metrics.StaleResponsesTotal.Inc()
		scope.Log.Infof("discarded stale prediction seq=%d for session %s (latest %d)", seq, id, state.IssuedSeq)
	}

	return state, nil
}

func (s *Service) run(ctx context.Context, payload profile.Payload) Outcome {
	result := s.predictor.Predict(ctx, payload)

	// no explanation is shown without a score
	drivers := []explain.Driver{}
	if !result.IsOffline() {
		drivers = s.explainer.Explain(payload)
	}

	return Outcome{
		Payload:    payload,
		Prediction: result,
		Drivers:    drivers,
	}
}

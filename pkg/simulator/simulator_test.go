// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package simulator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/dashboard"
	"github.com/AccelByte/extend-churn-dashboard/pkg/explain"
	"github.com/AccelByte/extend-churn-dashboard/pkg/inference"
	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
	"github.com/AccelByte/extend-churn-dashboard/pkg/session"
)

// stubPredictor scores by age so tests can tell which request a result belongs to.
type stubPredictor struct {
	mu      sync.Mutex
	calls   int
	offline bool
	// gates, when set, block the call with the matching age until closed
	gates map[float64]chan struct{}
}

func (p *stubPredictor) Predict(_ context.Context, payload profile.Payload) inference.PredictionResult {
	p.mu.Lock()
	p.calls++
	gate := p.gates[payload.Age]
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if p.offline {
		return inference.Offline()
	}
	return inference.NewResult(payload.Age/100, payload.Balance)
}

func newTestService(t *testing.T, predictor inference.Predictor) (*Service, session.Store) {
	t.Helper()

	engine, err := explain.NewBuiltinEngine()
	if err != nil {
		t.Fatalf("NewBuiltinEngine() error = %v", err)
	}
	store := session.NewMemoryStore(session.MemoryStoreConfig{})
	return NewService(predictor, engine, store), store
}

func TestSimulate_Stateless(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{})

	out := svc.Simulate(context.Background(), profile.MemberProfile{Age: 60, Balance: 150000, EstimatedSalary: 50000, ProductsNumber: 3, ActiveMember: 1})

	if out.Prediction.Score != 0.6 || out.Prediction.RiskLevel != inference.RiskElevated {
		t.Errorf("Prediction = %+v", out.Prediction)
	}
	if out.Payload.BalanceSalaryRatio != 3 {
		t.Errorf("payload not engineered: %+v", out.Payload.EngineeredFeatures)
	}
	if len(out.Drivers) != 5 || out.Drivers[0].Name != "Member Activity" {
		t.Errorf("Drivers = %v", out.Drivers)
	}
}

func TestSimulate_OfflineHasNoDrivers(t *testing.T) {
	svc, _ := newTestService(t, &stubPredictor{offline: true})

	out := svc.Simulate(context.Background(), profile.DefaultProfile())
	if !out.Prediction.IsOffline() {
		t.Errorf("Prediction = %+v, expected offline", out.Prediction)
	}
	if out.Drivers == nil || len(out.Drivers) != 0 {
		t.Errorf("Drivers = %v, expected empty list", out.Drivers)
	}
}

func TestSimulateSession(t *testing.T) {
	predictor := &stubPredictor{}
	svc, store := newTestService(t, predictor)
	ctx := context.Background()

	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	state, err := svc.SimulateSession(ctx, id)
	if err != nil {
		t.Fatalf("SimulateSession() error = %v", err)
	}
	if state.Prediction == nil || state.Prediction.Score != 0.35 {
		t.Errorf("Prediction = %+v, expected score from the default form", state.Prediction)
	}
	if state.IssuedSeq != 1 || state.AppliedSeq != 1 || state.InFlight {
		t.Errorf("seq state = issued %d applied %d inFlight %v", state.IssuedSeq, state.AppliedSeq, state.InFlight)
	}
	if len(state.Drivers) != 5 {
		t.Errorf("got %d drivers, expected 5", len(state.Drivers))
	}

	if _, err := svc.SimulateSession(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("SimulateSession(missing) error = %v, expected ErrNotFound", err)
	}
}

func TestSimulateSession_StaleResponseDiscarded(t *testing.T) {
	slow := make(chan struct{})
	predictor := &stubPredictor{gates: map[float64]chan struct{}{35: slow}}
	svc, store := newTestService(t, predictor)
	ctx := context.Background()

	id, _, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// first simulation on age 35 blocks inside the predictor
	firstDone := make(chan dashboard.State)
	go func() {
		state, err := svc.SimulateSession(ctx, id)
		if err != nil {
			t.Errorf("first SimulateSession() error = %v", err)
		}
		firstDone <- state
	}()

	waitForIssued(t, store, id, 1)

	// user edits the form and runs again; this one completes first
	if _, err := store.Update(ctx, id, func(s dashboard.State) (dashboard.State, error) {
		return dashboard.Reduce(s, dashboard.SetField{Name: "age", Value: 80})
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	second, err := svc.SimulateSession(ctx, id)
	if err != nil {
		t.Fatalf("second SimulateSession() error = %v", err)
	}
	if second.Prediction == nil || second.Prediction.Score != 0.8 {
		t.Fatalf("second Prediction = %+v", second.Prediction)
	}

	close(slow)
	first := <-firstDone

	if first.Prediction == nil || first.Prediction.Score != 0.8 {
		t.Errorf("stale response overwrote the newer prediction: %+v", first.Prediction)
	}
	if first.AppliedSeq != 2 {
		t.Errorf("AppliedSeq = %d, expected 2", first.AppliedSeq)
	}
}

func waitForIssued(t *testing.T, store session.Store, id string, seq uint64) {
	t.Helper()

	for i := 0; i < 1000; i++ {
		state, err := store.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if state.IssuedSeq >= seq {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("simulation seq %d never issued", seq)
}

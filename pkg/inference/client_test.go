package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
)

// newTestBackend starts a fake scoring backend answering every predict call with status and body.
func newTestBackend(t *testing.T, status int, body string) (*httptest.Server, *int32, *map[string]any) {
	t.Helper()

	var calls int32
	received := map[string]any{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Method != http.MethodPost || r.URL.Path != PredictPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, expected application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls, &received
}

func testPayload() profile.Payload {
	return profile.NewPayload(profile.DefaultProfile())
}

func TestPredict_Success(t *testing.T) {
	srv, calls, received := newTestBackend(t, http.StatusOK, `{"score": 0.82, "model": "xgb"}`)
	client := NewClient(srv.Client(), ClientConfig{BaseURL: srv.URL + "/"})

	result := client.Predict(context.Background(), testPayload())

	if result.Score != 0.82 {
		t.Errorf("Score = %v, expected 0.82", result.Score)
	}
	if result.RiskLevel != RiskHighAlert {
		t.Errorf("RiskLevel = %q, expected %q", result.RiskLevel, RiskHighAlert)
	}
	if result.RevenueImpact != 69700 {
		t.Errorf("RevenueImpact = %d, expected 69700", result.RevenueImpact)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("backend received %d requests, expected exactly 1", n)
	}

	// flat payload: profile fields and engineered fields side by side
	for _, key := range []string{"credit_score", "country_Germany", "grp_Mid_Age", "cluster", "balance_salary_ratio", "is_zero_balance"} {
		if _, ok := (*received)[key]; !ok {
			t.Errorf("request body missing key %q", key)
		}
	}
	if len(*received) != 19 {
		t.Errorf("request body has %d keys, expected 19", len(*received))
	}
}

func TestPredict_MissingScoreIsDegraded(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null score", `{"score": null}`},
		{"string score", `{"score": "high"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newTestBackend(t, http.StatusOK, tt.body)
			client := NewClient(srv.Client(), ClientConfig{BaseURL: srv.URL})

			result := client.Predict(context.Background(), testPayload())

			if result.Score != 0 || result.RevenueImpact != 0 {
				t.Errorf("result = %+v, expected zero score and impact", result)
			}
			if result.RiskLevel != RiskStable {
				t.Errorf("RiskLevel = %q, expected %q", result.RiskLevel, RiskStable)
			}
			if !result.Degraded {
				t.Error("Degraded = false, expected true")
			}
		})
	}
}

func TestScore_MissingScoreError(t *testing.T) {
	srv, _, _ := newTestBackend(t, http.StatusOK, `{"probability": 0.3}`)
	client := NewClient(srv.Client(), ClientConfig{BaseURL: srv.URL})

	_, err := client.Score(context.Background(), testPayload())
	if !errors.Is(err, ErrScoreMissing) {
		t.Errorf("Score() error = %v, expected ErrScoreMissing", err)
	}
}

func TestPredict_OfflineSentinel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		expect error
	}{
		{"server error", http.StatusInternalServerError, `{"detail": "boom"}`, ErrTransport},
		{"not found", http.StatusNotFound, `not found`, ErrTransport},
		{"malformed body", http.StatusOK, `<html>`, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newTestBackend(t, tt.status, tt.body)
			client := NewClient(srv.Client(), ClientConfig{BaseURL: srv.URL})

			if _, err := client.Score(context.Background(), testPayload()); !errors.Is(err, tt.expect) {
				t.Errorf("Score() error = %v, expected %v", err, tt.expect)
			}

			result := client.Predict(context.Background(), testPayload())
			if result != Offline() {
				t.Errorf("Predict() = %+v, expected offline sentinel", result)
			}
		})
	}
}

func TestPredict_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(nil, ClientConfig{BaseURL: url})
	result := client.Predict(context.Background(), testPayload())

	if !result.IsOffline() {
		t.Errorf("Predict() = %+v, expected offline sentinel", result)
	}
}

func TestPredict_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.Write([]byte(`{"score": 0.1}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), ClientConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	result := client.Predict(context.Background(), testPayload())

	if !result.IsOffline() {
		t.Errorf("Predict() = %+v, expected offline sentinel after timeout", result)
	}
}

package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/common"
	"github.com/AccelByte/extend-churn-dashboard/pkg/metrics"
	"github.com/AccelByte/extend-churn-dashboard/pkg/profile"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// PredictPath is the scoring resource on the analytics backend.
const PredictPath = "/api/predict"

// Predictor produces a prediction for a finalized payload. It never fails:
// failures are folded into the returned result.
type Predictor interface {
	Predict(ctx context.Context, payload profile.Payload) PredictionResult
}

// Client posts member payloads to the remote scoring endpoint.
// It issues exactly one request per call: no retries, caching or deduplication.
type Client struct {
	httpClient *http.Client
	cfg        ClientConfig
}

type ClientConfig struct {
	BaseURL string
	// Timeout bounds a single predict call. Zero means no timeout.
	Timeout time.Duration
}

// NewClient creates a new inference client. A nil httpClient gets an instrumented default.
func NewClient(httpClient *http.Client, cfg ClientConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
	}
}

// predictResponse is the declared schema of the predict reply. Only score is consumed;
// it is kept raw so a non-numeric value degrades instead of failing the whole decode.
type predictResponse struct {
	Score json.RawMessage `json:"score"`
}

// Score performs the predict call and returns the raw score.
// Errors wrap ErrTransport, ErrDecode or ErrScoreMissing.
func (c *Client) Score(ctx context.Context, payload profile.Payload) (float64, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+PredictPath, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if len(decoded.Score) == 0 || string(decoded.Score) == "null" {
		return 0, ErrScoreMissing
	}

	var score float64
	if err := json.Unmarshal(decoded.Score, &score); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrScoreMissing, string(decoded.Score))
	}

	return score, nil
}

// Predict scores payload and normalizes the outcome.
// A missing or non-numeric score resolves to 0 and marks the result degraded;
// transport and decode failures resolve to the Offline sentinel.
func (c *Client) Predict(ctx context.Context, payload profile.Payload) PredictionResult {
	scope := common.GetScopeFromContext(ctx, "inference.Predict")
	defer scope.Finish()

	score, err := c.Score(scope.Ctx, payload)
	switch {
	case err == nil:
		result := NewResult(score, payload.Balance)
		scope.SetAttributes("score", score)
		scope.Log.Infof("prediction received: score=%.4f risk=%s", score, result.RiskLevel)
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
		return result

	case errors.Is(err, ErrScoreMissing):
		scope.Log.Warnf("prediction without usable score, treating as 0: %v", err)
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeDegraded).Inc()
		result := NewResult(0, payload.Balance)
		result.Degraded = true
		return result

	default:
		scope.TraceError(err)
		scope.Log.Errorf("prediction failed, backend treated as offline: %v", err)
		metrics.PredictionsTotal.WithLabelValues(metrics.OutcomeOffline).Inc()
		return Offline()
	}
}

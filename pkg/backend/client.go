package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/common"
	"github.com/AccelByte/extend-churn-dashboard/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Resources served by the analytics backend. The value doubles as the metrics label.
const (
	ResourceMembers      = "members"
	ResourceAudit        = "audit"
	ResourceInsights     = "model-insights"
	ResourceMemberLedger = "member-ledger"
	ResourceSegmentation = "segmentation"
)

// Client reads the analytics backend. Each call issues exactly one GET with no retry.
type Client struct {
	httpClient *http.Client
	cfg        ClientConfig
}

type ClientConfig struct {
	BaseURL string
	// Timeout bounds a single fetch. Zero means no timeout.
	Timeout time.Duration
}

// NewClient creates a new backend client. A nil httpClient gets an instrumented default.
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

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Members fetches the member list and, when present, the backend-computed KPIs.
func (c *Client) Members(ctx context.Context) (*MembersResponse, error) {
	var out MembersResponse
	if err := c.get(ctx, ResourceMembers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MemberLedger fetches the ledger rows. The backend answers with a bare array.
func (c *Client) MemberLedger(ctx context.Context) ([]Member, error) {
	var out []Member
	if err := c.get(ctx, ResourceMemberLedger, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Audit fetches the data-quality report.
func (c *Client) Audit(ctx context.Context) (*AuditReport, error) {
	var out AuditReport
	if err := c.get(ctx, ResourceAudit, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ModelInsights fetches the evaluation metrics of the deployed model.
func (c *Client) ModelInsights(ctx context.Context) (*ModelInsights, error) {
	var out ModelInsights
	if err := c.get(ctx, ResourceInsights, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Segmentation fetches the projected segment points.
func (c *Client) Segmentation(ctx context.Context) ([]SegmentPoint, error) {
	var out []SegmentPoint
	if err := c.get(ctx, ResourceSegmentation, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping checks that the backend answers at all. Any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/"+ResourceInsights, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return nil
}

func (c *Client) get(ctx context.Context, resource string, out any) error {
	scope := common.GetScopeFromContext(ctx, "backend.Get")
	defer scope.Finish()
	scope.SetAttributes("resource", resource)

	err := c.fetch(scope.Ctx, resource, out)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Warnf("fetch %s failed: %v", resource, err)
		metrics.BackendFetchesTotal.WithLabelValues(resource, metrics.OutcomeFailure).Inc()
		return err
	}

	metrics.BackendFetchesTotal.WithLabelValues(resource, metrics.OutcomeSuccess).Inc()
	return nil
}

func (c *Client) fetch(ctx context.Context, resource string, out any) error {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/"+resource, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, resource, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, resource, err)
	}

	return nil
}

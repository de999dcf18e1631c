// pdp/client.go
package pdp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	pep_errors "github.com/dive25/pep/errors"
	logger "github.com/dive25/pep/logging"
	pdp_model "github.com/dive25/pep/pdp/model"
)

// DecisionPoint is the external decision oracle. The enforcement layer
// depends on this interface so tests can substitute a stub.
type DecisionPoint interface {
	Evaluate(ctx context.Context, request *pdp_model.EvaluationRequest) (*pdp_model.Decision, error)
}

// Client calls the decision endpoint over HTTP with a bounded timeout. The
// call sits in the hot path of every uncached authorization; a slow PDP
// must never stall the service past the timeout.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ DecisionPoint = &Client{}

// Evaluate POSTs the evaluation request and normalizes the response.
// Transport failures, timeouts and non-2xx statuses map to
// ErrPDPUnavailable; a reachable PDP replying without the expected shape
// maps to ErrInvalidPDPResponse. The two imply different operator
// remediation and must stay distinct.
func (c *Client) Evaluate(ctx context.Context, request *pdp_model.EvaluationRequest) (*pdp_model.Decision, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal evaluation request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build evaluation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pep_errors.ErrPDPUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: decision endpoint returned status %d",
			pep_errors.ErrPDPUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pep_errors.ErrPDPUnavailable, err)
	}

	decision, flatShape, err := pdp_model.DecodeDecision(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pep_errors.ErrInvalidPDPResponse, err)
	}
	if flatShape {
		// Shape drift worth noticing operationally.
		logger.Warn("PDP returned flat decision shape, nested shape expected",
			zap.String("endpoint", c.endpoint))
	}

	logger.Debug("PDP evaluation completed",
		zap.Bool("allow", decision.Allow),
		zap.String("reason", decision.Reason),
		zap.Duration("latency", time.Since(start)))
	return decision, nil
}

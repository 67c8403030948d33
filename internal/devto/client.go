package devto

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

	"github.com/cenkalti/backoff/v4"

	"github.com/pressops/devto-mcp/internal/common"
	"github.com/pressops/devto-mcp/internal/gateway"
)

// maxResponseSize caps upstream response bodies to prevent OOM from
// unexpectedly large responses.
const maxResponseSize = 10 << 20 // 10MB

// retryInterval is the fixed backoff before the single network-level retry.
const retryInterval = 500 * time.Millisecond

// apiKeyHeader carries the credential on upstream requests.
const apiKeyHeader = "api-key"

// Client executes UpstreamRequests against the dev.to API. It applies a
// bounded per-attempt timeout and retries once, with a short fixed backoff,
// on failures that never reached the upstream. A request that received an
// HTTP response is never retried: the response may reflect a completed
// mutation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *common.Logger
}

// NewClient creates a client targeting the given dev.to API base URL.
func NewClient(baseURL string, timeout time.Duration, logger *common.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     logger,
	}
}

// Execute implements gateway.Upstream.
func (c *Client) Execute(ctx context.Context, req *gateway.UpstreamRequest) (json.RawMessage, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal upstream request body: %w", err)
		}
	}

	log := c.logger.WithCorrelationId(req.CorrelationID)

	var raw json.RawMessage
	attempt := 0
	operation := func() error {
		attempt++

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, target, bodyReader)
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Accept", "application/json")
		if bodyBytes != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if req.Credential.Present() {
			httpReq.Header.Set(apiKeyHeader, req.Credential.Key())
		}

		start := time.Now()
		resp, err := c.httpClient.Do(httpReq)
		duration := time.Since(start)
		if err != nil {
			log.Warn().
				Str("method", req.Method).
				Str("path", req.Path).
				Int("attempt", attempt).
				Dur("duration", duration).
				Str("error", err.Error()).
				Msg("upstream request failed")
			return fmt.Errorf("upstream request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return backoff.Permanent(gateway.Errorf(gateway.KindUpstreamUnavailable,
				"failed to read upstream response: %v", err))
		}

		log.Debug().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Dur("duration", duration).
			Msg("upstream response")

		if resp.StatusCode >= 400 {
			return backoff.Permanent(gateway.FromUpstreamStatus(resp.StatusCode, upstreamErrorMessage(body)))
		}

		raw = body
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), 1), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		var ge *gateway.Error
		if errors.As(err, &ge) {
			return nil, ge
		}
		return nil, gateway.Errorf(gateway.KindUpstreamUnavailable, "dev.to unreachable: %v", err)
	}
	return raw, nil
}

// upstreamErrorMessage extracts a human-readable message from an upstream
// error body, falling back to a trimmed snippet of the raw body.
func upstreamErrorMessage(body []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return snippet
}

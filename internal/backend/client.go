package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/edcenter/console-api/pkg/errors"
)

type tokenContextKey struct{}
type requestIDContextKey struct{}

// WithToken returns a context carrying the upstream bearer token. Every call
// made with the returned context authenticates as that session.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFrom extracts the upstream bearer token, if any.
func TokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(tokenContextKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID returns a context carrying the inbound request ID so it can be
// propagated on outgoing calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return v
	}
	return ""
}

type metricsObserver interface {
	ObserveBackendRequest(method, path string, status int, duration time.Duration)
}

// Client is the single configured adapter for the upstream education API.
// All stores share one instance; it injects the auth header, encodes and
// decodes JSON, and normalises upstream failures into typed errors.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics metricsObserver
}

// Options tunes client construction.
type Options struct {
	// Timeout of zero leaves requests without a client-side deadline.
	Timeout time.Duration
	// HTTPClient overrides the underlying transport, used by tests.
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    metricsObserver
}

// New constructs a Client for the given base URL.
func New(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// listMeta is the upstream pagination block on list responses.
type listMeta struct {
	Total int `json:"total"`
	Pages int `json:"pages"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// apiError matches both upstream error body shapes: a bare {"message": ...}
// and the enveloped {"error": {"message": ...}}.
type apiError struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e apiError) message() string {
	if e.Error != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}

// do performs one JSON round-trip. label is the coarse path template used for
// metrics so entity IDs do not explode the label cardinality.
func (c *Client) do(ctx context.Context, method, path, label string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := requestIDFrom(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveBackendRequest(method, label, 0, duration)
		}
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		// No response means no structured message to surface.
		return appErrors.Wrap(err, appErrors.ErrBackend.Code, appErrors.ErrBackend.Status, appErrors.ErrBackend.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if c.metrics != nil {
		c.metrics.ObserveBackendRequest(method, label, resp.StatusCode, duration)
	}
	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackend.Code, appErrors.ErrBackend.Status, appErrors.ErrBackend.Message)
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var parsed apiError
	message := ""
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil {
		message = parsed.message()
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return appErrors.Clone(appErrors.ErrSessionExpired, message)
	}

	// Structured upstream messages are surfaced verbatim; anything else gets
	// the generic fallback. Not-found is deliberately not special-cased.
	if message == "" {
		message = appErrors.ErrBackend.Message
	}
	return appErrors.Wrap(
		fmt.Errorf("upstream status %d", resp.StatusCode),
		appErrors.ErrBackend.Code,
		appErrors.ErrBackend.Status,
		message,
	)
}

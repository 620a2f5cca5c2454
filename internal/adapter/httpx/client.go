// Package httpx is the JSON-over-HTTP transport shared by the catalog sources.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/cinelist/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
	maxErrorBody   = 512
)

// Options configures a Client
type Options struct {
	BaseURL string
	Token   string        // Sent as a bearer token when set
	Timeout time.Duration // Per-attempt timeout; defaults to 15s
	// RequestsPerSecond caps outbound traffic; 0 disables limiting
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client performs GET requests against a JSON API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	retryDelay time.Duration
}

// New creates a Client from opts
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
		retryDelay: baseRetryDelay,
	}
}

// BaseURL returns the API root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON performs a GET and decodes the body into dest
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", path, err)
	}
	return nil
}

// Get performs a GET request and returns the body of a 2xx response.
// Transport failures become *domain.NetworkError, other statuses *domain.APIError.
// 5xx responses are retried with exponential backoff.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}
	op := http.MethodGet + " " + path

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "path", path)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.NewString()
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		c.logger.Debug("catalog request", "path", path, "query", query.Encode(), "attempt", attempt, "requestID", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ctx.Err()
			}
			c.logger.Error("catalog request failed", "error", err, "path", path, "requestID", requestID)
			return nil, &domain.NetworkError{Op: op, Err: err}
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized:
			return nil, fmt.Errorf("%s: %w", op, domain.ErrAuthFailed)

		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%s: %w", op, domain.ErrItemNotFound)

		case resp.StatusCode >= 500:
			lastErr = &domain.APIError{Op: op, Status: resp.StatusCode, Message: errorMessage(body)}
			c.logger.Warn("catalog server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
				"requestID", requestID,
			)
			continue

		default:
			c.logger.Error("catalog request error", "status", resp.StatusCode, "path", path, "body", truncate(body))
			return nil, &domain.APIError{Op: op, Status: resp.StatusCode, Message: errorMessage(body)}
		}
	}

	c.logger.Error("catalog request failed after retries", "error", lastErr, "path", path)
	return nil, lastErr
}

// errorMessage pulls a human-readable message out of an error body.
// TMDB uses status_message, most other APIs message or error.
func errorMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
		Message       string `json:"message"`
		Error         string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.StatusMessage != "":
		return payload.StatusMessage
	case payload.Message != "":
		return payload.Message
	default:
		return payload.Error
	}
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

// Package picks is a Go SDK for the picks scoring service.
package picks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"safepicks/internal/domain"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

const (
	picksPath      = "/api/picks"
	defaultTimeout = 10 * time.Second
	userAgent      = "safepicks/1.0"
	failedMessage  = "Failed to load picks"
)

// FetchError is returned for any transport failure: network errors,
// timeouts, cancellation, and non-2xx responses.
type FetchError struct {
	Message string // user-facing, never empty
	Status  int    // HTTP status, 0 if no response was received
	Err     error  // underlying cause, may be nil
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Message, e.Status)
	default:
		return e.Message
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client provides access to the picks endpoint of the scoring service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLimiter makes every fetch wait for a token from l before it is issued.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the service at baseURL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// PicksURL builds the request target for date. The day parameter is only
// added when date is non-empty.
func (c *Client) PicksURL(date string) string {
	u := c.baseURL + picksPath
	if date != "" {
		u += "?day=" + url.QueryEscape(date)
	}
	return u
}

// FetchPicks requests the picks for date (YYYY-MM-DD, or "" for the
// service's default day). It issues exactly one request and never retries.
//
// A 2xx response whose body is not a JSON array yields an empty list rather
// than an error. Every other failure is a *FetchError.
func (c *Client) FetchPicks(ctx context.Context, date string) ([]domain.Pick, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Message: failedMessage, Err: err}
		}
	}

	target := c.PicksURL(date)
	reqID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Message: failedMessage, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("picks request failed", "url", target, "request_id", reqID, "error", err)
		return nil, &FetchError{Message: failedMessage, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("picks response", "url", target, "request_id", reqID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Message: failedMessage, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Message: failedMessage, Status: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	return decodePicks(body), nil
}

// decodePicks parses body as a JSON array of picks. Anything else decodes to
// an empty list.
func decodePicks(body []byte) []domain.Pick {
	var picks []domain.Pick
	if err := json.Unmarshal(body, &picks); err != nil || picks == nil {
		return []domain.Pick{}
	}
	return picks
}

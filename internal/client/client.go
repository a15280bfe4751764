// Package client is the single HTTP adapter every backend call goes through.
// It attaches the stored bearer token, unwraps the success envelope, reacts to
// 401 responses and retries once when no response was received.
package client

import (
	"bytes"
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

	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/Veraticus/mapping-lia/internal/service"
	"github.com/Veraticus/mapping-lia/internal/token"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultRetryDelay is the pause before the single transport retry.
const DefaultRetryDelay = time.Second

// Client talks to the review backend.
type Client struct {
	httpClient *http.Client
	creds      service.CredentialStore
	nav        service.Navigator
	logger     *slog.Logger
	now        func() time.Time
	baseURL    *url.URL
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetryDelay sets the pause before the transport retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithNavigator sets where the client sends the user when the credential is rejected.
func WithNavigator(nav service.Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// New creates a client for baseURL. creds may be nil for unauthenticated use.
func New(baseURL string, creds service.CredentialStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %w", common.ErrInvalidConfig, err)
	}

	c := &Client{
		baseURL:    u,
		creds:      creds,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		now:        time.Now,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get issues a GET and decodes the unwrapped response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST. A string body is sent as text/plain, anything else as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Do performs one logical request. Failures are *APIError for responses and
// errors wrapping ErrTransport when no response arrived.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	payload, contentType, err := encodeBody(body)
	if err != nil {
		return err
	}

	bearer, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	target := c.resolve(path, query)

	var data []byte
	err = common.WithRetry(ctx, func() error {
		var attemptErr error
		data, attemptErr = c.attempt(ctx, method, target, path, requestID, payload, contentType, bearer)
		return attemptErr
	}, common.RetryOnce(c.retryDelay))
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrap(data), out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// bearer returns the header token to send, or "" when there is none.
// A stored token that is malformed or expired is cleared and the call fails
// without touching the network.
func (c *Client) bearer(ctx context.Context) (*oauth2.Token, error) {
	if c.creds == nil {
		return nil, nil
	}

	raw, err := c.creds.Token(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stored token: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	if !token.IsValid(raw, c.now()) {
		c.logger.Info("stored token is invalid or expired, signing out")
		c.dropCredential(ctx)
		return nil, common.ErrInvalidToken
	}

	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
}

func (c *Client) dropCredential(ctx context.Context) {
	if c.creds != nil {
		if err := c.creds.ClearToken(ctx); err != nil {
			c.logger.Warn("failed to clear stored token", "error", err)
		}
	}
	if c.nav != nil && !c.nav.OnLogin() {
		c.nav.ToLogin()
	}
}

func (c *Client) attempt(ctx context.Context, method, target, path, requestID string, payload []byte, contentType string, bearer *oauth2.Token) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != nil {
		bearer.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s response: %w", ErrTransport, method, path, err)
	}

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(method, path, requestID, resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized {
			c.dropCredential(ctx)
		}
		return nil, apiErr
	}

	return data, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(b), "text/plain", nil
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return payload, "application/json", nil
	}
}

// successEnvelope is {"success": true, "data": ...}.
type successEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// unwrap returns the data member of a success envelope, or body unchanged.
func unwrap(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body
	}
	var env successEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return body
	}
	if env.Success == nil || env.Data == nil {
		return body
	}
	return env.Data
}

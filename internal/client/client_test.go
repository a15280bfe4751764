package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeCreds struct {
	token   string
	cleared int
}

func (f *fakeCreds) Token(context.Context) (string, error) {
	if f.token == "" {
		return "", common.ErrNotFound
	}
	return f.token, nil
}

func (f *fakeCreds) ClearToken(context.Context) error {
	f.token = ""
	f.cleared++
	return nil
}

type fakeNav struct {
	onLogin bool
	visits  int
}

func (f *fakeNav) ToLogin()      { f.visits++ }
func (f *fakeNav) OnLogin() bool { return f.onLogin }

func validToken(t *testing.T) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return raw
}

func expiredToken(t *testing.T) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(testNow.Add(-time.Minute)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return raw
}

func newTestClient(t *testing.T, url string, creds *fakeCreds, nav *fakeNav) *Client {
	t.Helper()
	opts := []Option{
		WithClock(func() time.Time { return testNow }),
		WithRetryDelay(time.Millisecond),
	}
	if nav != nil {
		opts = append(opts, WithNavigator(nav))
	}
	var c *Client
	var err error
	if creds != nil {
		c, err = New(url, creds, opts...)
	} else {
		c, err = New(url, nil, opts...)
	}
	require.NoError(t, err)
	return c
}

func TestDo_AttachesBearerAndRequestID(t *testing.T) {
	tok := validToken(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+tok, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeCreds{token: tok}, nil)
	var out map[string]bool
	require.NoError(t, c.Get(context.Background(), "/api/review/metadata", nil, &out))
	assert.True(t, out["ok"])
}

func TestDo_NoTokenSendsWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"token":"t1","username":"alice"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &fakeCreds{}, nil)
	var out struct{ Token, Username string }
	require.NoError(t, c.Post(context.Background(), "/api/auth/login", map[string]string{"username": "alice"}, &out))
	assert.Equal(t, "t1", out.Token)
}

func TestDo_InvalidStoredTokenFailsLocally(t *testing.T) {
	tests := []struct {
		name       string
		token      func(*testing.T) string
		onLogin    bool
		wantVisits int
	}{
		{name: "expired", token: expiredToken, wantVisits: 1},
		{name: "malformed", token: func(*testing.T) string { return "not-a-jwt" }, wantVisits: 1},
		{name: "already on login", token: expiredToken, onLogin: true, wantVisits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				hits.Add(1)
			}))
			defer srv.Close()

			creds := &fakeCreds{token: tt.token(t)}
			nav := &fakeNav{onLogin: tt.onLogin}
			c := newTestClient(t, srv.URL, creds, nav)

			err := c.Get(context.Background(), "/api/review/pending", nil, nil)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
			assert.Equal(t, int32(0), hits.Load())
			assert.Equal(t, 1, creds.cleared)
			assert.Equal(t, tt.wantVisits, nav.visits)
		})
	}
}

func TestDo_UnwrapsSuccessEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{name: "envelope", body: `{"success":true,"data":[1,2]}`, want: []any{float64(1), float64(2)}},
		{name: "bare array", body: `[3]`, want: []any{float64(3)}},
		{name: "object without data", body: `{"success":true,"message":"ok"}`, want: map[string]any{"success": true, "message": "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, nil, nil)
			var out any
			require.NoError(t, c.Get(context.Background(), "/x", nil, &out))
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestDo_UnauthorizedClearsAndNavigates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	creds := &fakeCreds{token: validToken(t)}
	nav := &fakeNav{}
	c := newTestClient(t, srv.URL, creds, nav)

	err := c.Get(context.Background(), "/api/review/pending", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, 1, creds.cleared)
	assert.Equal(t, 1, nav.visits)
}

func TestDo_RetriesTransportFailureOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":"ok"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil, nil)
	var out string
	require.NoError(t, c.Get(context.Background(), "/x", nil, &out))
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), hits.Load())
}

// failingTransport counts round trips and fails every one of them.
type failingTransport struct {
	attempts atomic.Int32
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.attempts.Add(1)
	return nil, errors.New("connection refused")
}

func TestDo_SecondTransportFailurePropagates(t *testing.T) {
	rt := &failingTransport{}
	c, err := New("http://backend.invalid", nil,
		WithHTTPClient(&http.Client{Transport: rt}),
		WithClock(func() time.Time { return testNow }),
		WithRetryDelay(time.Millisecond),
	)
	require.NoError(t, err)

	err = c.Get(context.Background(), "/x", nil, nil)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, int32(2), rt.attempts.Load())
}

func TestDo_ResponsesAreNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil, nil)
	err := c.Get(context.Background(), "/x", nil, nil)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDo_TextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "Go\nWelding", string(body))
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil, nil)
	require.NoError(t, c.Post(context.Background(), "/api/area-mapper/map-lines", "Go\nWelding", nil))
}

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantMsg    string
		wantErrors []string
	}{
		{name: "envelope", body: `{"success":false,"message":"Bad","errors":["a","b"]}`, wantMsg: "Bad", wantErrors: []string{"a", "b"}},
		{name: "capitalised errors", body: `{"Errors":["x"]}`, wantErrors: []string{"x"}},
		{name: "field map", body: `{"title":"One or more validation errors occurred.","errors":{"b":["two"],"a":["one"]}}`, wantMsg: "One or more validation errors occurred.", wantErrors: []string{"one", "two"}},
		{name: "json string", body: `"Go: Input is too short or empty"`, wantMsg: "Go: Input is too short or empty"},
		{name: "plain text", body: "upstream down\n", wantMsg: "upstream down"},
		{name: "empty", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAPIError("GET", "/x", "id", 400, []byte(tt.body))
			assert.Equal(t, tt.wantMsg, e.Message)
			assert.Equal(t, tt.wantErrors, e.Errors)
			assert.False(t, errors.Is(e, common.ErrUnauthorized))
		})
	}
}

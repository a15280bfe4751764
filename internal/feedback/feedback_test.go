package feedback

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/Veraticus/mapping-lia/internal/client"
	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "nil", err: nil, want: UnexpectedMessage},
		{name: "envelope message", err: &client.APIError{StatusCode: 400, Message: "Name taken"}, want: "Name taken"},
		{name: "errors list", err: &client.APIError{StatusCode: 400, Errors: []string{"a", "b"}}, want: "a, b"},
		{name: "status 400", err: &client.APIError{StatusCode: 400}, want: "Invalid request. Please check your input."},
		{name: "status 401", err: &client.APIError{StatusCode: 401}, want: "Unauthorized. Please log in again."},
		{name: "status 403", err: &client.APIError{StatusCode: 403}, want: "You don't have permission to perform this action."},
		{name: "status 404", err: &client.APIError{StatusCode: 404}, want: "The requested resource was not found."},
		{name: "status 500", err: &client.APIError{StatusCode: 500}, want: "Server error. Please try again later."},
		{name: "status 503", err: &client.APIError{StatusCode: 503}, want: "Service unavailable. Please try again later."},
		{name: "other status", err: &client.APIError{StatusCode: 418}, want: "Error 418: I'm a teapot"},
		{name: "wrapped api error", err: fmt.Errorf("approve: %w", &client.APIError{StatusCode: 404}), want: "The requested resource was not found."},
		{name: "transport", err: fmt.Errorf("%w: GET /x: refused", common.ErrTransport), want: NetworkMessage},
		{name: "expired", err: common.ErrInvalidToken, want: ExpiredMessage},
		{name: "user error", err: common.NewUserError("Username is required", nil), want: "Username is required"},
		{name: "plain", err: errors.New("disk full"), want: "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestLoginMessage(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "envelope message", err: &client.APIError{StatusCode: 401, Message: "Invalid credentials"}, want: "Invalid credentials"},
		{name: "first error", err: &client.APIError{StatusCode: 400, Errors: []string{"Locked", "Other"}}, want: "Locked"},
		{name: "bare status", err: &client.APIError{StatusCode: 500}, want: LoginFailed},
		{name: "validation", err: common.NewUserError("Password is required", nil), want: "Password is required"},
		{name: "transport", err: fmt.Errorf("%w: POST /api/auth/login", common.ErrTransport), want: NetworkMessage},
		{name: "plain", err: errors.New("boom"), want: LoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginMessage(tt.err))
		})
	}
}

func TestParseMappingError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "Go: Duplicate competence already exists in database", want: "Go: This competence is already in the database"},
		{in: "x: Input is too short or empty", want: "x: This competence is too short or empty"},
		{in: "Input could not be normalized", want: "Could not normalize this competence"},
		{in: "Svetsning: Validation failed for input", want: "Svetsning: Validation failed: input may be misspelled, non-English, or the match is incorrect."},
		{in: "C++: An error occurred during matching (timeout)", want: "C++: An error occurred during matching. Please try again or contact support if the issue persists."},
		{in: "a: b: Invalid input format", want: "a: Invalid input format"},
		{in: ": leading separator", want: ": leading separator"},
		{in: "Go: something new", want: "Go: something new"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMappingError(tt.in))
		})
	}
}

func TestMappingErrors(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want []string
	}{
		{
			name: "400 text body split",
			err: &client.APIError{
				StatusCode: 400,
				Body:       []byte("Go: Input is too short or empty; Rust: Validation failed"),
				Message:    "Go: Input is too short or empty; Rust: Validation failed",
			},
			want: []string{
				"Go: This competence is too short or empty",
				"Rust: Validation failed: input may be misspelled, non-English, or the match is incorrect.",
			},
		},
		{
			name: "400 envelope message",
			err: &client.APIError{
				StatusCode: 400,
				Body:       []byte(`{"message":"Go: Invalid input format; not split"}`),
				Message:    "Go: Invalid input format; not split",
			},
			want: []string{"Go: Invalid input format"},
		},
		{
			name: "207 errors list",
			err:  &client.APIError{StatusCode: 207, Errors: []string{"A: Input could not be normalized"}},
			want: []string{"A: Could not normalize this competence"},
		},
		{
			name: "transport",
			err:  common.ErrTransport,
			want: []string{NetworkMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MappingErrors(tt.err))
		})
	}
}

func TestBatchErrorsAndSummary(t *testing.T) {
	errs := BatchErrors(model.BatchMapping{Errors: []string{"Go: Validation failed", "x: unknown"}})
	assert.Len(t, errs, 2)
	assert.Equal(t, "2 errors occurred", Summary(errs))
	assert.Equal(t, "x: unknown", Summary(errs[1:]))
	assert.Empty(t, Summary(nil))
}

func TestQueue(t *testing.T) {
	q := &Queue{}
	q.Success("saved")
	Fail(q, &client.APIError{StatusCode: 500})
	q.Info("fyi")

	assert.Equal(t, 3, q.Len())
	toasts := q.Drain()
	assert.Equal(t, []Toast{
		{Text: "saved", Level: LevelSuccess},
		{Text: "Server error. Please try again later.", Level: LevelError},
		{Text: "fyi", Level: LevelInfo},
	}, toasts)
	assert.Zero(t, q.Len())
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf)
	n.Success("Approved")
	n.Error("Boom")
	n.Info("Note")
	out := buf.String()
	assert.Contains(t, out, "Approved")
	assert.Contains(t, out, "Boom")
	assert.Contains(t, out, "Note")
}

package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/common"
)

// ErrTransport marks failures where no response was received.
var ErrTransport = common.ErrTransport

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	RequestID  string
	Message    string
	Body       []byte
	Errors     []string
	StatusCode int
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && len(e.Errors) > 0 {
		msg = strings.Join(e.Errors, "; ")
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets errors.Is(err, common.ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == common.ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorEnvelope is the backend's failure body:
// {"success": false, "message": "...", "errors": ["..."]}.
// Field matching is case-insensitive, so "Errors" and "Message" decode too.
type errorEnvelope struct {
	Message string          `json:"message"`
	Title   string          `json:"title"`
	Errors  json.RawMessage `json:"errors"`
}

func newAPIError(method, path, requestID string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method:     method,
		Path:       path,
		RequestID:  requestID,
		StatusCode: status,
		Body:       body,
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return apiErr
	}

	switch trimmed[0] {
	case '{':
		var env errorEnvelope
		if err := json.Unmarshal(trimmed, &env); err == nil {
			apiErr.Message = env.Message
			if apiErr.Message == "" {
				apiErr.Message = env.Title
			}
			apiErr.Errors = decodeErrorList(env.Errors)
			return apiErr
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			apiErr.Message = s
			return apiErr
		}
	}

	apiErr.Message = string(trimmed)
	return apiErr
}

// decodeErrorList accepts either a list of strings or a field → messages map.
func decodeErrorList(raw json.RawMessage) []string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var fields map[string][]string
	if err := json.Unmarshal(raw, &fields); err == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			list = append(list, fields[k]...)
		}
		return list
	}

	return nil
}

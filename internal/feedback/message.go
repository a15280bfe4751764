// Package feedback turns outcomes into user-facing notifications.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/client"
	"github.com/Veraticus/mapping-lia/internal/common"
)

// Fallback texts.
const (
	UnexpectedMessage = "An unexpected error occurred"
	NetworkMessage    = "Network error. Please check your connection."
	ExpiredMessage    = "Your session has expired. Please log in again."
	LoginFailed       = "Login failed. Please check your credentials."
	LoginSucceeded    = "Login successful!"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request. Please check your input.",
	http.StatusUnauthorized:        "Unauthorized. Please log in again.",
	http.StatusForbidden:           "You don't have permission to perform this action.",
	http.StatusNotFound:            "The requested resource was not found.",
	http.StatusInternalServerError: "Server error. Please try again later.",
	http.StatusServiceUnavailable:  "Service unavailable. Please try again later.",
}

// Message derives the text shown for err. Precedence: a user error's own
// text, the envelope message, the envelope error list, a status default.
func Message(err error) string {
	if err == nil {
		return UnexpectedMessage
	}

	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if len(apiErr.Errors) > 0 {
			return strings.Join(apiErr.Errors, ", ")
		}
		if msg, ok := statusMessages[apiErr.StatusCode]; ok {
			return msg
		}
		return fmt.Sprintf("Error %d: %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
	}

	switch {
	case errors.Is(err, common.ErrInvalidToken):
		return ExpiredMessage
	case errors.Is(err, common.ErrTransport):
		return NetworkMessage
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	}

	return err.Error()
}

// LoginMessage derives the text shown for a failed login: the envelope
// message, the first listed error, or LoginFailed.
func LoginMessage(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if len(apiErr.Errors) > 0 {
			return apiErr.Errors[0]
		}
	}
	if errors.Is(err, common.ErrTransport) {
		return NetworkMessage
	}
	return LoginFailed
}

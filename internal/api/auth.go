package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/go-playground/validator/v10"
)

// LoginRequest is the credential pair posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldMessages = map[string]map[string]string{
	"Username": {
		"required": "Username is required",
		"max":      "Username cannot exceed 100 characters",
	},
	"Password": {
		"required": "Password is required",
		"max":      "Password cannot exceed 200 characters",
	},
}

// Validate checks the request before it is sent. The returned error is a
// *common.UserError whose message lists every failed field.
func (r LoginRequest) Validate() error {
	fields, err := r.check()
	if err != nil || len(fields) == 0 {
		return err
	}

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.message)
	}
	return common.NewUserError(strings.Join(msgs, "; "), nil)
}

// FieldErrors returns the message of each failed field keyed by its JSON name.
// It is empty for a valid request.
func (r LoginRequest) FieldErrors() map[string]string {
	fields, err := r.check()
	out := make(map[string]string, len(fields))
	if err != nil {
		out["username"] = err.Error()
		return out
	}
	for _, f := range fields {
		out[f.name] = f.message
	}
	return out
}

type fieldError struct {
	name    string
	message string
}

func (r LoginRequest) check() ([]fieldError, error) {
	err := validate.Struct(r)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate login request: %w", err)
	}

	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		fields = append(fields, fieldError{name: strings.ToLower(fe.Field()), message: msg})
	}
	return fields, nil
}

// Login exchanges credentials for a session token.
func (a *API) Login(ctx context.Context, username, password string) (model.Session, error) {
	req := LoginRequest{Username: username, Password: password}
	if err := req.Validate(); err != nil {
		return model.Session{}, err
	}

	var session model.Session
	if err := a.r.Post(ctx, "/api/auth/login", req, &session); err != nil {
		return model.Session{}, err
	}
	if session.Username == "" {
		session.Username = req.Username
	}
	return session, nil
}

// Package api binds the backend's fixed endpoints to typed operations.
package api

import (
	"context"
	"net/url"
)

// Requester is the subset of the HTTP adapter the endpoints need.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
}

// API exposes the auth, mapping and review endpoints.
type API struct {
	r Requester
}

// New creates an API over r.
func New(r Requester) *API {
	return &API{r: r}
}

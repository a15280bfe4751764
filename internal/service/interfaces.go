// Package service defines the interfaces shared between the application's layers.
package service

import (
	"context"
)

// KeyValueStore is the durable client-side store for the session and
// review preferences. Get returns common.ErrNotFound for missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Persisted keys.
const (
	KeyToken         = "token"
	KeyUsername      = "username"
	KeyReviewTab     = "reviewTab"
	KeyPageSize      = "pageSize"
	KeySortField     = "sortField"
	KeySortDirection = "sortDirection"
)

// Navigator moves the user between views. The login view is the only target
// the lower layers need to reach on their own.
type Navigator interface {
	ToLogin()
	OnLogin() bool
}

// Notifier is the single path every user-facing outcome goes through.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// CredentialStore gives the HTTP client access to the stored bearer token.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Package session holds the logged-in state and persists the credential.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/service"
)

// State is a snapshot of the session.
type State struct {
	Username        string
	IsAuthenticated bool
	Loading         bool
}

// Store owns the session state. It satisfies service.CredentialStore so the
// HTTP client reads and clears the same credential.
type Store struct {
	kv    service.KeyValueStore
	nav   service.Navigator
	state State
	mu    sync.RWMutex
}

// New creates a store in the loading state. Call Hydrate before use.
func New(kv service.KeyValueStore, nav service.Navigator) *Store {
	return &Store{
		kv:    kv,
		nav:   nav,
		state: State{Loading: true},
	}
}

// SetNavigator replaces the navigator used by Logout.
func (s *Store) SetNavigator(nav service.Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nav
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Hydrate reads the persisted credential once. A stored token and username
// make the session authenticated without asking the server.
func (s *Store) Hydrate(ctx context.Context) error {
	tok, err := s.read(ctx, service.KeyToken)
	if err != nil {
		s.finish(State{})
		return err
	}
	user, err := s.read(ctx, service.KeyUsername)
	if err != nil {
		s.finish(State{})
		return err
	}

	s.finish(State{
		Username:        user,
		IsAuthenticated: tok != "" && user != "",
	})
	return nil
}

func (s *Store) finish(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Login persists the credential and marks the session authenticated.
func (s *Store) Login(ctx context.Context, session model.Session) error {
	if session.Token == "" || session.Username == "" {
		return fmt.Errorf("%w: token and username are required", common.ErrInvalidToken)
	}
	if err := s.kv.Set(ctx, service.KeyToken, session.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.kv.Set(ctx, service.KeyUsername, session.Username); err != nil {
		return fmt.Errorf("persist username: %w", err)
	}

	s.finish(State{Username: session.Username, IsAuthenticated: true})
	slog.Info("Logged in", "username", session.Username)
	return nil
}

// Logout removes the credential, resets the state and returns to the login view.
func (s *Store) Logout(ctx context.Context) error {
	err := s.kv.Delete(ctx, service.KeyToken, service.KeyUsername)
	s.finish(State{})

	s.mu.RLock()
	nav := s.nav
	s.mu.RUnlock()
	if nav != nil {
		nav.ToLogin()
	}

	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.read(ctx, service.KeyToken)
}

// ClearToken drops the stored credential and marks the session signed out.
// Navigation is left to the caller.
func (s *Store) ClearToken(ctx context.Context) error {
	s.finish(State{})
	if err := s.kv.Delete(ctx, service.KeyToken, service.KeyUsername); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

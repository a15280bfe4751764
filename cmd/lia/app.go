package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/client"
	"github.com/Veraticus/mapping-lia/internal/config"
	"github.com/Veraticus/mapping-lia/internal/review"
	"github.com/Veraticus/mapping-lia/internal/service"
	"github.com/Veraticus/mapping-lia/internal/session"
	"github.com/Veraticus/mapping-lia/internal/storage"
	"github.com/spf13/viper"
)

// app holds the wired services shared by the commands.
type app struct {
	cfg      *config.Config
	store    *storage.SQLiteStorage
	sessions *session.Store
	api      *api.API
}

// newApp opens the state database, restores the session and builds the API
// client. nav may be nil outside the console.
func newApp(ctx context.Context, nav service.Navigator) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state: %w", err)
	}

	sessions := session.New(store, nav)
	if err := sessions.Hydrate(ctx); err != nil {
		slog.Warn("Failed to restore session", "error", err)
	}

	opts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithRetryDelay(cfg.RetryDelay),
	}
	if nav != nil {
		opts = append(opts, client.WithNavigator(nav))
	}
	c, err := client.New(cfg.BaseURL, sessions, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		api:      api.New(c),
	}, nil
}

// list builds a review list that persists its preferences in the state database.
func (a *app) list(notify service.Notifier, opts ...review.Option) *review.List {
	opts = append([]review.Option{
		review.WithPreferences(a.store),
		review.WithLogger(slog.Default()),
	}, opts...)
	return review.NewList(a.api, notify, opts...)
}

// requireLogin fails early when no session is stored.
func (a *app) requireLogin() error {
	if !a.sessions.State().IsAuthenticated {
		return fmt.Errorf("not logged in, run 'lia login' first")
	}
	return nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close state database", "error", err)
	}
}

package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
	"github.com/Veraticus/mapping-lia/internal/session"
	"github.com/Veraticus/mapping-lia/internal/tui/themes"
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (model.Session, error)
}

// Mapper maps free-text competences.
type Mapper interface {
	MapLines(ctx context.Context, lines []string) (model.BatchMapping, error)
}

// Sessions is the part of the session store the console drives.
type Sessions interface {
	State() session.State
	Login(ctx context.Context, s model.Session) error
	Logout(ctx context.Context) error
}

// Config holds console configuration.
type Config struct {
	Theme          themes.Theme
	Auth           Authenticator
	Mapper         Mapper
	Sessions       Sessions
	List           *review.List
	Notifications  *feedback.Queue
	Logger         *slog.Logger
	Width          int
	Height         int
	RequestTimeout time.Duration
	MaxToasts      int
}

// Option is a functional option for configuring the console.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		Logger:         slog.Default(),
		Width:          100,
		Height:         30,
		RequestTimeout: 2 * time.Minute,
		MaxToasts:      4,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithRequestTimeout bounds every backend call the console starts.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.RequestTimeout = d
		}
	}
}

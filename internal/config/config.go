package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/Veraticus/mapping-lia/internal/common"
	"github.com/spf13/viper"
)

// Defaults applied by SetDefaults.
const (
	DefaultBaseURL    = "https://localhost:7079"
	DefaultTimeout    = 30 * time.Second
	DefaultRetryDelay = time.Second
	DefaultStatePath  = "~/.local/share/lia/state.db"
	DefaultServerAddr = ":3000"
	DefaultDistDir    = "dist"
	DefaultCertDir    = "~/.config/lia/certs"
)

// Config is the resolved application configuration.
type Config struct {
	BaseURL    string
	StatePath  string
	ServerAddr string
	DistDir    string
	Timeout    time.Duration
	RetryDelay time.Duration
}

// SetDefaults registers default values for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("api.retry_delay", DefaultRetryDelay)
	v.SetDefault("state.path", DefaultStatePath)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.dist", DefaultDistDir)
	v.SetDefault("server.cert_dir", DefaultCertDir)
	v.SetDefault("console.theme", "default")
	v.SetDefault("console.request_timeout", 2*time.Minute)
}

// Load resolves the configuration from v. A PORT environment variable
// overrides the listen address when server.addr was not set explicitly.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		BaseURL:    v.GetString("api.base_url"),
		Timeout:    v.GetDuration("api.timeout"),
		RetryDelay: v.GetDuration("api.retry_delay"),
		StatePath:  ExpandPath(v.GetString("state.path")),
		ServerAddr: v.GetString("server.addr"),
		DistDir:    ExpandPath(v.GetString("server.dist")),
	}

	if port := os.Getenv("PORT"); port != "" && !v.IsSet("server.addr") {
		cfg.ServerAddr = ":" + port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obviously broken values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", common.ErrInvalidConfig, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: api.retry_delay cannot be negative", common.ErrInvalidConfig)
	}
	if c.StatePath == "" {
		return fmt.Errorf("%w: state.path", common.ErrMissingConfig)
	}
	if c.ServerAddr == "" {
		return fmt.Errorf("%w: server.addr", common.ErrMissingConfig)
	}
	return nil
}

// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Etsy          EtsyConfig          `yaml:"etsy"`
	Printful      PrintfulConfig      `yaml:"printful"`
	DryRun        *bool               `yaml:"dry_run"` // default: true
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Images        ImagesConfig        `yaml:"images"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// IsDryRun reports whether outbound provider calls are fabricated.
func (c *Config) IsDryRun() bool {
	return c.DryRun == nil || *c.DryRun
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines the datastore settings.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // sqlite, postgres
	Path     string `yaml:"path"`   // sqlite file, ":memory:" allowed
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// EtsyConfig defines Etsy OAuth and API settings.
type EtsyConfig struct {
	ClientID            string          `yaml:"client_id"`
	ClientSecret        string          `yaml:"client_secret"`
	RedirectURI         string          `yaml:"redirect_uri"`
	Scopes              []string        `yaml:"scopes"`
	ShopID              string          `yaml:"shop_id"`
	FallbackAccessToken string          `yaml:"access_token"`
	APIURL              string          `yaml:"api_url"`
	AuthURL             string          `yaml:"auth_url"`
	TokenURL            string          `yaml:"token_url"`
	RateLimit           RateLimitConfig `yaml:"rate_limit"`
	MaxRetries          int             `yaml:"max_retries"`
	Timeout             time.Duration   `yaml:"timeout"`
}

// PrintfulConfig defines Printful API settings.
type PrintfulConfig struct {
	APIKey     string          `yaml:"api_key"`
	BaseURL    string          `yaml:"base_url"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	MaxRetries int             `yaml:"max_retries"`
	Timeout    time.Duration   `yaml:"timeout"`
}

// RateLimitConfig defines per-client request pacing.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	DailyLimit int64   `yaml:"daily_limit"` // 0 disables the daily cap
}

// ScheduleConfig defines background job intervals.
type ScheduleConfig struct {
	Enabled               bool          `yaml:"enabled"`
	TokenRefreshInterval  time.Duration `yaml:"token_refresh_interval"`
	PriceSyncInterval     time.Duration `yaml:"price_sync_interval"`
	InventorySyncInterval time.Duration `yaml:"inventory_sync_interval"`
	ListingInterval       time.Duration `yaml:"listing_interval"`
	ListingBatchSize      int           `yaml:"listing_batch_size"`
}

// ImagesConfig defines remote image download settings.
type ImagesConfig struct {
	DownloadTimeout time.Duration `yaml:"download_timeout"`
}

// TelemetryConfig defines OpenTelemetry export settings. Export is
// disabled when Endpoint is empty.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// NotificationsConfig defines where job failures are reported.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config content, performing environment variable
// substitution and validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied: SQLite in
// the working directory and dry run enabled.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.DryRun == nil {
		dry := true
		cfg.DryRun = &dry
	}
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyEtsyDefaults(&cfg.Etsy)
	applyPrintfulDefaults(&cfg.Printful)
	applyScheduleDefaults(&cfg.Schedule)
	applyImagesDefaults(&cfg.Images)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 90 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = "sqlite"
	}
	if d.Path == "" {
		d.Path = "automerch.db"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyEtsyDefaults(e *EtsyConfig) {
	if e.RedirectURI == "" {
		e.RedirectURI = "http://localhost:8080/auth/etsy/callback"
	}
	if len(e.Scopes) == 0 {
		e.Scopes = []string{"listings_w", "listings_r", "shops_r", "profile_r"}
	}
	if e.APIURL == "" {
		e.APIURL = "https://openapi.etsy.com/v3/application"
	}
	if e.AuthURL == "" {
		e.AuthURL = "https://www.etsy.com/oauth/connect"
	}
	if e.TokenURL == "" {
		e.TokenURL = "https://api.etsy.com/v3/public/oauth/token"
	}
	if e.RateLimit.PerSecond == 0 {
		e.RateLimit.PerSecond = 5.0
	}
	if e.MaxRetries == 0 {
		e.MaxRetries = 3
	}
	if e.Timeout == 0 {
		e.Timeout = 30 * time.Second
	}
}

func applyPrintfulDefaults(p *PrintfulConfig) {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.printful.com"
	}
	if p.RateLimit.PerSecond == 0 {
		p.RateLimit.PerSecond = 5.0
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = 3
	}
	if p.Timeout == 0 {
		p.Timeout = 60 * time.Second
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.TokenRefreshInterval == 0 {
		s.TokenRefreshInterval = 30 * time.Minute
	}
	if s.PriceSyncInterval == 0 {
		s.PriceSyncInterval = 6 * time.Hour
	}
	if s.InventorySyncInterval == 0 {
		s.InventorySyncInterval = time.Hour
	}
	if s.ListingInterval == 0 {
		s.ListingInterval = 12 * time.Hour
	}
	if s.ListingBatchSize == 0 {
		s.ListingBatchSize = 25
	}
}

func applyImagesDefaults(i *ImagesConfig) {
	if i.DownloadTimeout == 0 {
		i.DownloadTimeout = 30 * time.Second
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "automerch"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required when driver is sqlite"))
		}
	case "postgres":
		if cfg.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required when driver is postgres"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required when driver is postgres"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, errors.New("database.user is required when driver is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"database.driver must be one of: sqlite, postgres (got %q)",
			cfg.Database.Driver,
		))
	}

	if cfg.Etsy.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("etsy.rate_limit.per_second must not be negative"))
	}
	if cfg.Printful.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("printful.rate_limit.per_second must not be negative"))
	}
	if cfg.Etsy.MaxRetries < 0 || cfg.Printful.MaxRetries < 0 {
		errs = append(errs, errors.New("max_retries must not be negative"))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, errors.New("notifications.discord.webhook_url is required when discord is enabled"))
	}

	// Live mode needs real credentials; dry run fabricates every response.
	if !cfg.IsDryRun() {
		if cfg.Etsy.ClientID == "" {
			errs = append(errs, errors.New("etsy.client_id is required when dry_run is false"))
		}
		if cfg.Printful.APIKey == "" {
			errs = append(errs, errors.New("printful.api_key is required when dry_run is false"))
		}
	}

	if cfg.Schedule.Enabled {
		for name, d := range map[string]time.Duration{
			"token_refresh_interval":  cfg.Schedule.TokenRefreshInterval,
			"price_sync_interval":     cfg.Schedule.PriceSyncInterval,
			"inventory_sync_interval": cfg.Schedule.InventorySyncInterval,
			"listing_interval":        cfg.Schedule.ListingInterval,
		} {
			if d < time.Minute {
				errs = append(errs, fmt.Errorf("schedule.%s must be at least 1m (got %s)", name, d))
			}
		}
	}

	return errors.Join(errs...)
}

// Package config handles loading and validating the mock backend
// configuration from YAML files with environment variable substitution, and
// defines the client settings shared with tripctl.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level tripmock configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Rates   RatesConfig   `yaml:"rates"`
	Auth    AuthConfig    `yaml:"auth"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// CatalogConfig defines where the mock listings come from.
type CatalogConfig struct {
	// SeedFile is a YAML file with activities, itineraries, products and
	// currencies. Empty uses the built-in demo catalog.
	SeedFile string `yaml:"seed_file"`
	// Latency delays every listing response, to exercise debounce and
	// stale-response handling.
	Latency time.Duration `yaml:"latency"`
}

// RatesConfig defines the exchange-rate table served on /rates.
type RatesConfig struct {
	Base  string             `yaml:"base"`
	Table map[string]float64 `yaml:"table"`
}

// AuthConfig defines bearer-token checking on tourist endpoints.
type AuthConfig struct {
	RequireToken bool   `yaml:"require_token"`
	Token        string `yaml:"token"`
}

// ClientConfig holds the API client settings. tripctl reads the same keys
// from its own config file through viper, hence the mapstructure tags.
type ClientConfig struct {
	Timeout     time.Duration   `yaml:"timeout" mapstructure:"timeout"`
	Debounce    time.Duration   `yaml:"debounce" mapstructure:"debounce"`
	NoticeTTL   time.Duration   `yaml:"notice_ttl" mapstructure:"notice_ttl"`
	RateRefresh time.Duration   `yaml:"rate_refresh" mapstructure:"rate_refresh"`
	PageSize    int             `yaml:"page_size" mapstructure:"page_size"`
	RateLimit   RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig defines client-side request throttling.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second" mapstructure:"per_second"`
	Burst     int     `yaml:"burst" mapstructure:"burst"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultRates is served when the config has no rate table.
var DefaultRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"EGP": 48.5,
	"JPY": 151.2,
	"SAR": 3.75,
	"AED": 3.67,
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

// Parse decodes YAML config bytes, performing environment variable
// substitution and validation.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content.
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

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyRatesDefaults(&cfg.Rates)
	ApplyClientDefaults(&cfg.Client)
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
		s.WriteTimeout = 30 * time.Second
	}
}

func applyRatesDefaults(r *RatesConfig) {
	if r.Base == "" {
		r.Base = "USD"
	}
	if len(r.Table) == 0 {
		r.Table = maps.Clone(DefaultRates)
	}
}

// ApplyClientDefaults fills unset client settings.
func ApplyClientDefaults(c *ClientConfig) {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Debounce == 0 {
		c.Debounce = 300 * time.Millisecond
	}
	if c.NoticeTTL == 0 {
		c.NoticeTTL = 3 * time.Second
	}
	if c.PageSize == 0 {
		c.PageSize = 10
	}
	if c.RateLimit.PerSecond == 0 {
		c.RateLimit.PerSecond = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
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

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}

	if !strings.EqualFold(cfg.Rates.Base, "USD") {
		errs = append(errs, fmt.Errorf("rates.base must be USD (got %q)", cfg.Rates.Base))
	}
	for code, r := range cfg.Rates.Table {
		if r <= 0 {
			errs = append(errs, fmt.Errorf("rates.table.%s must be positive (got %g)", code, r))
		}
	}

	if cfg.Catalog.Latency < 0 {
		errs = append(errs, fmt.Errorf("catalog.latency must not be negative"))
	}

	if cfg.Auth.RequireToken && cfg.Auth.Token == "" {
		errs = append(errs, fmt.Errorf("auth.token is required when auth.require_token is set"))
	}

	errs = append(errs, ValidateClient(&cfg.Client)...)

	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}

// ValidateClient returns every problem with c.
func ValidateClient(c *ClientConfig) []error {
	var errs []error
	if c.PageSize < 1 {
		errs = append(errs, fmt.Errorf("client.page_size must be positive (got %d)", c.PageSize))
	}
	if c.Timeout < 0 || c.Debounce < 0 || c.NoticeTTL < 0 || c.RateRefresh < 0 {
		errs = append(errs, fmt.Errorf("client durations must not be negative"))
	}
	if c.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("client.rate_limit.per_second must not be negative"))
	}
	return errs
}

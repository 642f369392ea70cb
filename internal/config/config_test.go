package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty config uses defaults",
			yaml: ``,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "USD", cfg.Rates.Base)
				assert.Equal(t, DefaultRates, cfg.Rates.Table)
				assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
				assert.Equal(t, 300*time.Millisecond, cfg.Client.Debounce)
				assert.Equal(t, 3*time.Second, cfg.Client.NoticeTTL)
				assert.Equal(t, 10, cfg.Client.PageSize)
				assert.InDelta(t, 10.0, cfg.Client.RateLimit.PerSecond, 1e-9)
				assert.Equal(t, 20, cfg.Client.RateLimit.Burst)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Empty(t, cfg.Catalog.SeedFile)
			},
		},
		{
			name: "env var substitution",
			yaml: `
auth:
  require_token: true
  token: "${TEST_MOCK_TOKEN}"
`,
			envVars: map[string]string{
				"TEST_MOCK_TOKEN": "secret123",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.True(t, cfg.Auth.RequireToken)
				assert.Equal(t, "secret123", cfg.Auth.Token)
			},
		},
		{
			name: "token required",
			yaml: `
auth:
  require_token: true
`,
			wantErr: "auth.token is required when auth.require_token is set",
		},
		{
			name: "non-USD base",
			yaml: `
rates:
  base: EUR
`,
			wantErr: `rates.base must be USD (got "EUR")`,
		},
		{
			name: "non-positive rate",
			yaml: `
rates:
  table:
    USD: 1
    EUR: 0
`,
			wantErr: "rates.table.EUR must be positive",
		},
		{
			name: "bad port",
			yaml: `
server:
  port: 70000
`,
			wantErr: "server.port must be between 1 and 65535 (got 70000)",
		},
		{
			name: "bad log format",
			yaml: `
logging:
  format: xml
`,
			wantErr: `logging.format must be one of: text, json (got "xml")`,
		},
		{
			name: "negative latency",
			yaml: `
catalog:
  latency: -1s
`,
			wantErr: "catalog.latency must not be negative",
		},
		{
			name: "multiple errors joined",
			yaml: `
server:
  port: -1
client:
  page_size: -5
`,
			wantErr: "client.page_size must be positive (got -5)",
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
catalog:
  seed_file: /etc/tripmock/seed.yaml
  latency: 250ms
rates:
  table:
    USD: 1
    EUR: 0.9
client:
  timeout: 5s
  debounce: 100ms
  notice_ttl: 2s
  rate_refresh: 1h
  page_size: 25
  rate_limit:
    per_second: 2.5
    burst: 4
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "/etc/tripmock/seed.yaml", cfg.Catalog.SeedFile)
				assert.Equal(t, 250*time.Millisecond, cfg.Catalog.Latency)
				assert.Equal(t, map[string]float64{"USD": 1, "EUR": 0.9}, cfg.Rates.Table)
				assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
				assert.Equal(t, 100*time.Millisecond, cfg.Client.Debounce)
				assert.Equal(t, 2*time.Second, cfg.Client.NoticeTTL)
				assert.Equal(t, time.Hour, cfg.Client.RateRefresh)
				assert.Equal(t, 25, cfg.Client.PageSize)
				assert.InDelta(t, 2.5, cfg.Client.RateLimit.PerSecond, 1e-9)
				assert.Equal(t, 4, cfg.Client.RateLimit.Burst)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			// Set env vars for this test.
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			// Write YAML to a temp file.
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault_DoesNotShareRates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Rates.Table["XXX"] = 2
	assert.NotContains(t, DefaultRates, "XXX")
}

func TestValidateClient(t *testing.T) {
	t.Parallel()

	c := ClientConfig{}
	ApplyClientDefaults(&c)
	assert.Empty(t, ValidateClient(&c))

	c.Debounce = -time.Second
	c.RateLimit.PerSecond = -1
	assert.Len(t, ValidateClient(&c), 2)
}

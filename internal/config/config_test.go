package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"HOST", "PORT", "BODY_LIMIT_MB", "Y_TOLERANCE", "MAX_PAGES",
	"LOG_LEVEL", "ENV", "METRICS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(envPrefix+k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 32*1024*1024, cfg.Server.BodyLimit())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
parser:
  yTolerance: 3.5
  maxPages: 4
log:
  level: debug
metrics:
  enabled: false
`)
	t.Setenv("PAYSLIP_PORT", "9100")
	t.Setenv("PAYSLIP_Y_TOLERANCE", "2,5")
	t.Setenv("PAYSLIP_ENV", "production")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 32, cfg.Server.BodyLimitMB)
	assert.Equal(t, 2.5, cfg.Parser.YTolerance)
	assert.Equal(t, 4, cfg.Parser.MaxPages)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "production", cfg.Log.Env)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map"))
	assert.Error(t, err)

	t.Setenv("PAYSLIP_PORT", "eighty")
	_, err = Load("")
	assert.ErrorContains(t, err, "PAYSLIP_PORT")

	t.Setenv("PAYSLIP_PORT", "")
	t.Setenv("PAYSLIP_METRICS_ENABLED", "maybe")
	_, err = Load("")
	assert.ErrorContains(t, err, "PAYSLIP_METRICS_ENABLED")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero tolerance", func(c *Config) { c.Parser.YTolerance = 0 }, true},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, false},
		{"negative tolerance", func(c *Config) { c.Parser.YTolerance = -1 }, false},
		{"negative max pages", func(c *Config) { c.Parser.MaxPages = -1 }, false},
		{"zero body limit", func(c *Config) { c.Server.BodyLimitMB = 0 }, false},
		{"unknown env", func(c *Config) { c.Log.Env = "staging" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

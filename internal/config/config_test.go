package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvenk/partscout/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
sources:
  mouser:
    enabled: true
    api_key: test-key
`

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 8*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Prewarm.Interval)
	assert.False(t, cfg.Prewarm.Enabled)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_DIGIKEY_ID", "env-client-id")
	t.Setenv("TEST_DIGIKEY_SECRET", "env-secret")

	path := writeConfig(t, `
sources:
  digikey:
    enabled: true
    client_id: ${TEST_DIGIKEY_ID}
    client_secret: ${TEST_DIGIKEY_SECRET}
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-client-id", cfg.Sources.DigiKey.ClientID)
	assert.Equal(t, "env-secret", cfg.Sources.DigiKey.ClientSecret)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
logging:
  level: debug
  format: json
sources:
  timeout: 5s
  ti:
    enabled: true
    client_id: ti-id
    client_secret: ti-secret
  mouser:
    enabled: true
    api_key: mouser-key
  digikey:
    enabled: true
    client_id: dk-id
    client_secret: dk-secret
  arrow:
    enabled: true
    login: arrow-login
    api_key: arrow-key
  octopart:
    enabled: true
    client_id: nx-id
    client_secret: nx-secret
prewarm:
  enabled: true
  interval: 15m
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
	assert.True(t, cfg.Sources.TI.Enabled)
	assert.True(t, cfg.Prewarm.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Prewarm.Interval)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		errContain string
	}{
		{
			name:       "no sources enabled",
			content:    `logging: {level: info}`,
			errContain: "at least one source",
		},
		{
			name: "ti without credentials",
			content: `
sources:
  ti:
    enabled: true
`,
			errContain: "sources.ti.client_id",
		},
		{
			name: "mouser without api key",
			content: `
sources:
  mouser:
    enabled: true
`,
			errContain: "sources.mouser.api_key",
		},
		{
			name: "arrow without login",
			content: `
sources:
  arrow:
    enabled: true
    api_key: k
`,
			errContain: "sources.arrow.login",
		},
		{
			name: "octopart without secret",
			content: `
sources:
  octopart:
    enabled: true
    client_id: id
`,
			errContain: "sources.octopart.client_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			_, err := config.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContain)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "sources: [not: a: map")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config YAML")
}

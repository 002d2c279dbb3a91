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
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  cors_origins: ["https://app.cms.test"]

log:
  level: debug
  redact_pii: true

assistant:
  enabled: true
  model_id: "anthropic.claude-3-haiku-20240307-v1:0"

insights:
  debounce_ms: 250
  simulated_latency_ms: 50

recommendations:
  feed_urls:
    - "https://news.test/marketing.rss"
  mock_seed: 42

persistence:
  backend: CMS
  cms:
    base_url: "https://api.cms.test"
    api_key: "stack"
    management_token: "token"

redis:
  addr: "localhost:6379"

brand_kits:
  - name: "Acme Core"
    tone: ["innovative", "reliable"]
    forbidden: ["cheap"]
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"https://app.cms.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.RedactPII)
	assert.True(t, cfg.Assistant.IsConfigured())
	assert.Equal(t, "us-east-1", cfg.Assistant.Region)
	assert.Equal(t, 250*time.Millisecond, cfg.Insights.Debounce())
	assert.Equal(t, 50*time.Millisecond, cfg.Insights.SimulatedLatency())
	assert.Equal(t, int64(42), cfg.Recommendations.MockSeed)
	assert.Len(t, cfg.Recommendations.FeedURLs, 1)
	assert.Equal(t, BackendCMS, cfg.Persistence.Backend)
	assert.Equal(t, "campaign", cfg.Persistence.CMS.ContentType)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.FinalizeLockTTL())
	require.Len(t, cfg.BrandKits, 1)
	assert.Equal(t, []string{"cheap"}, cfg.BrandKits[0].Forbidden)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "http://localhost:8080", cfg.Server.PublicURL)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout())
	assert.Equal(t, time.Hour, cfg.Server.SessionIdle())
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.False(t, cfg.Assistant.IsConfigured())
	assert.Equal(t, 400*time.Millisecond, cfg.Insights.Debounce())
	assert.Equal(t, 10*time.Second, cfg.Recommendations.FeedTimeout())
	assert.Equal(t, BackendMemory, cfg.Persistence.Backend)
	assert.Equal(t, 15*time.Second, cfg.Persistence.CMS.Timeout())
	assert.False(t, cfg.Redis.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("CMS_MANAGEMENT_TOKEN", "env-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/campaigns?sslmode=disable")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := LoadFromEnv("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Assistant.IsConfigured())
	assert.Equal(t, "eu-west-1", cfg.Assistant.Region)
	assert.Equal(t, "env-token", cfg.Persistence.CMS.ManagementToken)
	assert.Equal(t, BackendPostgres, cfg.Persistence.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "WARN", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Persistence.Backend = "s3" }, "not one of"},
		{"postgres without url", func(c *Config) { c.Persistence.Backend = BackendPostgres }, "database_url"},
		{"cms without token", func(c *Config) {
			c.Persistence.Backend = BackendCMS
			c.Persistence.CMS.BaseURL = "https://api.cms.test"
		}, "management_token"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "out of range"},
		{"unnamed brand kit", func(c *Config) { c.BrandKits = []BrandKitConfig{{Tone: []string{"calm"}}} }, "brand_kits[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

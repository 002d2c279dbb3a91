package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Persistence backends.
const (
	BackendCMS      = "cms"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server          ServerConfig          `yaml:"server"`
	Log             LogConfig             `yaml:"log"`
	Assistant       AssistantConfig       `yaml:"assistant"`
	Insights        InsightsConfig        `yaml:"insights"`
	Recommendations RecommendationsConfig `yaml:"recommendations"`
	Persistence     PersistenceConfig     `yaml:"persistence"`
	Redis           RedisConfig           `yaml:"redis"`
	BrandKits       []BrandKitConfig      `yaml:"brand_kits"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                   int      `yaml:"port"`
	Host                   string   `yaml:"host"`
	PublicURL              string   `yaml:"public_url"`
	CORSOrigins            []string `yaml:"cors_origins"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
	SessionIdleMinutes     int      `yaml:"session_idle_minutes"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr is host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// ShutdownTimeout bounds graceful shutdown.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// SessionIdle is how long an untouched wizard session is kept.
func (c ServerConfig) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level     string `yaml:"level"`
	RedactPII bool   `yaml:"redact_pii"`
}

// AssistantConfig holds the Bedrock conversational reply settings
type AssistantConfig struct {
	Enabled         bool    `yaml:"enabled"`
	ModelID         string  `yaml:"model_id"`
	Region          string  `yaml:"region"`
	AccessKeyID     string  `yaml:"access_key_id"`
	SecretAccessKey string  `yaml:"secret_access_key"`
	MaxTokens       int     `yaml:"max_tokens"`
	Temperature     float64 `yaml:"temperature"`
	HistoryLimit    int     `yaml:"history_limit"`
}

// IsConfigured reports whether real replies should be attempted.
func (c AssistantConfig) IsConfigured() bool {
	return c.Enabled && c.ModelID != ""
}

// InsightsConfig tunes the live insights recompute.
type InsightsConfig struct {
	DebounceMS         int `yaml:"debounce_ms"`
	SimulatedLatencyMS int `yaml:"simulated_latency_ms"`
}

// Debounce is the quiet period before a recompute.
func (c InsightsConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// SimulatedLatency delays each scorer.
func (c InsightsConfig) SimulatedLatency() time.Duration {
	return time.Duration(c.SimulatedLatencyMS) * time.Millisecond
}

// RecommendationsConfig holds recommendation data source settings
type RecommendationsConfig struct {
	FeedURLs           []string `yaml:"feed_urls"`
	Keywords           []string `yaml:"keywords"`
	ItemsPerFeed       int      `yaml:"items_per_feed"`
	FeedTimeoutSeconds int      `yaml:"feed_timeout_seconds"`
	MockSeed           int64    `yaml:"mock_seed"`
}

// FeedTimeout bounds each feed fetch.
func (c RecommendationsConfig) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutSeconds) * time.Second
}

// PersistenceConfig selects where finalized campaigns go
type PersistenceConfig struct {
	Backend     string    `yaml:"backend"` // "cms", "postgres" or "memory"
	DatabaseURL string    `yaml:"database_url"`
	CMS         CMSConfig `yaml:"cms"`
}

// CMSConfig holds the headless CMS management API settings
type CMSConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	ManagementToken string `yaml:"management_token"`
	ContentType     string `yaml:"content_type"`
	AppURL          string `yaml:"app_url"`
	MaxRetries      int    `yaml:"max_retries"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// Timeout returns the CMS request timeout.
func (c CMSConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig enables the cross-replica finalize lock.
type RedisConfig struct {
	Addr                   string `yaml:"addr"`
	Password               string `yaml:"password"`
	DB                     int    `yaml:"db"`
	FinalizeLockTTLSeconds int    `yaml:"finalize_lock_ttl_seconds"`
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// FinalizeLockTTL is how long a finalize lock may be held.
func (c RedisConfig) FinalizeLockTTL() time.Duration {
	return time.Duration(c.FinalizeLockTTLSeconds) * time.Second
}

// BrandKitConfig is one brand guideline entry
type BrandKitConfig struct {
	Name      string   `yaml:"name"`
	Tone      []string `yaml:"tone"`
	Forbidden []string `yaml:"forbidden"`
}

// Load reads and parses the configuration file. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 15
	}
	if cfg.Server.SessionIdleMinutes == 0 {
		cfg.Server.SessionIdleMinutes = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
	if cfg.Assistant.Region == "" {
		cfg.Assistant.Region = "us-east-1"
	}
	if cfg.Assistant.MaxTokens == 0 {
		cfg.Assistant.MaxTokens = 1024
	}
	if cfg.Assistant.HistoryLimit == 0 {
		cfg.Assistant.HistoryLimit = 20
	}
	if cfg.Insights.DebounceMS == 0 {
		cfg.Insights.DebounceMS = 400
	}
	if cfg.Recommendations.ItemsPerFeed == 0 {
		cfg.Recommendations.ItemsPerFeed = 10
	}
	if cfg.Recommendations.FeedTimeoutSeconds == 0 {
		cfg.Recommendations.FeedTimeoutSeconds = 10
	}
	if cfg.Persistence.Backend == "" {
		cfg.Persistence.Backend = BackendMemory
	}
	cfg.Persistence.Backend = strings.ToLower(cfg.Persistence.Backend)
	if cfg.Persistence.CMS.ContentType == "" {
		cfg.Persistence.CMS.ContentType = "campaign"
	}
	if cfg.Persistence.CMS.MaxRetries == 0 {
		cfg.Persistence.CMS.MaxRetries = 3
	}
	if cfg.Persistence.CMS.TimeoutSeconds == 0 {
		cfg.Persistence.CMS.TimeoutSeconds = 15
	}
	if cfg.Redis.FinalizeLockTTLSeconds == 0 {
		cfg.Redis.FinalizeLockTTLSeconds = 30
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		cfg.Server.PublicURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Assistant overrides
	if v := os.Getenv("BEDROCK_MODEL_ID"); v != "" {
		cfg.Assistant.ModelID = v
		cfg.Assistant.Enabled = true
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Assistant.Region = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.Assistant.AccessKeyID = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.Assistant.SecretAccessKey = v
	}

	// CMS overrides
	if v := os.Getenv("CMS_BASE_URL"); v != "" {
		cfg.Persistence.CMS.BaseURL = v
	}
	if v := os.Getenv("CMS_API_KEY"); v != "" {
		cfg.Persistence.CMS.APIKey = v
	}
	if v := os.Getenv("CMS_MANAGEMENT_TOKEN"); v != "" {
		cfg.Persistence.CMS.ManagementToken = v
	}

	// Database override switches an in-memory setup to Postgres
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Persistence.DatabaseURL = v
		if cfg.Persistence.Backend == BackendMemory {
			cfg.Persistence.Backend = BackendPostgres
		}
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Persistence.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Persistence.DatabaseURL == "" {
			errs = append(errs, errors.New("persistence.database_url is required for the postgres backend"))
		}
	case BackendCMS:
		if c.Persistence.CMS.BaseURL == "" || c.Persistence.CMS.APIKey == "" || c.Persistence.CMS.ManagementToken == "" {
			errs = append(errs, errors.New("persistence.cms needs base_url, api_key and management_token"))
		}
	default:
		errs = append(errs, fmt.Errorf("persistence.backend %q is not one of cms, postgres, memory", c.Persistence.Backend))
	}
	for i, kit := range c.BrandKits {
		if strings.TrimSpace(kit.Name) == "" {
			errs = append(errs, fmt.Errorf("brand_kits[%d] has no name", i))
		}
	}
	return errors.Join(errs...)
}

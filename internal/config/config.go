package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// EnvPrefix is prepended to every variable, e.g. TABLEKEEP_HTTP_PORT.
const EnvPrefix = "TABLEKEEP"

// Config holds the configuration for the campaign service.
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override driver: sqlite, postgres
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`
	LogConsole  bool        `envconfig:"LOG_CONSOLE" default:"false"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Blob storage for map files: mem://, file:///path, s3://bucket?region=...
	BlobBucketURL string `envconfig:"BLOB_BUCKET_URL" default:"mem://"`
	// Public prefix for map URLs; empty serves files through the API.
	BlobPublicBaseURL string `envconfig:"BLOB_PUBLIC_BASE_URL" default:""`
	MaxUploadBytes    int64  `envconfig:"MAX_UPLOAD_BYTES" default:"20971520"`

	// Auth
	JWTSecret string `envconfig:"JWT_SECRET" default:""`
	DevMode   bool   `envconfig:"DEV_MODE" default:"false"`

	// Chat vendor
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`

	// Voice vendor
	ElevenLabsAPIKey  string `envconfig:"ELEVENLABS_API_KEY" default:""`
	ElevenLabsBaseURL string `envconfig:"ELEVENLABS_BASE_URL" default:"https://api.elevenlabs.io"`
	ElevenLabsModel   string `envconfig:"ELEVENLABS_MODEL" default:"eleven_multilingual_v2"`

	VendorTimeoutSeconds int `envconfig:"VENDOR_TIMEOUT_SECONDS" default:"60"`

	// Assistant context window
	ChatHistoryLimit  int    `envconfig:"CHAT_HISTORY_LIMIT" default:"20"`
	EncounterLimit    int    `envconfig:"CHAT_ENCOUNTER_LIMIT" default:"10"`
	AssistantLanguage string `envconfig:"ASSISTANT_LANGUAGE" default:"English"`

	// Health and startup
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
	BootstrapTimeoutSeconds   int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver and SQLitePath
// when left empty or "auto".
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = "./data/tablekeep.db"
		}
	case "postgres":
		if c.PostgresDSN == "" && c.BuildTarget != "local" {
			return fmt.Errorf("POSTGRES_DSN is required for DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.JWTSecret == "" && !c.DevMode {
		return fmt.Errorf("JWT_SECRET is required unless DEV_MODE is set")
	}
	if c.ChatHistoryLimit <= 0 || c.EncounterLimit <= 0 {
		return fmt.Errorf("chat limits must be positive")
	}
	return nil
}

// New creates a new Config by parsing TABLEKEEP_* environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("blob_bucket", cfg.BlobBucketURL).
		Bool("dev_mode", cfg.DevMode).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("gemini_key_present", cfg.GeminiAPIKey != "").
		Bool("elevenlabs_key_present", cfg.ElevenLabsAPIKey != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		BuildTarget:               "local",
		DBDriver:                  "sqlite",
		Environment:               EnvTesting,
		LogLevel:                  "debug",
		HTTPPort:                  8080,
		SQLitePath:                ":memory:",
		BlobBucketURL:             "mem://",
		MaxUploadBytes:            1 << 20,
		JWTSecret:                 "test-secret",
		DevMode:                   true,
		GeminiModel:               "gemini-2.0-flash",
		ElevenLabsModel:           "eleven_multilingual_v2",
		VendorTimeoutSeconds:      5,
		ChatHistoryLimit:          20,
		EncounterLimit:            10,
		AssistantLanguage:         "English",
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		BootstrapTimeoutSeconds:   5,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}

func (c *Config) BootstrapTimeout() time.Duration {
	return time.Duration(c.BootstrapTimeoutSeconds) * time.Second
}

func (c *Config) VendorTimeout() time.Duration {
	return time.Duration(c.VendorTimeoutSeconds) * time.Second
}

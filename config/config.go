package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
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

// EnvPrefix prefixes every variable, e.g. NUTRIX_HTTP_PORT.
const EnvPrefix = "NUTRIX"

// Config holds the configuration for the API server.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	HTTPPort    int         `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// Database: postgres or sqlite
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:""`
	DBName      string `envconfig:"DB_NAME" default:"nutrix"`
	DBPort      int    `envconfig:"DB_PORT" default:"5432"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"nutrix.db"`

	// Auth
	JWTSecret string        `envconfig:"JWT_SECRET" default:""`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"72h"`

	// Ledger
	DefaultTimeZone     string `envconfig:"DEFAULT_TIME_ZONE" default:"UTC"`
	LedgerTxMaxAttempts int    `envconfig:"LEDGER_TX_MAX_ATTEMPTS" default:"5"`

	// Text generation: openai or ollama
	TextGenProvider string        `envconfig:"TEXTGEN_PROVIDER" default:"openai"`
	OpenAIAPIKey    string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL   string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	OpenAIModel     string        `envconfig:"OPENAI_MODEL" default:"gpt-5-mini"`
	OllamaURL       string        `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel     string        `envconfig:"OLLAMA_MODEL" default:"llama3"`
	TextGenTimeout  time.Duration `envconfig:"TEXTGEN_TIMEOUT" default:"30s"`
	TipsTTL         time.Duration `envconfig:"TIPS_TTL" default:"168h"`

	// Profile images; uploads are disabled when S3Bucket is empty
	S3Bucket  string `envconfig:"S3_BUCKET" default:""`
	S3Region  string `envconfig:"S3_REGION" default:"us-east-1"`
	S3BaseURL string `envconfig:"S3_BASE_URL" default:""`
}

// Load reads an optional .env file and then the NUTRIX_ environment.
func Load() (*Config, error) {
	// a missing .env is fine outside development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Str("textgen_provider", cfg.TextGenProvider).
		Str("default_time_zone", cfg.DefaultTimeZone).
		Bool("uploads_enabled", cfg.S3Bucket != "").
		Msg("Configuration loaded")
	return &cfg, nil
}

// Validate normalizes enumerations and rejects impossible settings.
func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.TextGenProvider = strings.ToLower(strings.TrimSpace(c.TextGenProvider))

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	switch c.TextGenProvider {
	case "openai":
		if c.OpenAIAPIKey == "" && c.Environment == EnvProduction {
			return fmt.Errorf("OPENAI_API_KEY is required with TEXTGEN_PROVIDER=openai")
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported TEXTGEN_PROVIDER: %s", c.TextGenProvider)
	}
	if c.JWTSecret == "" {
		if c.Environment == EnvProduction {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = "dev-secret"
		log.Warn().Msg("JWT_SECRET not set, using an insecure development secret")
	}
	if _, err := time.LoadLocation(c.DefaultTimeZone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIME_ZONE %q: %w", c.DefaultTimeZone, err)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.LedgerTxMaxAttempts < 1 {
		return fmt.Errorf("LEDGER_TX_MAX_ATTEMPTS must be at least 1")
	}
	if c.TipsTTL <= 0 || c.JWTTTL <= 0 || c.TextGenTimeout <= 0 {
		return fmt.Errorf("JWT_TTL, TIPS_TTL and TEXTGEN_TIMEOUT must be positive")
	}
	return nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:         EnvTesting,
		HTTPPort:            8080,
		LogLevel:            "disabled",
		DBDriver:            "sqlite",
		SQLitePath:          "file::memory:?cache=shared",
		JWTSecret:           "test-secret",
		JWTTTL:              time.Hour,
		DefaultTimeZone:     "UTC",
		LedgerTxMaxAttempts: 5,
		TextGenProvider:     "ollama",
		OllamaURL:           "http://localhost:11434",
		OllamaModel:         "llama3",
		TextGenTimeout:      5 * time.Second,
		TipsTTL:             7 * 24 * time.Hour,
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// DSN returns the Postgres connection string, preferring POSTGRES_DSN.
func (c *Config) DSN() string {
	if c.PostgresDSN != "" {
		return c.PostgresDSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

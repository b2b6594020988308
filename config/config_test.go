package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NUTRIX_JWT_SECRET", "s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "UTC", cfg.DefaultTimeZone)
	assert.Equal(t, 5, cfg.LedgerTxMaxAttempts)
	assert.Equal(t, "gpt-5-mini", cfg.OpenAIModel)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("NUTRIX_DB_DRIVER", "SQLite")
	t.Setenv("NUTRIX_TEXTGEN_PROVIDER", "ollama")
	t.Setenv("NUTRIX_DEFAULT_TIME_ZONE", "America/Sao_Paulo")
	t.Setenv("NUTRIX_TIPS_TTL", "24h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "ollama", cfg.TextGenProvider)
	assert.Equal(t, "America/Sao_Paulo", cfg.DefaultTimeZone)
	assert.Equal(t, "24h0m0s", cfg.TipsTTL.String())
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
}

func TestValidate(t *testing.T) {
	require.NoError(t, NewForTesting().Validate())

	cases := map[string]func(c *Config){
		"driver":    func(c *Config) { c.DBDriver = "mysql" },
		"provider":  func(c *Config) { c.TextGenProvider = "bard" },
		"time zone": func(c *Config) { c.DefaultTimeZone = "Nowhere/City" },
		"attempts":  func(c *Config) { c.LedgerTxMaxAttempts = 0 },
		"port":      func(c *Config) { c.HTTPPort = 70000 },
		"prod jwt": func(c *Config) {
			c.Environment = EnvProduction
			c.JWTSecret = ""
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewForTesting()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := NewForTesting()
	cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort = "db", "u", "p", "n", 5433
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable", cfg.DSN())

	cfg.PostgresDSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.DSN())
}

func TestOpenDB_SQLite(t *testing.T) {
	cfg := NewForTesting()
	cfg.SQLitePath = "file:opendb_test?mode=memory&cache=shared"

	db, err := OpenDB(cfg, zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.True(t, db.Migrator().HasTable("daily_logs"))
}

func TestNewLogger_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewLogger("api", "debug").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("api", "nonsense").GetLevel())
}

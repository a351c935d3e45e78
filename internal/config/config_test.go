package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "HTTP_PORT", "DB_DRIVER", "DATABASE_URL", "SQLITE_PATH",
		"REDIS_ADDR", "CORS_ORIGINS", "RATE_LIMIT_BACKEND", "RATE_LIMIT_PER_MIN",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8000", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "redis", cfg.RateLimitBackend)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("CORS_ORIGINS", "https://dashboard.example.com, https://admin.example.com")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")

	cfg := Load()
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/test.db", cfg.SQLitePath)
	assert.Equal(t, []string{"https://dashboard.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 30, cfg.RateLimitPerMin)
}

func TestIntEnv_BadValueFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "plenty")
	assert.Equal(t, 120, intEnv("RATE_LIMIT_PER_MIN", 120))
}

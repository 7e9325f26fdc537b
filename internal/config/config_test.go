package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"productapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Database.ConnectAttempts)
	assert.Equal(t, time.Second, cfg.Database.ConnectBackoff)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DATABASE_CONNECT_BACKOFF", "250ms")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.ConnectBackoff)
	assert.False(t, cfg.MetricsEnabled)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PRODUCTS_DB_PASSWORD", "s3cret")
	content := []byte("database_driver: sqlite\ndatabase_dsn: file:products.db?_pwd=${PRODUCTS_DB_PASSWORD}\nlog_level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:products.db?_pwd=s3cret", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":   {"DATABASE_DRIVER": "oracle"},
		"bad log level":    {"LOG_LEVEL": "verbose"},
		"missing dsn":      {"DATABASE_DRIVER": "postgres", "DATABASE_DSN": ""},
		"zero attempts":    {"DATABASE_CONNECT_ATTEMPTS": "0"},
		"bad rabbitmq url": {"RABBITMQ_URL": "not a url"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load(t.TempDir())
			assert.Error(t, err)
		})
	}
}

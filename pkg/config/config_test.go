package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Reconcile.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Reconcile.RetryBase)
	assert.Equal(t, "UTC", cfg.App.Location.String())
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("RECONCILE_MAX_RETRIES", "5")
	t.Setenv("RECONCILE_RETRY_BASE_MS", "250")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("APP_TIMEZONE", "Africa/Casablanca")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Reconcile.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Reconcile.RetryBase)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "Africa/Casablanca", cfg.App.Location.String())
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/erp?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

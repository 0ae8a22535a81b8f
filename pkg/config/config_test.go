package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-ipv/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	for _, k := range []string{"STORAGE_DRIVER", "DATABASE_URL", "DB_HOST", "HTTP_PORT", "IPV_AUTOSAVE_MS", "IPV_LOCK_TTL_SECONDS", "DB_MAX_CONNS", "APP_NAME"} {
		t.Setenv(k, "")
	}
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "gestor-ipv", cfg.App.Name)
	assert.Equal(t, config.DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.IPV.AutosaveDelay)
	assert.Equal(t, 10*time.Second, cfg.IPV.LockTTL)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.False(t, cfg.DB.Configured())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("IPV_AUTOSAVE_MS", "0")
	t.Setenv("IPV_LOCK_TTL_SECONDS", "3")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Zero(t, cfg.IPV.AutosaveDelay)
	assert.Equal(t, 3*time.Second, cfg.IPV.LockTTL)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_PostgresSinConexion(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "ipv", Password: "p@ss:w", DBName: "gestor", SSLMode: "disable"}
	assert.Equal(t, "postgres://ipv:p%40ss%3Aw@db:5432/gestor?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://otro/db"
	assert.Equal(t, "postgresql://otro/db", c.ConnectionString())
}

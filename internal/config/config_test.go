package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "planora-backend", cfg.AppName)
	assert.Equal(t, DriverBolt, cfg.Storage.Driver)
	assert.Equal(t, "./data/planner.db", cfg.Storage.BoltPath)
	assert.Equal(t, 5*time.Minute, cfg.Reminders.Lead)
	assert.Equal(t, 24*time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.NotEmpty(t, cfg.Database.URL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverPostgres)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REMINDER_LEAD", "10m")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/planner")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Reminders.Lead)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, "postgres://u:p@db:5432/planner", cfg.Database.URL)
}

func TestLoadDurationAsSeconds(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Context.RequestTimeout)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_PATH", "LISTEN_ADDR", "LOG_LEVEL", "LOG_FORMAT", "RECURRENCE_INTERVAL", "REDIS_ADDR", "KAFKA_BROKERS", "KAFKA_TOPIC"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "./data/chores.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, time.Hour, cfg.RecurrenceInterval)
	assert.False(t, cfg.EventsEnabled())
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("DB_PATH", "/var/lib/chores.db")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("RECURRENCE_INTERVAL", "15m")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load([]string{"--listen", ":9100", "--log-format", "json"})
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/chores.db", cfg.DBPath)
	assert.Equal(t, ":9100", cfg.ListenAddr, "flag overrides env")
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 15*time.Minute, cfg.RecurrenceInterval)
	assert.True(t, cfg.EventsEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("env duration", func(t *testing.T) {
		t.Setenv("RECURRENCE_INTERVAL", "soon")
		_, err := Load(nil)
		assert.Error(t, err)
	})

	t.Run("flag duration", func(t *testing.T) {
		t.Setenv("RECURRENCE_INTERVAL", "")
		_, err := Load([]string{"--recurrence-interval", "often"})
		assert.Error(t, err)
	})

	t.Run("negative interval", func(t *testing.T) {
		t.Setenv("RECURRENCE_INTERVAL", "-1m")
		_, err := Load(nil)
		assert.Error(t, err)
	})

	t.Run("log format", func(t *testing.T) {
		t.Setenv("RECURRENCE_INTERVAL", "")
		_, err := Load([]string{"--log-format", "xml"})
		assert.Error(t, err)
	})
}

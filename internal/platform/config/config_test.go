package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg := FromLookup(lookupFrom(nil))

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Autosave.Debounce)
	assert.Equal(t, 30*time.Second, cfg.Presence.HeartbeatInterval)
	assert.Equal(t, 24*time.Hour, cfg.Presence.SessionTTL)
	assert.Equal(t, "@every 10m", cfg.Presence.JanitorSchedule)
	assert.Equal(t, "onboarding.step-analytics", cfg.Kafka.AnalyticsTopic)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Warnings)
	assert.False(t, cfg.IsProduction())
}

func TestFromLookupOverrides(t *testing.T) {
	cfg := FromLookup(lookupFrom(map[string]string{
		"ONBOARDING_ADDR":             ":9090",
		"ENVIRONMENT":                 "production",
		"DATABASE_URL":                "postgres://u:p@db/onboarding",
		"REDIS_URL":                   "redis://cache:6379/0",
		"REDIS_POOL_SIZE":             "32",
		"KAFKA_BROKERS":               " k1:9092, ,k2:9092 ",
		"AUTOSAVE_DEBOUNCE":           "750ms",
		"PRESENCE_HEARTBEAT_INTERVAL": "10s",
		"PRESENCE_SESSION_TTL":        "2h",
		"SESSION_JANITOR_SCHEDULE":    "*/5 * * * *",
		"DIAGNOSTICS_RATE_PER_SEC":    "2.5",
		"STEPS_CONFIG_PATH":           "/etc/onboarding/steps.yaml",
	}))

	require.Empty(t, cfg.Warnings)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://u:p@db/onboarding", cfg.Database.URL)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 750*time.Millisecond, cfg.Autosave.Debounce)
	assert.Equal(t, 10*time.Second, cfg.Presence.HeartbeatInterval)
	assert.Equal(t, 2*time.Hour, cfg.Presence.SessionTTL)
	assert.Equal(t, "*/5 * * * *", cfg.Presence.JanitorSchedule)
	assert.InDelta(t, 2.5, cfg.Diagnostics.RatePerSec, 1e-9)
	assert.Equal(t, "/etc/onboarding/steps.yaml", cfg.StepsConfigPath)
}

func TestFromLookupMalformedValuesFallBack(t *testing.T) {
	cfg := FromLookup(lookupFrom(map[string]string{
		"AUTOSAVE_DEBOUNCE":        "soon",
		"PRESENCE_SESSION_TTL":     "-1h",
		"REDIS_POOL_SIZE":          "many",
		"DIAGNOSTICS_RATE_PER_SEC": "0",
	}))

	defaults := Defaults()
	assert.Equal(t, defaults.Autosave.Debounce, cfg.Autosave.Debounce)
	assert.Equal(t, defaults.Presence.SessionTTL, cfg.Presence.SessionTTL)
	assert.Equal(t, defaults.Redis.PoolSize, cfg.Redis.PoolSize)
	assert.Equal(t, defaults.Diagnostics.RatePerSec, cfg.Diagnostics.RatePerSec)
	assert.Len(t, cfg.Warnings, 4)
}

func TestFromEnvReadsProcessEnvironment(t *testing.T) {
	t.Setenv("ONBOARDING_ADDR", ":7070")
	assert.Equal(t, ":7070", FromEnv().Server.Addr)
}

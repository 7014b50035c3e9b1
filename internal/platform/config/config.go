// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	strs "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig selects the Postgres stores. An empty URL keeps every store
// in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig selects the Redis-backed view cache and presence store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the analytics event sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers        []string
	AnalyticsTopic string
}

type AutosaveConfig struct {
	Debounce time.Duration
}

type PresenceConfig struct {
	HeartbeatInterval time.Duration
	SessionTTL        time.Duration
	JanitorSchedule   string
}

type DiagnosticsConfig struct {
	RatePerSec float64
}

// TracingConfig installs an OTLP exporter when Endpoint is set; otherwise
// spans go to the global no-op provider.
type TracingConfig struct {
	Endpoint   string
	Insecure   bool
	SampleRate float64
}

// Config is the full process configuration.
type Config struct {
	Environment     string
	LogLevel        string
	StepsConfigPath string
	Server          Server
	Database        DatabaseConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	Autosave        AutosaveConfig
	Presence        PresenceConfig
	Diagnostics     DiagnosticsConfig
	Tracing         TracingConfig

	// Warnings lists values that were malformed and replaced by defaults.
	Warnings []string
}

// IsProduction reports whether the process runs with production defaults.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Defaults returns the configuration used when no variable is set.
func Defaults() Config {
	return Config{
		Environment: "development",
		LogLevel:    "info",
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			AnalyticsTopic: "onboarding.step-analytics",
		},
		Autosave: AutosaveConfig{Debounce: 2 * time.Second},
		Presence: PresenceConfig{
			HeartbeatInterval: 30 * time.Second,
			SessionTTL:        24 * time.Hour,
			JanitorSchedule:   "@every 10m",
		},
		Diagnostics: DiagnosticsConfig{RatePerSec: 5},
		Tracing:     TracingConfig{SampleRate: 1},
	}
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) Config {
	cfg := Defaults()
	r := reader{lookup: lookup}

	r.str("ENVIRONMENT", &cfg.Environment)
	r.str("LOG_LEVEL", &cfg.LogLevel)
	r.str("STEPS_CONFIG_PATH", &cfg.StepsConfigPath)
	r.str("ONBOARDING_ADDR", &cfg.Server.Addr)
	r.duration("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	r.str("DATABASE_URL", &cfg.Database.URL)
	r.integer("DATABASE_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)

	r.str("REDIS_URL", &cfg.Redis.URL)
	r.integer("REDIS_POOL_SIZE", &cfg.Redis.PoolSize)

	if raw, ok := r.value("KAFKA_BROKERS"); ok {
		cfg.Kafka.Brokers = strs.DedupeAndTrim(strings.Split(raw, ","))
	}
	r.str("KAFKA_ANALYTICS_TOPIC", &cfg.Kafka.AnalyticsTopic)

	r.duration("AUTOSAVE_DEBOUNCE", &cfg.Autosave.Debounce)
	r.duration("PRESENCE_HEARTBEAT_INTERVAL", &cfg.Presence.HeartbeatInterval)
	r.duration("PRESENCE_SESSION_TTL", &cfg.Presence.SessionTTL)
	r.str("SESSION_JANITOR_SCHEDULE", &cfg.Presence.JanitorSchedule)

	if raw, ok := r.value("DIAGNOSTICS_RATE_PER_SEC"); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			r.warn("DIAGNOSTICS_RATE_PER_SEC", raw)
		} else {
			cfg.Diagnostics.RatePerSec = v
		}
	}

	r.str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Tracing.Endpoint)
	if raw, ok := r.value("OTEL_EXPORTER_OTLP_INSECURE"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			r.warn("OTEL_EXPORTER_OTLP_INSECURE", raw)
		} else {
			cfg.Tracing.Insecure = v
		}
	}
	if raw, ok := r.value("TRACING_SAMPLE_RATE"); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			r.warn("TRACING_SAMPLE_RATE", raw)
		} else {
			cfg.Tracing.SampleRate = v
		}
	}

	cfg.Warnings = r.warnings
	return cfg
}

type reader struct {
	lookup   func(string) (string, bool)
	warnings []string
}

func (r *reader) value(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (r *reader) warn(key, raw string) {
	r.warnings = append(r.warnings, fmt.Sprintf("%s=%q is malformed, using default", key, raw))
}

func (r *reader) str(key string, dst *string) {
	if v, ok := r.value(key); ok {
		*dst = v
	}
}

func (r *reader) integer(key string, dst *int) {
	raw, ok := r.value(key)
	if !ok {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		r.warn(key, raw)
		return
	}
	*dst = v
}

func (r *reader) duration(key string, dst *time.Duration) {
	raw, ok := r.value(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		r.warn(key, raw)
		return
	}
	*dst = d
}

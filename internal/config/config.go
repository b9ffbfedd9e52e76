// Package config loads server settings from the environment and
// command-line flags. Flags override environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the server settings.
type Config struct {
	DBPath     string
	ListenAddr string
	LogLevel   string
	LogFormat  string

	// RecurrenceInterval is the period of the regeneration loop. Zero
	// disables the loop; RegenerateRecurring still works on demand.
	RecurrenceInterval time.Duration

	// RedisAddr enables the distributed run lock when set.
	RedisAddr string

	// KafkaBrokers is a comma-separated broker list. Events are published
	// only when both brokers and topic are set.
	KafkaBrokers string
	KafkaTopic   string
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the environment and then parses args (without the program
// name) as flags.
func Load(args []string) (*Config, error) {
	interval, err := time.ParseDuration(getEnv("RECURRENCE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECURRENCE_INTERVAL: %w", err)
	}

	cfg := &Config{}
	fs := pflag.NewFlagSet("chores-server", pflag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db-path", getEnv("DB_PATH", "./data/chores.db"), "SQLite database file")
	fs.StringVar(&cfg.ListenAddr, "listen", getEnv("LISTEN_ADDR", ":8080"), "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "text or json")
	fs.DurationVar(&cfg.RecurrenceInterval, "recurrence-interval", interval, "regeneration loop period, 0 disables")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", ""), "Redis address for the regeneration run lock")
	fs.StringVar(&cfg.KafkaBrokers, "kafka-brokers", getEnv("KAFKA_BROKERS", ""), "comma-separated Kafka brokers")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", getEnv("KAFKA_TOPIC", "chores.lists"), "Kafka topic for list events")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.RecurrenceInterval < 0 {
		return nil, fmt.Errorf("recurrence interval must not be negative: %s", cfg.RecurrenceInterval)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return cfg, nil
}

// EventsEnabled reports whether a Kafka publisher should be started.
func (c *Config) EventsEnabled() bool {
	return c.KafkaBrokers != "" && c.KafkaTopic != ""
}

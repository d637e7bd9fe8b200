package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultSnapshotTable = "account_snapshots"
	DefaultKafkaTopic    = "account_snapshots"
)

// Config represents the engine configuration.
// Everything except logging is optional; an empty DSN or broker list
// turns the matching snapshot export off.
type Config struct {
	LogLevel  zapcore.Level
	LogFormat string // console or json

	PostgresDSN   string
	PostgresTable string

	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads envFile (or ./.env when envFile is empty and the file exists)
// into the process environment, then builds the config from it.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFromEnv()
}

// LoadFromEnv loads the configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}

	level := os.Getenv("ENGINE_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("ENGINE_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl

	cfg.LogFormat = strings.ToLower(os.Getenv("ENGINE_LOG_FORMAT"))
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "console"
	case "console", "json":
	default:
		return nil, fmt.Errorf("ENGINE_LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}

	cfg.PostgresDSN = os.Getenv("ENGINE_POSTGRES_DSN")
	cfg.PostgresTable = os.Getenv("ENGINE_POSTGRES_TABLE")
	if cfg.PostgresTable == "" {
		cfg.PostgresTable = DefaultSnapshotTable
	}

	for _, b := range strings.Split(os.Getenv("ENGINE_KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	cfg.KafkaTopic = os.Getenv("ENGINE_KAFKA_TOPIC")
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = DefaultKafkaTopic
	}

	return cfg, nil
}

func (c *Config) PostgresEnabled() bool {
	return c.PostgresDSN != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

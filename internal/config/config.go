package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendPostgres}

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int
	CORSAllowedOrigin  string
	ShutdownTimeout    time.Duration

	// Backend selection
	DataBackend  string
	SQLiteDBPath string
	DatabaseURL  string

	// AMQP; an empty URL disables events
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	LogLevel string

	// Seeding
	SeedOnStart bool
	SeedPeople  int

	TotalsConcurrency int
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CORSAllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "*"),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DataBackend:  getEnv("DATA_BACKEND", BackendSQLite),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/gastos.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "gastos"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "transactions"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		SeedOnStart: getEnvBool("SEED_ON_START", false),
		SeedPeople:  getEnvInt("SEED_PEOPLE", 40),

		TotalsConcurrency: getEnvInt("TOTALS_CONCURRENCY", 4),
	}
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate reports every problem at once. The SQLite directory is created
// when missing.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		add("invalid port '%s': must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		add("invalid port %d: must be between 1 and 65535", port)
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		add("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends)
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			add("SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					add("cannot create SQLite database directory '%s': %v", dir, err)
				}
			}
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			add("DATABASE_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.DatabaseURL); err != nil {
			add("invalid DATABASE_URL: %v", err)
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			add("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme)
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			add("invalid AMQP URL '%s': %v", c.AMQPURL, err)
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			add("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme)
		}
		if c.AMQPExchange == "" {
			add("AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("invalid log level '%s': must be debug, info, warn or error", c.LogLevel)
	}

	if c.TotalsConcurrency < 1 || c.TotalsConcurrency > 64 {
		add("invalid totals concurrency %d: must be between 1 and 64", c.TotalsConcurrency)
	}
	if c.RateLimitPerMinute < 1 {
		add("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute)
	}
	if c.SeedPeople < 0 {
		add("invalid seed people count %d: must not be negative", c.SeedPeople)
	}
	if c.ShutdownTimeout < time.Second {
		add("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

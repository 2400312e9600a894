package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Log      LogConfig
	Netting  NettingConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	URL        string
	Host       string
	Port       string
	Username   string
	Password   string
	Database   string
	SSLMode    string
	SQLitePath string
	MaxConns   int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// NettingConfig tunes the netting engine and reservation locking
type NettingConfig struct {
	Workers      int
	BOMCacheTTL  time.Duration
	LockMaxRetry int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	workers, err := getEnvInt("NETTING_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	lockMaxRetry, err := getEnvInt("LOCK_MAX_RETRY", 170)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("BOM_CACHE_TTL", 0)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverMemory)),
			URL:        os.Getenv("DATABASE_URL"),
			Host:       getEnv("PG_HOST", "localhost"),
			Port:       getEnv("PG_PORT", "5432"),
			Username:   getEnv("PG_USERNAME", "postgres"),
			Password:   os.Getenv("PG_PASSWORD"),
			Database:   getEnv("PG_DATABASE", "prodplan"),
			SSLMode:    getEnv("PG_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "prodplan.db"),
			MaxConns:   maxConns,
		},
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: shutdownTimeout,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Netting: NettingConfig{
			Workers:      workers,
			BOMCacheTTL:  cacheTTL,
			LockMaxRetry: lockMaxRetry,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and the storage driver
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER: %s (expected: memory, postgres, or sqlite)", c.Database.Driver)
	}
	if c.Netting.Workers <= 0 {
		return fmt.Errorf("NETTING_WORKERS must be positive, got %d", c.Netting.Workers)
	}
	if c.Netting.LockMaxRetry <= 0 {
		return fmt.Errorf("LOCK_MAX_RETRY must be positive, got %d", c.Netting.LockMaxRetry)
	}
	if c.Netting.BOMCacheTTL < 0 {
		return fmt.Errorf("BOM_CACHE_TTL cannot be negative, got %s", c.Netting.BOMCacheTTL)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
// DATABASE_URL wins over the PG_* variables.
func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverSQLite:
		return d.SQLitePath
	case DriverPostgres:
		if d.URL != "" {
			return d.URL
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.Username, d.Password),
			Host:     d.Host + ":" + d.Port,
			Path:     d.Database,
			RawQuery: "sslmode=" + d.SSLMode,
		}
		return u.String()
	default:
		return ""
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return d, nil
}

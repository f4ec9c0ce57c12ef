// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendAWS    = "aws"
	BackendMemory = "memory"
)

// Config holds the configuration shared by the HTTP service and the lambdas.
type Config struct {
	HTTPPort     string
	Env          string
	StoreBackend string

	Postgres PostgresConfig

	CustomersTable string
	LedgerTable    string

	SQSQueueURL       string
	SNSAlertsTopicARN string
	RedisURL          string

	LedgerTimeout            time.Duration
	StuckSettlementThreshold time.Duration
	ProductCacheTTL          time.Duration
}

// PostgresConfig holds the inventory database connection settings.
type PostgresConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConnectionString returns DSN if set, otherwise builds one from the parts.
func (c PostgresConfig) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode, c.TimeZone,
	)
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment and validates it.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPPort:     getenv("HTTP_PORT", "8080"),
		Env:          getenv("APP_ENV", "development"),
		StoreBackend: getenv("STORE_BACKEND", BackendAWS),
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			Host:            getenv("POSTGRES_HOST", "localhost"),
			Port:            getenv("POSTGRES_PORT", "5432"),
			User:            os.Getenv("POSTGRES_USER"),
			Password:        os.Getenv("POSTGRES_PASSWORD"),
			DBName:          getenv("POSTGRES_DB", "kiosk"),
			SSLMode:         getenv("POSTGRES_SSLMODE", "disable"),
			TimeZone:        getenv("POSTGRES_TIMEZONE", "UTC"),
			MaxOpenConns:    atoienv("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    atoienv("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(atoienv("POSTGRES_CONN_MAX_LIFETIME_MIN", 5)) * time.Minute,
		},
		CustomersTable:           getenv("DYNAMODB_CUSTOMERS_TABLE_NAME", "customers"),
		LedgerTable:              getenv("DYNAMODB_LEDGER_TABLE_NAME", "ledger_entries"),
		SQSQueueURL:              os.Getenv("SQS_QUEUE_URL"),
		SNSAlertsTopicARN:        os.Getenv("SNS_ALERTS_TOPIC_ARN"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		LedgerTimeout:            time.Duration(atoienv("LEDGER_TIMEOUT_MS", 3000)) * time.Millisecond,
		StuckSettlementThreshold: time.Duration(atoienv("STUCK_SETTLEMENT_THRESHOLD_MIN", 20)) * time.Minute,
		ProductCacheTTL:          time.Duration(atoienv("PRODUCT_CACHE_TTL_SEC", 300)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings required by the selected store backend.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
		return nil
	case BackendAWS:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.Postgres.DSN == "" && c.Postgres.User == "" {
		return fmt.Errorf("POSTGRES_DSN or POSTGRES_USER must be set")
	}
	if c.LedgerTimeout <= 0 {
		return fmt.Errorf("LEDGER_TIMEOUT_MS must be positive")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func atoienv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

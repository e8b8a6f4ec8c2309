package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCatalogCacheTTL bounds how long a cart can be priced from a cached
// catalog entry after the price changed.
const DefaultCatalogCacheTTL = 30 * time.Second

type Config struct {
	AppEnv   string
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisAddr enables the catalog cache when set.
	RedisAddr       string
	CatalogCacheTTL time.Duration

	// KafkaBrokers is a comma separated list. Empty disables the outbox relay;
	// events then stay in the outbox until a relay runs.
	KafkaBrokers          string
	KafkaOrderEventsTopic string
	OutboxBatchSize       int

	ReconcileLookback time.Duration

	// OtelEndpoint enables span export over OTLP/HTTP when set.
	OtelEndpoint string
}

// LoadConfig reads the environment after loading the given .env files. A
// missing file is skipped; a malformed one is an error.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "postgres"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                getEnv("DB_NAME", "eshop"),
		DBSslMode:             getEnv("DB_SSLMODE", "disable"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		KafkaBrokers:          os.Getenv("KAFKA_BROKERS"),
		KafkaOrderEventsTopic: getEnv("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),
		OtelEndpoint:          os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", DefaultCatalogCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.ReconcileLookback, err = getDuration("RECONCILE_LOOKBACK", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxBatchSize, err = getInt("OUTBOX_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, value)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

package app

import (
	"os"
	"time"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	HTTPPort     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	OutboxPollInterval time.Duration
}

// LoadConfig reads the environment, applying defaults suitable for
// local development. Secrets come from the environment only.
func LoadConfig() Config {
	return Config{
		DBHost:     envOr("DB_HOST", "localhost"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "employee_records"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBSSLMode:  envOr("DB_SSLMODE", "disable"),

		RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: envOr("KAFKA_BROKER", "localhost:9092"),

		HTTPPort:     envOr("HTTP_PORT", "8080"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,

		OutboxPollInterval: 3 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"os"
	"strings"
	"time"
)

// Config holds everything the gateway reads from the environment.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	MarketplaceURL string

	KafkaBrokers []string
	PushTopic    string
	PushGroup    string

	RedisAddr   string
	SnapshotTTL time.Duration

	JWTSecret string
	StripeKey string

	OTLPEndpoint string
}

// Load reads the configuration from the environment, falling back to
// local-development defaults.
func Load() Config {
	return Config{
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9090"),
		MarketplaceURL: env("MARKETPLACE_URL", "http://localhost:5001"),
		KafkaBrokers:   strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),
		PushTopic:      env("PUSH_TOPIC", "client.push"),
		PushGroup:      env("PUSH_GROUP", "client-gateway"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		SnapshotTTL:    duration("CART_SNAPSHOT_TTL", 24*time.Hour),
		JWTSecret:      env("JWT_SECRET", "dev-secret"),
		StripeKey:      os.Getenv("STRIPE_SECRET_KEY"),
		OTLPEndpoint:   env("OTLP_ENDPOINT", "localhost:4318"),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package config

import (
	"os"
	"strings"
	"time"
)

// Redis captures connection tuning for the read-state store.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server captures process level configuration.
type Server struct {
	Addr           string
	PostgresURL    string
	Redis          Redis
	KafkaSeeds     []string
	KafkaTopic     string
	JWTSigningKey  string
	FallbackPolicy string
	DevMode        bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PRAXIS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	fallback := os.Getenv("PRAXIS_FALLBACK_POLICY")
	if fallback == "" {
		fallback = "fail-open"
	}

	var kafkaSeeds []string
	if seeds := os.Getenv("KAFKA_SEEDS"); seeds != "" {
		kafkaSeeds = strings.Split(seeds, ",")
	}
	kafkaTopic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "praxis.audit"
	}

	return Server{
		Addr:        addr,
		PostgresURL: os.Getenv("POSTGRES_URL"),
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaSeeds:     kafkaSeeds,
		KafkaTopic:     kafkaTopic,
		JWTSigningKey:  jwtSigningKey,
		FallbackPolicy: fallback,
		DevMode:        os.Getenv("PRAXIS_DEV_MODE") == "true",
	}
}

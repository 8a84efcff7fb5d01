// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string

	// ProofTTL bounds the validity window of minted authority proofs.
	ProofTTL time.Duration

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// PostgresConfig holds the persistent store settings. An empty DSN selects
// the in-memory store.
type PostgresConfig struct {
	DSN string
}

// RedisConfig holds connection settings for the Redis audit store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the Kafka audit sink. Empty brokers disable
// it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("CUSTODIA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	proofTTL := 30 * time.Second
	if raw := os.Getenv("CUSTODIA_PROOF_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			proofTTL = d
		}
	}

	topic := os.Getenv("CUSTODIA_KAFKA_TOPIC")
	if topic == "" {
		topic = "custodia.audit"
	}

	var brokers []string
	if raw := os.Getenv("CUSTODIA_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:     addr,
		ProofTTL: proofTTL,
		Postgres: PostgresConfig{
			DSN: os.Getenv("CUSTODIA_POSTGRES_DSN"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("CUSTODIA_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}

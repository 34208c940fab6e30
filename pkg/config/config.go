// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the API server and its backends.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	RedisAddr       string
	KafkaBroker     string
	KafkaTopic      string
	JWTSecret       string
	OtelHost        string
	TraceProb       float64
	ListingTTL      time.Duration
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func floatenv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func durenvs(key string, defSec int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	sec, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8443"),
		DatabaseURL:     getenv("DATABASE_URL", ""),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:     getenv("KAFKA_BROKER", ""),
		KafkaTopic:      getenv("KAFKA_TOPIC", "shopflow.events"),
		JWTSecret:       getenv("JWT_SECRET", ""),
		OtelHost:        getenv("OTEL_HOST", "localhost:4317"),
		TraceProb:       floatenv("TRACE_PROBABILITY", 1.0),
		ListingTTL:      durenvs("LISTING_TTL_SECONDS", 3600),
		SessionTTL:      durenvs("SESSION_TTL_SECONDS", 3600),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
	}
}

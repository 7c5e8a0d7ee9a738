package lib

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const fallbackJWTSecret = "fallback-secret-key"

// Config aggregates the environment driven settings of the API process.
type Config struct {
	Port            string
	CORSOrigins     string
	ShutdownTimeout time.Duration

	DBDriver    string // sqlite|postgres
	DBPath      string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel  string
	LogFormat string // text|json

	MessageStore  string // sql|mongo
	MongoURI      string
	MongoDatabase string

	RedisURL string

	EnforceSendConnection bool
	InitialCredits        int
}

// UsesFallbackSecret reports whether JWT_SECRET was left unset.
func (c Config) UsesFallbackSecret() bool {
	return c.JWTSecret == fallbackJWTSecret
}

// LoadConfig reads configuration from environment variables, applying defaults.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:          valueOrDefault("PORT", "3000"),
		CORSOrigins:   valueOrDefault("CORS_ORIGINS", "http://localhost:5173"),
		DBDriver:      strings.ToLower(valueOrDefault("DB_DRIVER", "sqlite")),
		DBPath:        valueOrDefault("DB_PATH", "./skillbarter.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     valueOrDefault("JWT_SECRET", fallbackJWTSecret),
		LogLevel:      valueOrDefault("LOG_LEVEL", "info"),
		LogFormat:     valueOrDefault("LOG_FORMAT", "text"),
		MessageStore:  strings.ToLower(valueOrDefault("MESSAGE_STORE", "sql")),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: valueOrDefault("MONGO_DATABASE", "skillbarter"),
		RedisURL:      os.Getenv("REDIS_URL"),
	}

	var err error
	if cfg.JWTTTL, err = parseDuration("JWT_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.EnforceSendConnection, err = parseBool("CHAT_ENFORCE_SEND_CONNECTION", false); err != nil {
		return Config{}, err
	}
	if cfg.InitialCredits, err = parseInt("INITIAL_CREDITS", 5); err != nil {
		return Config{}, err
	}
	if cfg.InitialCredits < 0 {
		return Config{}, fmt.Errorf("INITIAL_CREDITS must not be negative, got %d", cfg.InitialCredits)
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.MessageStore {
	case "sql":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when MESSAGE_STORE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unsupported MESSAGE_STORE %q", cfg.MessageStore)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, v)
	}
	return d, nil
}

func parseBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return b, nil
}

func parseInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// EnvProduction is the ENV value that enables production checks and JSON logs.
const EnvProduction = "production"

const (
	defaultJWTSecret      = "dev-secret-change-in-production"
	defaultFingerprintKey = "dev-fingerprint-key"
)

type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	JWTSecret      string
	JWTExpiry      time.Duration
	FingerprintKey string

	MaxAttempts   int
	StrictEntropy bool

	RateLimitRPS   float64
	RateLimitBurst int

	PresetsFile string
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),
		JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:      getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		FingerprintKey: getEnv("FINGERPRINT_KEY", defaultFingerprintKey),
		MaxAttempts:    getEnvInt("MAX_ATTEMPTS", 1000),
		StrictEntropy:  getEnvBool("STRICT_ENTROPY", false),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		PresetsFile:    getEnv("PRESETS_FILE", ""),
	}

	if cfg.IsProduction() {
		if cfg.JWTSecret == defaultJWTSecret {
			slog.Error("JWT_SECRET must be set in production environment")
			os.Exit(1)
		}
		if cfg.FingerprintKey == defaultFingerprintKey {
			slog.Error("FINGERPRINT_KEY must be set in production environment")
			os.Exit(1)
		}
	}

	if cfg.MaxAttempts < 1 {
		slog.Warn("MAX_ATTEMPTS must be positive, using default", "value", cfg.MaxAttempts)
		cfg.MaxAttempts = 1000
	}

	return cfg
}

// NewLogger returns a JSON logger for production and a text logger otherwise.
func NewLogger(w io.Writer, env string) *slog.Logger {
	if env == EnvProduction {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}

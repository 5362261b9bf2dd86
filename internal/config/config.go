package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the Inkwell server.
type Config struct {
	DBPath             string
	ServerPort         int
	LogLevel           string
	SentryDSN          string
	Environment        string
	ShutdownGrace      time.Duration
	RateLimitPerSec    float64
	RateLimitBurst     int
	RateLimitClientTTL time.Duration
}

const (
	defaultDBPath          = "./data/inkwell.db"
	defaultServerPort      = 8080
	defaultLogLevel        = "info"
	defaultEnvironment     = "development"
	defaultShutdownGrace   = 10 * time.Second
	defaultRateLimitPerSec = 10.0
	defaultRateLimitBurst  = 20
	defaultRateLimitTTL    = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:             getEnv("DB_PATH", defaultDBPath),
		LogLevel:           getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		Environment:        getEnv("ENV", defaultEnvironment),
		ShutdownGrace:      defaultShutdownGrace,
		RateLimitClientTTL: defaultRateLimitTTL,
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	rpsValue := getEnv("RATE_LIMIT_RPS", strconv.FormatFloat(defaultRateLimitPerSec, 'f', -1, 64))
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}
	if rps <= 0 {
		return nil, eris.Errorf("RATE_LIMIT_RPS must be positive, got %s", rpsValue)
	}
	cfg.RateLimitPerSec = rps

	burstValue := getEnv("RATE_LIMIT_BURST", strconv.Itoa(defaultRateLimitBurst))
	burst, err := strconv.Atoi(burstValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_BURST value: %s", burstValue)
	}
	if burst <= 0 {
		return nil, eris.Errorf("RATE_LIMIT_BURST must be positive, got %s", burstValue)
	}
	cfg.RateLimitBurst = burst

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

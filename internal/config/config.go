package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds every runtime setting. All credentials are optional: a
// missing routing key disables the main endpoint, a missing weather key
// degrades lookups, an unreachable MongoDB disables query logging.
type AppConfig struct {
	GoogleMapsKey string
	WeatherAPIKey string
	MongoURI      string

	Port string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// MongoTimeout bounds connection checks and individual writes.
	MongoTimeout time.Duration

	// Weather provider rate limiting. Burst must cover a full waypoint
	// fan-out so a single request never stalls on the limiter.
	WeatherRPS   float64
	WeatherBurst int

	// Query log retention.
	QuerylogMaxAge        time.Duration
	QuerylogSweepInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.GoogleMapsKey = os.Getenv("GOOGLE_MAPS_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.MongoURI = getenvDefault("MONGO_URI", "mongodb://localhost:27017/")
	cfg.Port = getenvDefault("PORT", "5000")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	mongoTimeoutStr := getenvDefault("MONGO_TIMEOUT", "5s")
	mongoTimeout, err := time.ParseDuration(mongoTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MONGO_TIMEOUT: %w", err)
	}
	cfg.MongoTimeout = mongoTimeout

	cfg.WeatherRPS = getenvFloat("WEATHER_RPS", 10)
	cfg.WeatherBurst = getenvInt("WEATHER_BURST", 10)

	maxAgeStr := getenvDefault("QUERYLOG_MAX_AGE", "720h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid QUERYLOG_MAX_AGE: %w", err)
	}
	cfg.QuerylogMaxAge = maxAge

	sweepStr := getenvDefault("QUERYLOG_SWEEP_INTERVAL", "24h")
	sweep, err := time.ParseDuration(sweepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid QUERYLOG_SWEEP_INTERVAL: %w", err)
	}
	cfg.QuerylogSweepInterval = sweep

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

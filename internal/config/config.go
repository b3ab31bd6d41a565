package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatabaseURL     string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Weather provider (Open-Meteo forecast endpoint).
	WeatherBaseURL string
	WeatherTimeout time.Duration

	// Scheduling intervals for the background jobs.
	FetchInterval        time.Duration
	ReadingSweepInterval time.Duration
	AlertSweepInterval   time.Duration
	JobTimeout           time.Duration

	// Data lifecycle.
	ReadingRetention time.Duration
	AlertTTL         time.Duration
	HistoryWindow    time.Duration

	// Redis snapshot cache for the read API. Enabled when RedisAddr is set.
	RedisAddr     string
	RedisCacheTTL time.Duration

	// Kafka alert event publishing. Enabled when brokers are set.
	KafkaBrokers    []string
	KafkaAlertTopic string
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		WeatherBaseURL:  envOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "heatwave-alert-events"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = parseBrokers(brokers)
	}

	durations := []struct {
		dst  *time.Duration
		name string
		def  string
	}{
		{&cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT", "10s"},
		{&cfg.WeatherTimeout, "WEATHER_TIMEOUT", "10s"},
		{&cfg.FetchInterval, "FETCH_INTERVAL", "15m"},
		{&cfg.ReadingSweepInterval, "READING_SWEEP_INTERVAL", "1h"},
		{&cfg.AlertSweepInterval, "ALERT_SWEEP_INTERVAL", "10m"},
		{&cfg.JobTimeout, "JOB_TIMEOUT", "2m"},
		{&cfg.ReadingRetention, "READING_RETENTION", "720h"},
		{&cfg.AlertTTL, "ALERT_TTL", "6h"},
		{&cfg.HistoryWindow, "HISTORY_WINDOW", "168h"},
		{&cfg.RedisCacheTTL, "REDIS_CACHE_TTL", "20m"},
	}
	for _, d := range durations {
		v, err := parseDuration(d.name, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.ReadingRetention < 24*time.Hour {
		return nil, errors.New("READING_RETENTION must be at least 24h")
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDuration(name, def string) (time.Duration, error) {
	v, err := time.ParseDuration(envOrDefault(name, def))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"weathermood/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// HTTPTimeout caps a single end-to-end fetch pipeline run.
	HTTPTimeout time.Duration

	// RefreshInterval controls how often watched locations are refreshed.
	RefreshInterval time.Duration

	// WatchQueries are the locations refreshed in the background.
	WatchQueries []weather.Query

	// ProviderRPS/ProviderBurst throttle outbound provider calls.
	// RPS <= 0 disables throttling.
	ProviderRPS   float64
	ProviderBurst int

	LogLevel  slog.Level
	LogFormat string // "json" or "text"

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", slog.Any("error", err))
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.WatchQueries = loadWatchQueries()

	cfg.ProviderRPS = getenvFloat("PROVIDER_RPS", 0)
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 5)

	cfg.LogLevel = parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "text")

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// NewLogger builds the application logger from the configured level and
// format.
func (c *AppConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// loadWatchQueries parses WATCH_LOCATIONS, a comma-separated list of place
// names, e.g. "Denver,Oslo,Tokyo".
func loadWatchQueries() []weather.Query {
	raw := os.Getenv("WATCH_LOCATIONS")
	if raw == "" {
		return nil
	}
	var queries []weather.Query
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		queries = append(queries, weather.Query{Text: part})
	}
	return queries
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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

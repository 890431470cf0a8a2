package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// News source configuration
	News NewsConfig

	// Session lifecycle configuration
	Session SessionConfig

	// Event fan-out configuration
	Events EventsConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// NewsConfig holds the outbound headlines source settings
type NewsConfig struct {
	BaseURL        string
	APIKey         string
	Country        string
	Limit          int
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// SessionConfig holds session expiry settings
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// EventsConfig holds NATS settings. An empty URL disables publishing.
type EventsConfig struct {
	NATSURL string
	Subject string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is fine; real environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 0),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		News: NewsConfig{
			BaseURL:        getEnv("NEWS_API_URL", "https://newsapi.org/v2/top-headlines"),
			APIKey:         getEnv("NEWS_API_KEY", ""),
			Country:        getEnv("NEWS_COUNTRY", "us"),
			Limit:          getIntEnv("NEWS_LIMIT", 5),
			Timeout:        getDurationEnv("NEWS_TIMEOUT", 10*time.Second),
			RateLimitRPS:   getFloatEnv("NEWS_RATE_LIMIT_RPS", 1),
			RateLimitBurst: getIntEnv("NEWS_RATE_LIMIT_BURST", 5),
		},
		Session: SessionConfig{
			TTL:           getDurationEnv("SESSION_TTL", 30*time.Minute),
			SweepInterval: getDurationEnv("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Events: EventsConfig{
			NATSURL: getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_SUBJECT", "mockposts.events"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.News.APIKey == "" {
		return fmt.Errorf("NEWS_API_KEY is required")
	}
	u, err := url.Parse(c.News.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("NEWS_API_URL must be an absolute URL, got %q", c.News.BaseURL)
	}
	if c.News.Country == "" {
		return fmt.Errorf("NEWS_COUNTRY is required")
	}
	if c.News.Limit <= 0 {
		return fmt.Errorf("NEWS_LIMIT must be positive")
	}
	if c.News.RateLimitRPS <= 0 || c.News.RateLimitBurst <= 0 {
		return fmt.Errorf("NEWS_RATE_LIMIT_RPS and NEWS_RATE_LIMIT_BURST must be positive")
	}
	if c.Session.TTL <= 0 || c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_TTL and SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

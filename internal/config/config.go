// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Supported cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Timeouts  TimeoutConfig
	Logging   LoggingConfig
	App       AppConfig
	Cache     CacheConfig
	Amadeus   AmadeusConfig
	Kiwi      KiwiConfig
	SerpAPI   SerpAPIConfig
	RapidAPI  RapidAPIConfig
	RateLimit RateLimitConfig
	Retry     RetryConfig
	Events    EventsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"45s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// TimeoutConfig holds engine-level timeouts. Provider timeouts live in each provider section.
type TimeoutConfig struct {
	GlobalSearch time.Duration `env:"TIMEOUT_GLOBAL_SEARCH" envDefault:"30s"`
	EventPublish time.Duration `env:"TIMEOUT_EVENT_PUBLISH" envDefault:"5s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Caller bool   `env:"LOG_CALLER" envDefault:"false"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"fare-aggregator"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend string        `env:"CACHE_BACKEND" envDefault:"memory"`
	TTL     time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	Redis   RedisConfig
}

// RedisConfig is used when CACHE_BACKEND=redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// AmadeusConfig holds OAuth client credentials and search settings for Amadeus.
type AmadeusConfig struct {
	ClientID     string        `env:"AMADEUS_CLIENT_ID"`
	ClientSecret string        `env:"AMADEUS_CLIENT_SECRET"`
	BaseURL      string        `env:"AMADEUS_BASE_URL" envDefault:"https://test.api.amadeus.com"`
	Timeout      time.Duration `env:"AMADEUS_TIMEOUT" envDefault:"10s"`
	Max          int           `env:"AMADEUS_MAX_RESULTS" envDefault:"15"`
}

// Enabled reports whether both credentials are present.
func (c AmadeusConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// KiwiConfig holds the Tequila API settings.
type KiwiConfig struct {
	APIKey  string        `env:"KIWI_API_KEY"`
	BaseURL string        `env:"KIWI_BASE_URL" envDefault:"https://api.tequila.kiwi.com"`
	Timeout time.Duration `env:"KIWI_TIMEOUT" envDefault:"10s"`
	Limit   int           `env:"KIWI_LIMIT" envDefault:"5"`
}

func (c KiwiConfig) Enabled() bool {
	return c.APIKey != ""
}

// SerpAPIConfig is shared by the Booking.com and Google Flights SerpAPI engines.
type SerpAPIConfig struct {
	APIKey  string        `env:"SERPAPI_KEY"`
	BaseURL string        `env:"SERPAPI_BASE_URL" envDefault:"https://serpapi.com/search"`
	Timeout time.Duration `env:"SERPAPI_TIMEOUT" envDefault:"10s"`
	Limit   int           `env:"SERPAPI_LIMIT" envDefault:"10"`
}

func (c SerpAPIConfig) Enabled() bool {
	return c.APIKey != ""
}

// RapidAPIConfig is shared by the Skyscanner and Google Flights RapidAPI providers.
type RapidAPIConfig struct {
	APIKey            string        `env:"RAPIDAPI_KEY"`
	SkyscannerHost    string        `env:"RAPIDAPI_SKYSCANNER_HOST" envDefault:"blue-scraper.p.rapidapi.com"`
	GoogleFlightsHost string        `env:"RAPIDAPI_GOOGLE_FLIGHTS_HOST" envDefault:"google-flights2.p.rapidapi.com"`
	Timeout           time.Duration `env:"RAPIDAPI_TIMEOUT" envDefault:"15s"`
	Limit             int           `env:"RAPIDAPI_LIMIT" envDefault:"10"`
}

func (c RapidAPIConfig) Enabled() bool {
	return c.APIKey != ""
}

// RateLimitConfig paces outbound calls per provider. RATE_LIMIT_RPS=0 disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst             int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	MaxWait           time.Duration `env:"RATE_LIMIT_MAX_WAIT" envDefault:"2s"`

	// Overrides sets requests per second for single providers by display name,
	// e.g. RATE_LIMIT_OVERRIDES="Kiwi.com=1,Skyscanner=0.5".
	Overrides map[string]float64 `env:"RATE_LIMIT_OVERRIDES" envSeparator:"," envKeyValSeparator:"="`
}

// RetryConfig bounds retries of transient provider failures (transport errors, 429, 5xx).
type RetryConfig struct {
	MaxAttempts int `env:"PROVIDER_MAX_ATTEMPTS" envDefault:"2"`
}

// EventsConfig configures the Kafka publisher. No brokers means events are dropped.
type EventsConfig struct {
	Brokers      []string      `env:"EVENTS_KAFKA_BROKERS" envSeparator:","`
	Topic        string        `env:"EVENTS_KAFKA_TOPIC" envDefault:"fare.search.completed"`
	BatchTimeout time.Duration `env:"EVENTS_KAFKA_BATCH_TIMEOUT" envDefault:"50ms"`
}

func (c EventsConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout},
		{"TIMEOUT_GLOBAL_SEARCH", cfg.Timeouts.GlobalSearch},
		{"TIMEOUT_EVENT_PUBLISH", cfg.Timeouts.EventPublish},
		{"CACHE_TTL", cfg.Cache.TTL},
		{"AMADEUS_TIMEOUT", cfg.Amadeus.Timeout},
		{"KIWI_TIMEOUT", cfg.Kiwi.Timeout},
		{"SERPAPI_TIMEOUT", cfg.SerpAPI.Timeout},
		{"RAPIDAPI_TIMEOUT", cfg.RapidAPI.Timeout},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}

	// Every provider must be able to answer before the shared search gives up.
	providerTimeouts := []struct {
		name  string
		value time.Duration
	}{
		{"AMADEUS_TIMEOUT", cfg.Amadeus.Timeout},
		{"KIWI_TIMEOUT", cfg.Kiwi.Timeout},
		{"SERPAPI_TIMEOUT", cfg.SerpAPI.Timeout},
		{"RAPIDAPI_TIMEOUT", cfg.RapidAPI.Timeout},
	}
	for _, p := range providerTimeouts {
		if p.value >= cfg.Timeouts.GlobalSearch {
			return fmt.Errorf("%s (%s) should be less than TIMEOUT_GLOBAL_SEARCH (%s)",
				p.name, p.value, cfg.Timeouts.GlobalSearch)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	switch cfg.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.Cache.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis; got %q", cfg.Cache.Backend)
	}

	if cfg.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	for name, rps := range cfg.RateLimit.Overrides {
		if rps <= 0 {
			return fmt.Errorf("RATE_LIMIT_OVERRIDES: %s must have a positive rate, got %g", name, rps)
		}
	}

	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("PROVIDER_MAX_ATTEMPTS must be at least 1, got %d", cfg.Retry.MaxAttempts)
	}

	if cfg.Events.Enabled() && cfg.Events.Topic == "" {
		return fmt.Errorf("EVENTS_KAFKA_TOPIC is required when EVENTS_KAFKA_BROKERS is set")
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// EnabledProviders reports which provider groups have credentials.
func (c *Config) EnabledProviders() map[string]bool {
	return map[string]bool{
		"amadeus":  c.Amadeus.Enabled(),
		"kiwi":     c.Kiwi.Enabled(),
		"serpapi":  c.SerpAPI.Enabled(),
		"rapidapi": c.RapidAPI.Enabled(),
	}
}

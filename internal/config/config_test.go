package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests that all default values load correctly without any env vars.
func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port, "default server port")
	assert.Equal(t, "10s", cfg.Server.ReadTimeout.String(), "default read timeout")
	assert.Equal(t, "45s", cfg.Server.WriteTimeout.String(), "default write timeout")
	assert.Equal(t, "10s", cfg.Server.ShutdownTimeout.String(), "default shutdown timeout")

	assert.Equal(t, "30s", cfg.Timeouts.GlobalSearch.String(), "default global search timeout")
	assert.Equal(t, "5s", cfg.Timeouts.EventPublish.String(), "default publish timeout")

	assert.Equal(t, "info", cfg.Logging.Level, "default log level")
	assert.Equal(t, "json", cfg.Logging.Format, "default log format")
	assert.False(t, cfg.Logging.Caller)

	assert.Equal(t, "development", cfg.App.Env, "default app environment")
	assert.Equal(t, "fare-aggregator", cfg.App.Name)

	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, "1h0m0s", cfg.Cache.TTL.String())
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)

	assert.Equal(t, "https://test.api.amadeus.com", cfg.Amadeus.BaseURL)
	assert.Equal(t, 15, cfg.Amadeus.Max)
	assert.Equal(t, 5, cfg.Kiwi.Limit)
	assert.Equal(t, "blue-scraper.p.rapidapi.com", cfg.RapidAPI.SkyscannerHost)
	assert.Equal(t, "google-flights2.p.rapidapi.com", cfg.RapidAPI.GoogleFlightsHost)

	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.RateLimit.Overrides)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)

	assert.Empty(t, cfg.Events.Brokers)
	assert.False(t, cfg.Events.Enabled())
	assert.Equal(t, "fare.search.completed", cfg.Events.Topic)

	for name, enabled := range cfg.EnabledProviders() {
		assert.False(t, enabled, name)
	}
}

// TestLoad_EnvironmentOverrides tests that environment variables override defaults.
func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnvVars(t)

	setEnvVars(t, map[string]string{
		"SERVER_PORT":           "3001",
		"SERVER_READ_TIMEOUT":   "30s",
		"TIMEOUT_GLOBAL_SEARCH": "20s",
		"LOG_LEVEL":             "debug",
		"LOG_FORMAT":            "console",
		"APP_ENV":               "production",
		"CACHE_BACKEND":         "redis",
		"CACHE_TTL":             "15m",
		"REDIS_ADDR":            "redis:6379",
		"REDIS_DB":              "2",
		"AMADEUS_CLIENT_ID":     "id",
		"AMADEUS_CLIENT_SECRET": "secret",
		"KIWI_API_KEY":          "kiwi",
		"SERPAPI_KEY":           "serp",
		"RAPIDAPI_KEY":          "rapid",
		"RATE_LIMIT_RPS":        "0.5",
		"RATE_LIMIT_OVERRIDES":  "Kiwi.com=1,Google Flights (Serp)=0.25",
		"PROVIDER_MAX_ATTEMPTS": "3",
		"EVENTS_KAFKA_BROKERS":  "kafka-1:9092,kafka-2:9092",
		"EVENTS_KAFKA_TOPIC":    "searches",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "30s", cfg.Server.ReadTimeout.String())
	assert.Equal(t, "20s", cfg.Timeouts.GlobalSearch.String())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "15m0s", cfg.Cache.TTL.String())
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, 0.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, map[string]float64{"Kiwi.com": 1, "Google Flights (Serp)": 0.25}, cfg.RateLimit.Overrides)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "searches", cfg.Events.Topic)
	assert.True(t, cfg.Events.Enabled())

	assert.Equal(t, map[string]bool{
		"amadeus":  true,
		"kiwi":     true,
		"serpapi":  true,
		"rapidapi": true,
	}, cfg.EnabledProviders())
}

func TestAmadeusConfig_Enabled(t *testing.T) {
	tests := []struct {
		name   string
		cfg    AmadeusConfig
		expect bool
	}{
		{"both set", AmadeusConfig{ClientID: "id", ClientSecret: "secret"}, true},
		{"missing secret", AmadeusConfig{ClientID: "id"}, false},
		{"missing id", AmadeusConfig{ClientSecret: "secret"}, false},
		{"none", AmadeusConfig{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.cfg.Enabled())
		})
	}
}

// TestLoad_Validation_PortRange tests port validation boundaries.
func TestLoad_Validation_PortRange(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
		errMsg  string
	}{
		{"valid port 1", "1", false, ""},
		{"valid port 8080", "8080", false, ""},
		{"valid port 65535", "65535", false, ""},
		{"invalid port 0", "0", true, "SERVER_PORT must be between 1 and 65535"},
		{"invalid port negative", "-1", true, "SERVER_PORT must be between 1 and 65535"},
		{"invalid port too high", "65536", true, "SERVER_PORT must be between 1 and 65535"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			setEnvVars(t, map[string]string{"SERVER_PORT": tt.port})

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, cfg)
			}
		})
	}
}

// TestLoad_Validation_PositiveDurations tests that durations must be positive.
func TestLoad_Validation_PositiveDurations(t *testing.T) {
	vars := []string{
		"SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT",
		"SERVER_SHUTDOWN_TIMEOUT",
		"TIMEOUT_GLOBAL_SEARCH",
		"TIMEOUT_EVENT_PUBLISH",
		"CACHE_TTL",
		"AMADEUS_TIMEOUT",
		"KIWI_TIMEOUT",
		"SERPAPI_TIMEOUT",
		"RAPIDAPI_TIMEOUT",
	}

	for _, envVar := range vars {
		for _, value := range []string{"0s", "-1s"} {
			t.Run(envVar+"="+value, func(t *testing.T) {
				clearEnvVars(t)
				setEnvVars(t, map[string]string{envVar: value})

				cfg, err := Load()
				require.Error(t, err)
				assert.Contains(t, err.Error(), envVar+" must be positive")
				assert.Nil(t, cfg)
			})
		}
	}
}

// TestLoad_Validation_ProviderTimeoutBelowGlobal tests that each provider timeout must be below the search timeout.
func TestLoad_Validation_ProviderTimeoutBelowGlobal(t *testing.T) {
	tests := []struct {
		name   string
		vars   map[string]string
		errVar string
	}{
		{
			name:   "equal to global",
			vars:   map[string]string{"TIMEOUT_GLOBAL_SEARCH": "10s", "KIWI_TIMEOUT": "5s", "SERPAPI_TIMEOUT": "5s", "RAPIDAPI_TIMEOUT": "5s", "AMADEUS_TIMEOUT": "10s"},
			errVar: "AMADEUS_TIMEOUT",
		},
		{
			name:   "greater than global",
			vars:   map[string]string{"RAPIDAPI_TIMEOUT": "45s"},
			errVar: "RAPIDAPI_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			setEnvVars(t, tt.vars)

			cfg, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errVar)
			assert.Contains(t, err.Error(), "should be less than")
			assert.Nil(t, cfg)
		})
	}
}

// TestLoad_Validation_Enums tests validation of the enumerated settings.
func TestLoad_Validation_Enums(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		value   string
		wantErr string
	}{
		{"valid debug", "LOG_LEVEL", "debug", ""},
		{"valid warn", "LOG_LEVEL", "warn", ""},
		{"invalid trace", "LOG_LEVEL", "trace", "LOG_LEVEL must be one of"},
		{"valid console", "LOG_FORMAT", "console", ""},
		{"invalid text", "LOG_FORMAT", "text", "LOG_FORMAT must be one of"},
		{"valid staging", "APP_ENV", "staging", ""},
		{"invalid local", "APP_ENV", "local", "APP_ENV must be one of"},
		{"valid redis", "CACHE_BACKEND", "redis", ""},
		{"invalid memcached", "CACHE_BACKEND", "memcached", "CACHE_BACKEND must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			setEnvVars(t, map[string]string{tt.envVar: tt.value})

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, cfg)
			}
		})
	}
}

func TestLoad_Validation_RateLimit(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{"disabled", map[string]string{"RATE_LIMIT_RPS": "0", "RATE_LIMIT_BURST": "0"}, ""},
		{"negative rps", map[string]string{"RATE_LIMIT_RPS": "-1"}, "RATE_LIMIT_RPS must not be negative"},
		{"zero burst", map[string]string{"RATE_LIMIT_BURST": "0"}, "RATE_LIMIT_BURST must be at least 1"},
		{"override", map[string]string{"RATE_LIMIT_OVERRIDES": "Kiwi.com=2"}, ""},
		{"zero override", map[string]string{"RATE_LIMIT_OVERRIDES": "Kiwi.com=0"}, "Kiwi.com must have a positive rate"},
		{"retries disabled", map[string]string{"PROVIDER_MAX_ATTEMPTS": "1"}, ""},
		{"zero attempts", map[string]string{"PROVIDER_MAX_ATTEMPTS": "0"}, "PROVIDER_MAX_ATTEMPTS must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			setEnvVars(t, tt.vars)

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestLoad_Validation_EventsTopic(t *testing.T) {
	clearEnvVars(t)
	setEnvVars(t, map[string]string{
		"EVENTS_KAFKA_BROKERS": "localhost:9092",
		"EVENTS_KAFKA_TOPIC":   "",
	})

	// an empty value falls back to envDefault, so the topic stays set
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fare.search.completed", cfg.Events.Topic)
}

// TestMustLoad_Success tests MustLoad with valid config.
func TestMustLoad_Success(t *testing.T) {
	clearEnvVars(t)

	assert.NotPanics(t, func() {
		cfg := MustLoad()
		assert.NotNil(t, cfg)
	})
}

// TestMustLoad_Panic tests MustLoad panics on invalid config.
func TestMustLoad_Panic(t *testing.T) {
	clearEnvVars(t)
	setEnvVars(t, map[string]string{"SERVER_PORT": "0"})

	assert.Panics(t, func() {
		MustLoad()
	})
}

// TestConfig_IsDevelopment tests the IsDevelopment helper method.
func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{"development", true},
		{"staging", false},
		{"production", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			clearEnvVars(t)
			setEnvVars(t, map[string]string{"APP_ENV": tt.env})

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
			assert.Equal(t, tt.env == "production", cfg.IsProduction())
		})
	}
}

// Helper functions

var configEnvVars = []string{
	"SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"TIMEOUT_GLOBAL_SEARCH", "TIMEOUT_EVENT_PUBLISH",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_CALLER",
	"APP_ENV", "APP_NAME",
	"CACHE_BACKEND", "CACHE_TTL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"AMADEUS_CLIENT_ID", "AMADEUS_CLIENT_SECRET", "AMADEUS_BASE_URL", "AMADEUS_TIMEOUT", "AMADEUS_MAX_RESULTS",
	"KIWI_API_KEY", "KIWI_BASE_URL", "KIWI_TIMEOUT", "KIWI_LIMIT",
	"SERPAPI_KEY", "SERPAPI_BASE_URL", "SERPAPI_TIMEOUT", "SERPAPI_LIMIT",
	"RAPIDAPI_KEY", "RAPIDAPI_SKYSCANNER_HOST", "RAPIDAPI_GOOGLE_FLIGHTS_HOST", "RAPIDAPI_TIMEOUT", "RAPIDAPI_LIMIT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_MAX_WAIT", "RATE_LIMIT_OVERRIDES",
	"PROVIDER_MAX_ATTEMPTS",
	"EVENTS_KAFKA_BROKERS", "EVENTS_KAFKA_TOPIC", "EVENTS_KAFKA_BATCH_TIMEOUT",
}

// clearEnvVars unsets all config-related environment variables for the duration of the test.
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, v := range configEnvVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

// setEnvVars sets multiple environment variables for the duration of the test.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

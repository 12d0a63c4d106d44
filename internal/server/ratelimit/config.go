package ratelimit

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

type envConfig struct {
	Enabled         bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	DefaultLimit    int           `env:"RATE_LIMIT_DEFAULT_LIMIT" envDefault:"1000"`
	DefaultWindow   time.Duration `env:"RATE_LIMIT_DEFAULT_WINDOW" envDefault:"1m"`
	CleanupInterval time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL" envDefault:"5m"`
	Whitelist       []string      `env:"RATE_LIMIT_WHITELIST" envSeparator:","`
	Blacklist       []string      `env:"RATE_LIMIT_BLACKLIST" envSeparator:","`
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() (*Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse rate limit config: %w", err)
	}
	if !raw.Enabled {
		return &Config{Enabled: false}, nil
	}
	if raw.DefaultLimit < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_DEFAULT_LIMIT must be positive, got: %d", raw.DefaultLimit)
	}
	if raw.DefaultWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_DEFAULT_WINDOW must be positive, got: %s", raw.DefaultWindow)
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    raw.DefaultLimit,
		DefaultWindow:   raw.DefaultWindow,
		CleanupInterval: raw.CleanupInterval,
		Whitelist:       ipSet(raw.Whitelist),
		Blacklist:       ipSet(raw.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}, nil
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// LLM-backed operations
		{Path: "/v1/feedback", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/v1/interviews/generate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},

		// Credential endpoints
		{Path: "/v1/auth/", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/sign-in", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/sign-up", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/v1/users/", Method: "PUT", Limit: 20, Window: time.Minute, Burst: 5},

		// Plain writes
		{Path: "/v1/interviews", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},

		// Reads fall through to the default limit; /health is unlimited
	}
}

func ipSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}

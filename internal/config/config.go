package config

import (
	"fmt"
	"strings"
)

// Config is the service configuration shared by the serve, migrate and feedback commands.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// DatabaseURL selects PostgreSQL; when empty the SQLite file at SQLitePath is used.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"intellihire.db"`

	GeminiAPIKey         string `env:"GEMINI_API_KEY"`
	GeminiFeedbackModel  string `env:"GEMINI_FEEDBACK_MODEL" envDefault:"gemini-2.0-flash-001"`
	GeminiQuestionsModel string `env:"GEMINI_QUESTIONS_MODEL" envDefault:"gemini-2.0-flash-001"`

	LatestInterviewsLimit int  `env:"LATEST_INTERVIEWS_LIMIT" envDefault:"20"`
	SessionCookieSecure   bool `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Load reads Config from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UsePostgres reports whether DATABASE_URL is configured.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// HasLLM reports whether a Gemini API key is configured.
func (c *Config) HasLLM() bool {
	return c.GeminiAPIKey != ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) normalize() error {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if !c.UsePostgres() && strings.TrimSpace(c.SQLitePath) == "" {
		return fmt.Errorf("SQLITE_PATH is required when DATABASE_URL is not set")
	}
	if c.LatestInterviewsLimit < 1 {
		return fmt.Errorf("LATEST_INTERVIEWS_LIMIT must be at least 1, got: %d", c.LatestInterviewsLimit)
	}
	for i, origin := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return nil
}

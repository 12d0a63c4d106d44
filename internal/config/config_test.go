package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServiceEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "SQLITE_PATH", "GEMINI_API_KEY",
		"GEMINI_FEEDBACK_MODEL", "GEMINI_QUESTIONS_MODEL",
		"LATEST_INTERVIEWS_LIMIT", "SESSION_COOKIE_SECURE", "CORS_ALLOWED_ORIGINS",
	} {
		// t.Setenv restores the original value on cleanup
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearServiceEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.HasLLM())
	assert.Equal(t, "intellihire.db", cfg.SQLitePath)
	assert.Equal(t, "gemini-2.0-flash-001", cfg.GeminiFeedbackModel)
	assert.Equal(t, "gemini-2.0-flash-001", cfg.GeminiQuestionsModel)
	assert.Equal(t, 20, cfg.LatestInterviewsLimit)
	assert.False(t, cfg.SessionCookieSecure)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_CustomValues(t *testing.T) {
	clearServiceEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "  postgres://u:p@localhost/db  ")
	t.Setenv("SQLITE_PATH", "unused.db")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_FEEDBACK_MODEL", "gemini-x")
	t.Setenv("GEMINI_QUESTIONS_MODEL", "gemini-y")
	t.Setenv("LATEST_INTERVIEWS_LIMIT", "5")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.DatabaseURL)
	assert.True(t, cfg.HasLLM())
	assert.Equal(t, "gemini-x", cfg.GeminiFeedbackModel)
	assert.Equal(t, "gemini-y", cfg.GeminiQuestionsModel)
	assert.Equal(t, 5, cfg.LatestInterviewsLimit)
	assert.True(t, cfg.SessionCookieSecure)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{name: "non-numeric port", env: map[string]string{"PORT": "http"}, wantMsg: "parse env"},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}, wantMsg: "PORT"},
		{name: "no database", env: map[string]string{"SQLITE_PATH": "  "}, wantMsg: "SQLITE_PATH"},
		{
			name:    "zero latest limit",
			env:     map[string]string{"LATEST_INTERVIEWS_LIMIT": "0"},
			wantMsg: "LATEST_INTERVIEWS_LIMIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearServiceEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	require.Equal(t, 3, cfg.MoodMaxAttempts)
	require.Equal(t, "development", cfg.Environment)
	require.False(t, cfg.IsProduction())
	require.NotEmpty(t, cfg.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "Production ")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com ,")
	t.Setenv("MOOD_MAX_ATTEMPTS", "5")
	t.Setenv("ADMIN_API_TOKEN", "s3cret")

	cfg := Load()
	require.True(t, cfg.IsProduction())
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	require.Equal(t, 5, cfg.MoodMaxAttempts)
	require.Equal(t, "s3cret", cfg.AdminAPIToken)
}

func TestLoadIgnoresInvalidAttemptBudget(t *testing.T) {
	t.Setenv("MOOD_MAX_ATTEMPTS", "zero")
	require.Equal(t, 3, Load().MoodMaxAttempts)

	t.Setenv("MOOD_MAX_ATTEMPTS", "-2")
	require.Equal(t, 3, Load().MoodMaxAttempts)
}

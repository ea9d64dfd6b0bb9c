package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"GEMINI_API_KEY", "GEMINI_TEXT_MODEL", "GEMINI_IMAGE_MODEL", "REMOTE_IMAGE",
	"LOG_LEVEL", "LOG_FORMAT", "PREFER_IPV4", "HTTP_TIMEOUT_SECONDS",
	"REQUEST_TIMEOUT_SECONDS", "ADDR", "POSTER_SIZE", "MAX_CONCURRENT",
}

func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GeminiAPIKey)
	assert.False(t, cfg.RemoteEnabled())
	assert.Equal(t, "gemini-2.5-flash", cfg.TextModel)
	assert.Equal(t, "imagen-3.0-generate-002", cfg.ImageModel)
	assert.False(t, cfg.RemoteImage)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.PreferIPv4)
	assert.Equal(t, 180*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 240*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 1024, cfg.PosterSize)
	assert.Equal(t, 4, cfg.MaxConcurrent)
}

func TestFromEnvClamps(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTER_SIZE", "10")
	t.Setenv("MAX_CONCURRENT", "-3")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	t.Setenv("PREFER_IPV4", "not-a-bool")
	t.Setenv("REMOTE_IMAGE", "true")
	t.Setenv("LOG_FORMAT", "xml")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.PosterSize)
	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, 180*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.PreferIPv4)
	assert.False(t, cfg.RemoteImage, "remote image needs an API key")
	assert.Equal(t, "json", cfg.LogFormat)

	t.Setenv("POSTER_SIZE", "99999")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.PosterSize)
}

func TestFromEnvRemote(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", " key ")
	t.Setenv("REMOTE_IMAGE", "1")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.True(t, cfg.RemoteEnabled())
	assert.True(t, cfg.RemoteImage)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestFromEnvBadLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Config{LogLevel: zerolog.WarnLevel, LogFormat: "json"})
	l.Info().Msg("hidden")
	l.Warn().Str("k", "v").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"k":"v"`)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	mp "github.com/setanarut/memoryposter"
)

type Config struct {
	GeminiAPIKey string
	TextModel    string
	ImageModel   string
	// RemoteImage asks the image model for the final poster instead of the
	// local layer pipeline. Needs GeminiAPIKey.
	RemoteImage bool

	LogLevel  zerolog.Level
	LogFormat string

	PreferIPv4     bool
	HTTPTimeout    time.Duration
	RequestTimeout time.Duration

	Addr          string
	PosterSize    int
	MaxConcurrent int
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		GeminiAPIKey:   strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		TextModel:      getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		ImageModel:     getEnv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002"),
		RemoteImage:    getEnvBool("REMOTE_IMAGE", false),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
		PreferIPv4:     getEnvBool("PREFER_IPV4", true),
		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 240)) * time.Second,
		Addr:           getEnv("ADDR", ":8080"),
		PosterSize:     getEnvInt("POSTER_SIZE", mp.DefaultSize),
		MaxConcurrent:  getEnvInt("MAX_CONCURRENT", 4),
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "console" {
		cfg.LogFormat = "json"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 240 * time.Second
	}
	cfg.PosterSize = max(mp.MinSize, min(mp.MaxSize, cfg.PosterSize))
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.GeminiAPIKey == "" {
		cfg.RemoteImage = false
	}
	return cfg, nil
}

// RemoteEnabled reports whether the Gemini collaborators can be built.
func (c Config) RemoteEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

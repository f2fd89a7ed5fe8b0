package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is loaded from an optional YAML file with environment overrides.
type Config struct {
	Port        string
	SheetURL    string
	HTTPTimeout time.Duration
	CacheTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	AnthropicKey     string
	AnthropicBaseURL string
	AnthropicModel   string

	LogLevel slog.Level
}

// fileConfig is the YAML shape; durations are strings ("15s", "5m").
type fileConfig struct {
	Port        string `yaml:"port"`
	SheetURL    string `yaml:"sheet_url"`
	HTTPTimeout string `yaml:"http_timeout"`
	CacheTTL    string `yaml:"cache_ttl"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       *int   `yaml:"redis_db"`

	OpenAIKey     string `yaml:"openai_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`

	AnthropicKey     string `yaml:"anthropic_key"`
	AnthropicBaseURL string `yaml:"anthropic_base_url"`
	AnthropicModel   string `yaml:"anthropic_model"`

	LogLevel string `yaml:"log_level"`
}

// Load builds the config: defaults, then the YAML file named by
// ADSBOARD_CONFIG (if any), then environment variables on top.
func Load() (Config, error) {
	cfg := Config{
		Port:           "8080",
		HTTPTimeout:    15 * time.Second,
		CacheTTL:       5 * time.Minute,
		OpenAIModel:    "gpt-4o-mini",
		AnthropicModel: "claude-sonnet-4-20250514",
		LogLevel:       slog.LevelInfo,
	}
	level := "info"

	if path := os.Getenv("ADSBOARD_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
		applyString(&cfg.Port, fc.Port)
		applyString(&cfg.SheetURL, fc.SheetURL)
		applyDuration(&cfg.HTTPTimeout, fc.HTTPTimeout)
		applyDuration(&cfg.CacheTTL, fc.CacheTTL)
		applyString(&cfg.RedisAddr, fc.RedisAddr)
		applyString(&cfg.RedisPassword, fc.RedisPassword)
		if fc.RedisDB != nil {
			cfg.RedisDB = *fc.RedisDB
		}
		applyString(&cfg.OpenAIKey, fc.OpenAIKey)
		applyString(&cfg.OpenAIBaseURL, fc.OpenAIBaseURL)
		applyString(&cfg.OpenAIModel, fc.OpenAIModel)
		applyString(&cfg.AnthropicKey, fc.AnthropicKey)
		applyString(&cfg.AnthropicBaseURL, fc.AnthropicBaseURL)
		applyString(&cfg.AnthropicModel, fc.AnthropicModel)
		applyString(&level, fc.LogLevel)
	}

	cfg.Port = getEnv("ADSBOARD_PORT", cfg.Port)
	cfg.SheetURL = getEnv("ADSBOARD_SHEET_URL", cfg.SheetURL)
	cfg.HTTPTimeout = getDurationEnv("ADSBOARD_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.CacheTTL = getDurationEnv("ADSBOARD_CACHE_TTL", cfg.CacheTTL)
	cfg.RedisAddr = getEnv("ADSBOARD_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("ADSBOARD_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getIntEnv("ADSBOARD_REDIS_DB", cfg.RedisDB)
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.OpenAIBaseURL = getEnv("ADSBOARD_OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIModel = getEnv("ADSBOARD_OPENAI_MODEL", cfg.OpenAIModel)
	cfg.AnthropicKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicKey)
	cfg.AnthropicBaseURL = getEnv("ADSBOARD_ANTHROPIC_BASE_URL", cfg.AnthropicBaseURL)
	cfg.AnthropicModel = getEnv("ADSBOARD_ANTHROPIC_MODEL", cfg.AnthropicModel)
	level = getEnv("ADSBOARD_LOG_LEVEL", level)

	cfg.LogLevel = parseLevel(level)
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func applyString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

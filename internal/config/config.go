package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port     string
	DataDir  string
	CacheDir string

	OllamaBaseURL string
	OllamaModel   string

	LocalRunnerPath string
	LocalModelPath  string
	LocalModelName  string

	PhoneRegion      string
	SoftTimeLimit    time.Duration
	PipelineTimeout  time.Duration
	CorpusCharLimit  int
	RateLimitProcess RateLimitConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DataDir:  getEnv("DATA_DIR", "data"),
		CacheDir: getEnv("CACHE_DIR", "cache"),

		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3.2"),

		LocalRunnerPath: getEnv("LOCAL_RUNNER_PATH", "llama-cli"),
		LocalModelPath:  getEnv("LOCAL_MODEL_PATH", "models/tinyllama.gguf"),
		LocalModelName:  getEnv("LOCAL_MODEL_NAME", "tinyllama"),

		PhoneRegion:     getEnv("PHONE_REGION", "US"),
		SoftTimeLimit:   parseDuration(getEnv("SOFT_TIME_LIMIT", "25s"), 25*time.Second),
		PipelineTimeout: parseDuration(getEnv("PIPELINE_TIMEOUT", "120s"), 120*time.Second),
		CorpusCharLimit: parseIntDefault(getEnv("CORPUS_CHAR_LIMIT", "40000"), 40000),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_PROCESS", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PROCESS value: %w", err)
	}
	cfg.RateLimitProcess = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseIntDefault(input string, fallback int) int {
	if value, err := strconv.Atoi(input); err == nil && value > 0 {
		return value
	}
	return fallback
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_DIR", "/srv/data")
	t.Setenv("CACHE_DIR", "/srv/cache")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")
	t.Setenv("OLLAMA_MODEL", "llama3.1")
	t.Setenv("SOFT_TIME_LIMIT", "30s")
	t.Setenv("RATE_LIMIT_PROCESS", "20/min")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.DataDir != "/srv/data" || cfg.CacheDir != "/srv/cache" {
		t.Fatalf("unexpected config values: %+v", cfg)
	}
	if cfg.OllamaBaseURL != "http://ollama:11434" || cfg.OllamaModel != "llama3.1" {
		t.Fatalf("unexpected model config: %+v", cfg)
	}
	if cfg.SoftTimeLimit != 30*time.Second {
		t.Fatalf("expected soft limit 30s, got %s", cfg.SoftTimeLimit)
	}
	if cfg.RateLimitProcess.Requests != 20 || cfg.RateLimitProcess.Interval != time.Minute {
		t.Fatalf("unexpected rate limit config: %+v", cfg.RateLimitProcess)
	}

	// invalid rate limit should error
	os.Unsetenv("RATE_LIMIT_PROCESS")
	t.Setenv("RATE_LIMIT_PROCESS", "xyz")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid rate limit")
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATA_DIR", "CACHE_DIR", "OLLAMA_BASE_URL", "OLLAMA_MODEL",
		"SOFT_TIME_LIMIT", "PIPELINE_TIMEOUT", "CORPUS_CHAR_LIMIT",
		"RATE_LIMIT_PROCESS", "PHONE_REGION",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.DataDir != "data" || cfg.CacheDir != "cache" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PhoneRegion != "US" {
		t.Fatalf("expected US phone region default, got %s", cfg.PhoneRegion)
	}
	if cfg.SoftTimeLimit != 25*time.Second {
		t.Fatalf("expected 25s soft limit default, got %s", cfg.SoftTimeLimit)
	}
	if cfg.CorpusCharLimit != 40000 {
		t.Fatalf("expected 40000 corpus limit default, got %d", cfg.CorpusCharLimit)
	}
}

func TestParseRateLimit(t *testing.T) {
	cfg, err := parseRateLimit("5/sec")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Requests != 5 || cfg.Interval != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := parseRateLimit("bad-format"); err == nil {
		t.Fatalf("expected error for malformed value")
	}
	if _, err := parseRateLimit("0/min"); err == nil {
		t.Fatalf("expected error for zero requests")
	}
	if _, err := parseRateLimit("5/day"); err == nil {
		t.Fatalf("expected error for unsupported unit")
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("FOO")
	if val := getEnv("FOO", "fallback"); val != "fallback" {
		t.Fatalf("expected fallback, got %s", val)
	}
	t.Setenv("FOO", "value")
	if val := getEnv("FOO", "fallback"); val != "value" {
		t.Fatalf("expected env value, got %s", val)
	}
}

func TestParseDuration(t *testing.T) {
	if parseDuration("3h", time.Minute) != 3*time.Hour {
		t.Fatalf("expected 3h duration")
	}
	if parseDuration("invalid", time.Minute) != time.Minute {
		t.Fatalf("expected fallback duration")
	}
}

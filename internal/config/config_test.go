package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "LOG_FILE", "LLM_PROVIDER", "GEMINI_API_KEY", "MODEL",
		"GEMINI_CONCURRENT_REQUESTS", "OPENAI_API_KEY", "OPENAI_MODEL", "MAX_UPLOAD_BYTES",
		"OCR_LANGUAGE", "SESSION_SECRET", "SESSION_TTL", "REDIS_URL", "DATABASE_URL",
		"RATE_LIMIT_PER_MINUTE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, "8080"},
		{"Env", cfg.Env, "development"},
		{"LLMProvider", cfg.LLMProvider, "gemini"},
		{"Model", cfg.Model, "gemini-1.5-flash"},
		{"MaxUploadBytes", cfg.MaxUploadBytes, int64(10 * 1024 * 1024)},
		{"OCRLanguage", cfg.OCRLanguage, "eng"},
		{"SessionTTL", cfg.SessionTTL, 24 * time.Hour},
		{"GeminiConcurrentReqs", cfg.GeminiConcurrentReqs, 5},
		{"RateLimitPerMinute", cfg.RateLimitPerMinute, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("Expected %s=%v, got %v", tc.name, tc.expected, tc.got)
			}
		})
	}
}

func TestLoad_MissingGeminiKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for missing GEMINI_API_KEY")
	}
	if got := err.Error(); got != "invalid configuration: GEMINI_API_KEY is not set" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestLoad_OpenAIProviderRequiresOpenAIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for missing OPENAI_API_KEY")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey() != "sk-test" {
		t.Errorf("Expected openai key, got %q", cfg.APIKey())
	}
	if cfg.ModelName() != "gpt-4o-mini" {
		t.Errorf("Expected openai model, got %q", cfg.ModelName())
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("GEMINI_API_KEY", "test-key")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestLoad_GeneratesSessionSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.EphemeralSecret || len(cfg.SessionSecret) != 64 {
		t.Errorf("Expected generated 64-char secret, got %q", cfg.SessionSecret)
	}

	t.Setenv("SESSION_SECRET", "fixed")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EphemeralSecret || cfg.SessionSecret != "fixed" {
		t.Errorf("Expected configured secret to be kept")
	}
}

func TestLoad_InvalidNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MAX_UPLOAD_BYTES", "abc")

	if _, err := Load(); err == nil {
		t.Fatal("Expected parse error for non-numeric MAX_UPLOAD_BYTES")
	}
}

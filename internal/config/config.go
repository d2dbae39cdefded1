package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE" envDefault:"logs/docsum.log"`

	// Language model
	LLMProvider          string `env:"LLM_PROVIDER" envDefault:"gemini" validate:"oneof=gemini openai"`
	GeminiAPIKey         string `env:"GEMINI_API_KEY" validate:"required_if=LLMProvider gemini"`
	Model                string `env:"MODEL" envDefault:"gemini-1.5-flash" validate:"required"`
	GeminiConcurrentReqs int    `env:"GEMINI_CONCURRENT_REQUESTS" envDefault:"5" validate:"min=1"`
	OpenAIKey            string `env:"OPENAI_API_KEY" validate:"required_if=LLMProvider openai"`
	OpenAIModel          string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Extraction
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760" validate:"min=1"`
	OCRLanguage    string `env:"OCR_LANGUAGE" envDefault:"eng"`

	// Sessions
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h" validate:"min=1m"`

	// Optional backends
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20" validate:"min=1"`

	// EphemeralSecret is set when no SESSION_SECRET was configured and one was generated.
	EphemeralSecret bool `env:"-"`
}

// Load reads .env (if present) and the process environment. A missing API key for the
// selected provider is reported as an error; callers treat it as fatal.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		cfg.EphemeralSecret = true
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// APIKey returns the key of the selected provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIKey
	}
	return c.GeminiAPIKey
}

// ModelName returns the model of the selected provider.
func (c *Config) ModelName() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIModel
	}
	return c.Model
}

var envNames = map[string]string{
	"LLMProvider":          "LLM_PROVIDER",
	"GeminiAPIKey":         "GEMINI_API_KEY",
	"Model":                "MODEL",
	"GeminiConcurrentReqs": "GEMINI_CONCURRENT_REQUESTS",
	"OpenAIKey":            "OPENAI_API_KEY",
	"MaxUploadBytes":       "MAX_UPLOAD_BYTES",
	"SessionTTL":           "SESSION_TTL",
	"RateLimitPerMinute":   "RATE_LIMIT_PER_MINUTE",
}

func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		switch fe.Tag() {
		case "required", "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is not set", name))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", name, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

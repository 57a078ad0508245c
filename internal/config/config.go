// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Completion provider (Groq, OpenAI-compatible surface).
	GroqAPIKey      string        `env:"GROQ_API_KEY"`
	GroqBaseURL     string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	ChatModel       string        `env:"CHAT_MODEL" envDefault:"llama-3.3-70b-versatile"`
	ChatMaxTokens   int           `env:"CHAT_MAX_TOKENS" envDefault:"2048"`
	ChatTemperature float64       `env:"CHAT_TEMPERATURE" envDefault:"0.7"`
	ChatTopP        float64       `env:"CHAT_TOP_P" envDefault:"1.0"`
	ChatTimeout     time.Duration `env:"CHAT_TIMEOUT" envDefault:"60s"`

	// Session store.
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Freshness and windows.
	AnalysisFreshness time.Duration `env:"ANALYSIS_FRESHNESS" envDefault:"24h"`
	ChatHistoryWindow int           `env:"CHAT_HISTORY_WINDOW" envDefault:"20"`

	// QuotaPerMinute mirrors the provider's informally documented free-tier
	// budget (~30 req/min). The counter is advisory only; it never blocks.
	QuotaPerMinute int `env:"QUOTA_PER_MINUTE" envDefault:"30"`

	// Content APIs.
	QuranAPIBaseURL  string `env:"QURAN_API_BASE_URL" envDefault:"https://api.alquran.cloud/v1"`
	HadithAPIBaseURL string `env:"HADITH_API_BASE_URL" envDefault:"https://api.sunnah.com/v1"`
	HadithAPIKey     string `env:"HADITH_API_KEY"`

	// HTTP server.
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	// Write timeout must exceed the completion timeout or long generations
	// get cut off mid-response.
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"90s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// Observability.
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"soulease-guidance"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

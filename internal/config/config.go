package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Known values for STRATEGY_ORDER and LLM_PROVIDER.
const (
	StrategyLLM   = "llm"
	StrategyRules = "rules"

	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
	ProviderHTTP    = "http"
	ProviderNone    = "none"
)

// Config holds application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HistoryWindow             int           `env:"HISTORY_WINDOW" envDefault:"20"`
	ConversationIdleTTL       time.Duration `env:"CONVERSATION_IDLE_TTL" envDefault:"2h"`
	ConversationSweepInterval time.Duration `env:"CONVERSATION_SWEEP_INTERVAL" envDefault:"5m"`
	StrategyOrder             []string      `env:"STRATEGY_ORDER" envDefault:"llm,rules" envSeparator:","`
	CatalogPath               string        `env:"CATALOG_PATH"`

	LLMProvider         string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMFallbackProvider string        `env:"LLM_FALLBACK_PROVIDER"`
	LLMTimeout          time.Duration `env:"LLM_TIMEOUT" envDefault:"15s"`
	LLMMaxTokens        int32         `env:"LLM_MAX_TOKENS" envDefault:"800"`
	LLMTemperature      float32       `env:"LLM_TEMPERATURE" envDefault:"0.4"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	BedrockModelID     string `env:"BEDROCK_MODEL_ID"`
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	LLMHTTPURL    string `env:"LLM_HTTP_URL"`
	LLMHTTPAPIKey string `env:"LLM_HTTP_API_KEY"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RateLimitRPS       float64  `env:"RATE_LIMIT_RPS" envDefault:"2"`
	RateLimitBurst     int      `env:"RATE_LIMIT_BURST" envDefault:"10"`
	RedisAddr          string   `env:"REDIS_ADDR"`
	RedisPassword      string   `env:"REDIS_PASSWORD"`
}

// Load reads configuration from the environment. Callers that want .env
// support load it with godotenv first.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.LLMFallbackProvider = strings.ToLower(strings.TrimSpace(c.LLMFallbackProvider))
	order := make([]string, 0, len(c.StrategyOrder))
	for _, s := range c.StrategyOrder {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			order = append(order, s)
		}
	}
	c.StrategyOrder = order
	origins := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSAllowedOrigins = origins
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.HistoryWindow <= 0 {
		errs = append(errs, fmt.Errorf("config: HISTORY_WINDOW must be positive, got %d", c.HistoryWindow))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, fmt.Errorf("config: LLM_TIMEOUT must be positive, got %s", c.LLMTimeout))
	}
	for _, s := range c.StrategyOrder {
		if s != StrategyLLM && s != StrategyRules {
			errs = append(errs, fmt.Errorf("config: unknown strategy %q in STRATEGY_ORDER", s))
		}
	}
	for _, p := range []string{c.LLMProvider, c.LLMFallbackProvider} {
		switch p {
		case "", ProviderGemini, ProviderBedrock, ProviderHTTP, ProviderNone:
		default:
			errs = append(errs, fmt.Errorf("config: unknown llm provider %q", p))
		}
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("config: rate limits must not be negative"))
	}
	if c.IsProduction() && slices.Contains(c.CORSAllowedOrigins, "*") {
		errs = append(errs, errors.New("config: CORS_ALLOWED_ORIGINS must list origins in production"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

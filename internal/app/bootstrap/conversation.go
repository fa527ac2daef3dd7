package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/wolfman30/robotics-consultant/internal/catalog"
	appconfig "github.com/wolfman30/robotics-consultant/internal/config"
	"github.com/wolfman30/robotics-consultant/internal/conversation"
	"github.com/wolfman30/robotics-consultant/internal/observability/metrics"
	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

// LLM bundles the completion client with whatever must be released on
// shutdown. Client is nil when no provider is configured.
type LLM struct {
	Client  conversation.LLMClient
	Model   string
	closers []func() error
}

// Close releases provider resources.
func (l *LLM) Close() error {
	if l == nil {
		return nil
	}
	var firstErr error
	for _, c := range l.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BuildLLMClient wires the primary provider and, when configured, a fallback
// provider behind it. A provider that cannot be built is logged and skipped.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*LLM, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	llm := &LLM{}
	var named []conversation.NamedLLMClient
	for i, provider := range []string{cfg.LLMProvider, cfg.LLMFallbackProvider} {
		if provider == "" || provider == appconfig.ProviderNone {
			continue
		}
		client, model, closer, err := buildProvider(ctx, cfg, provider)
		if err != nil {
			logger.Warn("llm provider not available", "provider", provider, "error", err)
			continue
		}
		if closer != nil {
			llm.closers = append(llm.closers, closer)
		}
		if i == 0 || llm.Model == "" {
			llm.Model = model
		}
		named = append(named, conversation.NamedLLMClient{Name: provider, Client: client})
	}

	switch len(named) {
	case 0:
		logger.Warn("no llm provider configured; replies come from the rule-based strategy")
	case 1:
		llm.Client = named[0].Client
	default:
		llm.Client = conversation.NewFallbackLLMClient(logger, named...)
	}
	if len(named) > 0 {
		logger.Info("llm providers configured", "providers", providerNames(named), "model", llm.Model)
	}
	return llm, nil
}

func buildProvider(ctx context.Context, cfg *appconfig.Config, provider string) (conversation.LLMClient, string, func() error, error) {
	switch provider {
	case appconfig.ProviderGemini:
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, "", nil, err
		}
		return client, client.Model(), client.Close, nil
	case appconfig.ProviderBedrock:
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return nil, "", nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required")
		}
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, "", nil, err
		}
		client, err := conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
		if err != nil {
			return nil, "", nil, err
		}
		return client, client.Model(), nil, nil
	case appconfig.ProviderHTTP:
		client, err := conversation.NewHTTPLLMClient(cfg.LLMHTTPURL, cfg.LLMHTTPAPIKey, cfg.LLMTimeout)
		if err != nil {
			return nil, "", nil, err
		}
		return client, "", nil, nil
	default:
		return nil, "", nil, fmt.Errorf("bootstrap: unknown llm provider %q", provider)
	}
}

// LoadAWSConfig resolves AWS settings for the region in cfg. Static keys win
// over the default credential chain when both are set.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("bootstrap: load aws config: %w", err)
	}
	return awsCfg, nil
}

func providerNames(named []conversation.NamedLLMClient) []string {
	out := make([]string, 0, len(named))
	for _, n := range named {
		out = append(out, n.Name)
	}
	return out
}

// BuildEngine assembles the consultant engine: catalog, store, and the
// strategy chain in STRATEGY_ORDER with the static fallback last.
func BuildEngine(cfg *appconfig.Config, llm conversation.LLMClient, model string, m *metrics.ConsultationMetrics, logger *logging.Logger) (*conversation.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "consultant")

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	texts := conversation.DefaultTexts
	store := conversation.NewStore(
		conversation.WithHistoryWindow(cfg.HistoryWindow),
		conversation.WithIdleTTL(cfg.ConversationIdleTTL),
		conversation.WithStoreMetrics(m),
	)

	var strategies []conversation.Strategy
	for _, name := range cfg.StrategyOrder {
		switch name {
		case appconfig.StrategyLLM:
			strategies = append(strategies, conversation.NewLLMStrategy(llm,
				conversation.WithModel(model),
				conversation.WithTimeout(cfg.LLMTimeout),
				conversation.WithMaxTokens(cfg.LLMMaxTokens),
				conversation.WithTemperature(cfg.LLMTemperature),
				conversation.WithLLMTexts(texts),
			))
		case appconfig.StrategyRules:
			strategies = append(strategies, conversation.NewRuleStrategy(cat, texts))
		default:
			return nil, fmt.Errorf("bootstrap: unknown strategy %q", name)
		}
	}
	static := conversation.NewStaticStrategy(texts).WithCatalog(cat)
	chain := conversation.NewChain(static, logger, m, strategies...)
	logger.Info("consultant engine configured", "strategies", chain.Names(), "history_window", store.Window())

	return conversation.NewEngine(
		conversation.WithStore(store),
		conversation.WithChain(chain),
		conversation.WithCatalog(cat),
		conversation.WithTexts(texts),
		conversation.WithLogger(logger),
		conversation.WithMetrics(m),
	), nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load catalog %s: %w", path, err)
	}
	return cat, nil
}

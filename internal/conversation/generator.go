package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/robotics-consultant/internal/catalog"
	"github.com/wolfman30/robotics-consultant/internal/observability/metrics"
	"github.com/wolfman30/robotics-consultant/internal/templates"
	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

var generatorTracer = otel.Tracer("consultant.internal.conversation.generator")

var (
	// ErrStrategyUnavailable means a strategy cannot run at all, for example
	// because no LLM client is configured.
	ErrStrategyUnavailable = errors.New("conversation: strategy unavailable")
	// ErrNoText means a strategy ran but produced no usable text.
	ErrNoText = errors.New("conversation: no text in completion")
	// ErrContentFiltered means the provider's own safety filter withheld
	// the reply.
	ErrContentFiltered = errors.New("conversation: completion filtered by provider")
)

const (
	StrategyLLM    = "llm"
	StrategyRules  = "rules"
	StrategyStatic = "static"
)

// Confidence reported for replies produced by each strategy.
const (
	ConfidenceLLM    = 0.95
	ConfidenceRules  = 0.9
	ConfidenceStatic = 0.8
)

// GenerationInput is everything a strategy may use to write a reply.
// History excludes the current user turn.
type GenerationInput struct {
	ConversationID string
	Message        string
	Language       templates.Language
	Classification Classification
	Profile        Profile
	History        []Turn
}

// Strategy produces reply text. A non-nil error or empty text hands over to
// the next strategy in the chain.
type Strategy interface {
	Name() string
	Confidence() float64
	Generate(ctx context.Context, in GenerationInput) (string, error)
}

// Generation is the chain's result.
type Generation struct {
	Text       string
	Strategy   string
	Confidence float64
}

// Chain runs strategies in order and always ends with the static strategy.
type Chain struct {
	strategies []Strategy
	static     *StaticStrategy
	logger     *logging.Logger
	metrics    *metrics.ConsultationMetrics
}

// NewChain builds a chain over strategies; nil entries are skipped.
func NewChain(static *StaticStrategy, logger *logging.Logger, m *metrics.ConsultationMetrics, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = logging.Default()
	}
	if static == nil {
		static = NewStaticStrategy(DefaultTexts)
	}
	kept := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Chain{strategies: kept, static: static, logger: logger, metrics: m}
}

// Names lists the configured strategies in order, static last.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.strategies)+1)
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return append(names, c.static.Name())
}

// Static exposes the terminal strategy.
func (c *Chain) Static() *StaticStrategy {
	return c.static
}

// Generate never fails: when every configured strategy fails the static
// greeting is returned.
func (c *Chain) Generate(ctx context.Context, in GenerationInput) Generation {
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			break
		}
		text, err := c.attempt(ctx, s, in)
		if err == nil {
			return Generation{Text: text, Strategy: s.Name(), Confidence: s.Confidence()}
		}
		reason := failureReason(err)
		c.metrics.ObserveStrategyFailure(s.Name(), reason)
		if reason == "unavailable" {
			c.logger.Debug("strategy unavailable",
				"strategy", s.Name(),
				"conversation_id", in.ConversationID,
			)
			continue
		}
		c.logger.Warn("strategy failed",
			"strategy", s.Name(),
			"conversation_id", in.ConversationID,
			"reason", reason,
			"error", err.Error(),
		)
	}
	text, _ := c.static.Generate(ctx, in)
	return Generation{Text: text, Strategy: c.static.Name(), Confidence: c.static.Confidence()}
}

func (c *Chain) attempt(ctx context.Context, s Strategy, in GenerationInput) (text string, err error) {
	ctx, span := generatorTracer.Start(ctx, "conversation.strategy."+s.Name())
	defer span.End()
	span.SetAttributes(
		attribute.String("consultant.conversation_id", in.ConversationID),
		attribute.String("consultant.language", string(in.Language)),
	)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("strategy panicked",
				"strategy", s.Name(),
				"conversation_id", in.ConversationID,
				"panic", fmt.Sprint(r),
			)
			text, err = "", fmt.Errorf("%w: %v", errPanicked, r)
		}
		c.metrics.ObserveGeneration(s.Name(), time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	text, err = s.Generate(ctx, in)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return strings.TrimSpace(text), nil
}

var errPanicked = errors.New("conversation: strategy panicked")

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrStrategyUnavailable):
		return "unavailable"
	case errors.Is(err, errPanicked):
		return "panic"
	case errors.Is(err, ErrNoText):
		return "empty"
	case errors.Is(err, ErrPromptBlocked):
		return "blocked"
	case errors.Is(err, ErrContentFiltered):
		return "filtered"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// LLMStrategy asks an external completion service for the reply.
type LLMStrategy struct {
	client      LLMClient
	model       string
	timeout     time.Duration
	maxTokens   int32
	temperature float32
	texts       *templates.Table
}

// LLMOption configures an LLMStrategy.
type LLMOption func(*LLMStrategy)

func WithModel(model string) LLMOption {
	return func(s *LLMStrategy) { s.model = model }
}

func WithTimeout(d time.Duration) LLMOption {
	return func(s *LLMStrategy) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithMaxTokens(n int32) LLMOption {
	return func(s *LLMStrategy) { s.maxTokens = n }
}

func WithTemperature(t float32) LLMOption {
	return func(s *LLMStrategy) { s.temperature = t }
}

func WithLLMTexts(t *templates.Table) LLMOption {
	return func(s *LLMStrategy) {
		if t != nil {
			s.texts = t
		}
	}
}

// NewLLMStrategy wraps client. A nil client yields a strategy that always
// reports ErrStrategyUnavailable.
func NewLLMStrategy(client LLMClient, opts ...LLMOption) *LLMStrategy {
	s := &LLMStrategy{
		client:      client,
		timeout:     15 * time.Second,
		maxTokens:   800,
		temperature: 0.4,
		texts:       DefaultTexts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LLMStrategy) Name() string        { return StrategyLLM }
func (s *LLMStrategy) Confidence() float64 { return ConfidenceLLM }

type llmResult struct {
	resp LLMResponse
	err  error
}

func (s *LLMStrategy) Generate(ctx context.Context, in GenerationInput) (string, error) {
	if s.client == nil {
		return "", ErrStrategyUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	screen := ScreenPrompt(in.Message)
	if screen.Blocked {
		return "", fmt.Errorf("%w: %s", ErrPromptBlocked, strings.Join(screen.Reasons, ","))
	}
	in.Message = screen.Sanitized
	in.History = screenHistory(in.History)

	req := PromptRequest(s.model, BuildPrompt(s.texts, in), s.maxTokens, s.temperature)
	// Buffered so an abandoned call can finish and be dropped.
	done := make(chan llmResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- llmResult{err: fmt.Errorf("%w: %v", errPanicked, r)}
			}
		}()
		resp, err := s.client.Complete(ctx, req)
		done <- llmResult{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		if strings.TrimSpace(res.resp.Text) == "" {
			return "", ErrNoText
		}
		return res.resp.Text, nil
	}
}

// RuleStrategy writes a reply from the catalog entry of the classified
// industry, or a catalog overview when the industry is unknown.
type RuleStrategy struct {
	catalog *catalog.Catalog
	texts   *templates.Table
}

func NewRuleStrategy(cat *catalog.Catalog, texts *templates.Table) *RuleStrategy {
	if texts == nil {
		texts = DefaultTexts
	}
	return &RuleStrategy{catalog: cat, texts: texts}
}

func (s *RuleStrategy) Name() string        { return StrategyRules }
func (s *RuleStrategy) Confidence() float64 { return ConfidenceRules }

type replyData struct {
	Industry   string
	Products   string
	Benefits   string
	UseCases   string
	ROI        string
	Payback    string
	Clients    string
	Highlights string
	Categories string
}

func (s *RuleStrategy) Generate(_ context.Context, in GenerationInput) (string, error) {
	if s.catalog == nil {
		return "", ErrStrategyUnavailable
	}
	lang := in.Language
	industry, ok := s.catalog.Industry(string(in.Classification.Industry))
	if !ok {
		return s.texts.Render(tmplReplyOverview, lang, replyData{
			Categories: joinList(lang, localizedCategories(lang, s.catalog.Categories())),
		})
	}

	products := s.catalog.ProductsFor(industry.ID)
	text := industry.Localized(string(lang))
	data := replyData{
		Industry: text.DisplayName,
		Products: joinList(lang, catalog.DisplayNames(products)),
		Benefits: joinList(lang, text.Benefits),
		UseCases: joinList(lang, text.UseCases),
		ROI:      text.ROIRange,
		Payback:  text.PaybackRange,
		Clients:  joinList(lang, industry.ReferenceClients),
	}
	if len(products) > 0 {
		data.Highlights = joinList(lang, products[0].Features)
	}

	id, ok := replyTemplateByType[in.Classification.ConsultationType]
	if !ok {
		id = tmplReplyGeneral
	}
	return s.texts.Render(id, lang, data)
}

var arabicCategories = map[string]string{
	"cleaning":      "التنظيف",
	"delivery":      "التوصيل",
	"reception":     "الاستقبال",
	"security":      "الأمن",
	"education":     "التعليم",
	"inspection":    "الفحص",
	"logistics":     "الخدمات اللوجستية",
	"manufacturing": "التصنيع",
}

func localizedCategories(lang templates.Language, categories []string) []string {
	if lang != templates.Arabic {
		return categories
	}
	out := make([]string, len(categories))
	for i, c := range categories {
		if label, ok := arabicCategories[c]; ok {
			out[i] = label
		} else {
			out[i] = c
		}
	}
	return out
}

// StaticStrategy is the terminal fallback. It cannot fail.
type StaticStrategy struct {
	texts   *templates.Table
	catalog *catalog.Catalog
}

func NewStaticStrategy(texts *templates.Table) *StaticStrategy {
	if texts == nil {
		texts = DefaultTexts
	}
	return &StaticStrategy{texts: texts}
}

// WithCatalog sets the catalog the fallback recommendation is drawn from.
func (s *StaticStrategy) WithCatalog(cat *catalog.Catalog) *StaticStrategy {
	s.catalog = cat
	return s
}

func (s *StaticStrategy) Name() string        { return StrategyStatic }
func (s *StaticStrategy) Confidence() float64 { return ConfidenceStatic }

func (s *StaticStrategy) Generate(_ context.Context, in GenerationInput) (string, error) {
	return s.texts.Text(tmplFallback, in.Language), nil
}

// Recommendation is the fixed suggestion attached to fallback replies.
func (s *StaticStrategy) Recommendation(lang templates.Language) *Recommendation {
	robots := []string{"CleanBot Pro", "ScrubMax 50"}
	if s.catalog != nil {
		if names := catalog.DisplayNames(s.catalog.DefaultProducts()); len(names) > 0 {
			robots = names
		}
	}
	return &Recommendation{
		Robots:         robots,
		Reasoning:      s.texts.Text(tmplFallbackReason, lang),
		Implementation: s.texts.Text(tmplFallbackImpl, lang),
		ROI:            s.texts.Text(tmplFallbackROI, lang),
	}
}

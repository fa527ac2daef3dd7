package conversation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/robotics-consultant/internal/catalog"
	"github.com/wolfman30/robotics-consultant/internal/observability/metrics"
	"github.com/wolfman30/robotics-consultant/internal/templates"
	"github.com/wolfman30/robotics-consultant/pkg/logging"
)

var engineTracer = otel.Tracer("consultant.internal.conversation.engine")

// Engine is the consultant orchestrator: it records turns, classifies the
// message, generates a reply through the strategy chain and extracts the
// structured fields.
type Engine struct {
	store      *Store
	classifier *Classifier
	chain      *Chain
	extractor  *Extractor
	catalog    *catalog.Catalog
	texts      *templates.Table
	locks      *keyedMutex
	logger     *logging.Logger
	metrics    *metrics.ConsultationMetrics
	now        func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

func WithStore(s *Store) EngineOption {
	return func(e *Engine) { e.store = s }
}

func WithChain(c *Chain) EngineOption {
	return func(e *Engine) { e.chain = c }
}

func WithCatalog(c *catalog.Catalog) EngineOption {
	return func(e *Engine) { e.catalog = c }
}

func WithTexts(t *templates.Table) EngineOption {
	return func(e *Engine) { e.texts = t }
}

func WithLogger(l *logging.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func WithMetrics(m *metrics.ConsultationMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine. Without options it runs rules-only over the
// embedded catalog with an in-memory store.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{locks: newKeyedMutex(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	if e.texts == nil {
		e.texts = DefaultTexts
	}
	if e.catalog == nil {
		e.catalog = catalog.MustDefault()
	}
	if e.store == nil {
		e.store = NewStore(WithStoreMetrics(e.metrics))
	}
	if e.chain == nil {
		static := NewStaticStrategy(e.texts).WithCatalog(e.catalog)
		e.chain = NewChain(static, e.logger, e.metrics, NewRuleStrategy(e.catalog, e.texts))
	}
	e.classifier = NewClassifier(e.store)
	e.extractor = NewExtractor(e.catalog, e.texts)
	return e
}

// Store exposes the conversation store, mainly for the janitor.
func (e *Engine) Store() *Store {
	return e.store
}

// ProcessMessage handles one user message. It never fails: any fault ends
// in the static fallback reply.
func (e *Engine) ProcessMessage(ctx context.Context, req MessageRequest) (reply *Reply) {
	id := NormalizeID(req.ConversationID)
	lang := templates.ParseLanguage(req.Language)

	ctx, span := engineTracer.Start(ctx, "conversation.process_message",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("consultant.conversation_id", id),
			attribute.String("consultant.language", string(lang)),
		),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("process message panicked",
				"conversation_id", id,
				"panic", fmt.Sprint(r),
			)
			reply = e.fallbackReply(id, lang)
		}
		span.SetAttributes(attribute.String("consultant.strategy", reply.Strategy))
		e.metrics.ObserveReply(reply.Strategy, string(lang))
	}()

	unlock := e.locks.Lock(id)
	defer unlock()

	e.store.AppendTurn(id, RoleUser, req.Message)
	class := e.classifier.Classify(id, req.Message)
	state := e.store.Snapshot(id)
	history := state.Messages
	if n := len(history); n > 0 {
		history = history[:n-1]
	}

	gen := e.chain.Generate(ctx, GenerationInput{
		ConversationID: id,
		Message:        req.Message,
		Language:       lang,
		Classification: class,
		Profile:        state.Profile,
		History:        history,
	})

	if ctx.Err() != nil {
		e.logger.Debug("caller gone, reply not recorded", "conversation_id", id)
	} else if _, ok := e.store.AppendTurnIfCurrent(id, state.Seq, RoleAssistant, gen.Text); !ok {
		e.logger.Debug("conversation advanced, reply not recorded", "conversation_id", id)
	}

	reply = &Reply{
		ConversationID:   id,
		Message:          gen.Text,
		Language:         string(lang),
		Confidence:       gen.Confidence,
		ConsultationType: class.ConsultationType,
		Industry:         class.Industry,
		Urgency:          class.Urgency,
		Priority:         class.Priority,
		Strategy:         gen.Strategy,
		Timestamp:        e.now(),
	}
	extraction := e.extractor.Extract(gen.Text, lang)
	reply.FollowUpQuestions = extraction.FollowUpQuestions
	reply.SuggestedActions = extraction.SuggestedActions
	reply.ReplyTopic = extraction.ReplyTopic
	reply.Recommendations = extraction.Recommendation
	if gen.Strategy == StrategyStatic {
		reply.Recommendations = e.chain.Static().Recommendation(lang)
	}
	return reply
}

// History returns the retained turns of a conversation.
func (e *Engine) History(_ context.Context, conversationID string) []Turn {
	return e.store.History(conversationID)
}

func (e *Engine) fallbackReply(id string, lang templates.Language) *Reply {
	static := NewStaticStrategy(e.texts).WithCatalog(e.catalog)
	text, _ := static.Generate(context.Background(), GenerationInput{Language: lang})
	return &Reply{
		ConversationID:   id,
		Message:          text,
		Language:         string(lang),
		Confidence:       static.Confidence(),
		ConsultationType: ConsultationGeneral,
		ReplyTopic:       ReplyTopic(text),
		Recommendations:  static.Recommendation(lang),
		Industry:         IndustryUnknown,
		Urgency:          TimelineUnknown,
		Priority:         PriorityLow,
		Strategy:         static.Name(),
		Timestamp:        time.Now(),
	}
}

var _ Service = (*Engine)(nil)

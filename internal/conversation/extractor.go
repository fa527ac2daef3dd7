package conversation

import (
	"regexp"
	"strings"

	"github.com/wolfman30/robotics-consultant/internal/catalog"
	"github.com/wolfman30/robotics-consultant/internal/templates"
)

// Suggested action tags.
const (
	ActionScheduleDemo    = "schedule_demo"
	ActionRequestProposal = "request_proposal"
	ActionContactSales    = "contact_sales"
	ActionViewCatalog     = "view_catalog"
)

// maxQuestionsPerFamily caps follow-up questions taken from one opener.
const maxQuestionsPerFamily = 2

// Extraction holds the structured fields recovered from reply text. Nil
// fields mean nothing was found.
type Extraction struct {
	Recommendation    *Recommendation
	FollowUpQuestions []string
	SuggestedActions  []string
	ReplyTopic        ConsultationType
}

// trigger maps any of its substrings onto a template id. Matching is
// case-sensitive.
type trigger struct {
	any []string
	id  string
}

var reasoningTriggers = []trigger{
	{any: []string{"97%+ speech recognition", "التعرف على الكلام"}, id: tmplReasonVoice},
	{any: []string{"36cm HD display", "شاشة"}, id: tmplReasonDisplay},
	{any: []string{"autonomous", "ذاتي"}, id: tmplReasonAutonomy},
}

var implementationTriggers = []trigger{
	{any: []string{"training", "تدريب"}, id: tmplImplTraining},
	{any: []string{"phased", "مراحل"}, id: tmplImplPhased},
}

var actionTriggers = []struct {
	any []string
	tag string
}{
	{any: []string{"schedule", "موعد", "جدولة"}, tag: ActionScheduleDemo},
	{any: []string{"proposal", "مقترح"}, tag: ActionRequestProposal},
	{any: []string{"contact", "تواصل"}, tag: ActionContactSales},
	{any: []string{"catalog", "كتالوج"}, tag: ActionViewCatalog},
}

var topicTriggers = []struct {
	any   []string
	topic ConsultationType
}{
	{any: []string{"facility", "منشأ"}, topic: TopicFacilityAnalysis},
	{any: []string{"ROI", "cost", "العائد", "تكلفة"}, topic: ConsultationROI},
	{any: []string{"implement", "تنفيذ"}, topic: TopicImplementationPlanning},
	{any: []string{"event", "فعالية"}, topic: TopicEventPlanning},
}

// questionFamilies are the sentence openers recognised as follow-up
// questions, in output order.
var questionFamilies = [][]string{
	{"What"},
	{"How"},
	{"Would you like"},
	{"Can you tell me"},
	{"هل"},
	{"ماذا", "ما"},
	{"كيف"},
}

var (
	questionPattern = regexp.MustCompile(`[^.!?؟\n]+[?؟]`)
	percentPattern  = regexp.MustCompile(`(\d+)%\s*(reduction|savings|improvement|تخفيض|توفير|تحسين)`)
	monthsPattern   = regexp.MustCompile(`(\d+)-(\d+)\s*(?:months?|أشهر|شهر)`)
)

var roiKinds = map[string]map[templates.Language]string{
	"reduction":   {templates.English: "reduction", templates.Arabic: "تخفيض"},
	"savings":     {templates.English: "savings", templates.Arabic: "توفير"},
	"improvement": {templates.English: "improvement", templates.Arabic: "تحسين"},
	"تخفيض":       {templates.English: "reduction", templates.Arabic: "تخفيض"},
	"توفير":       {templates.English: "savings", templates.Arabic: "توفير"},
	"تحسين":       {templates.English: "improvement", templates.Arabic: "تحسين"},
}

// Extractor turns free reply text back into structured fields. It holds no
// mutable state.
type Extractor struct {
	catalog *catalog.Catalog
	texts   *templates.Table
}

func NewExtractor(cat *catalog.Catalog, texts *templates.Table) *Extractor {
	if texts == nil {
		texts = DefaultTexts
	}
	return &Extractor{catalog: cat, texts: texts}
}

// Extract parses raw in the conventions of lang.
func (e *Extractor) Extract(raw string, lang templates.Language) Extraction {
	out := Extraction{
		FollowUpQuestions: FollowUpQuestions(raw),
		SuggestedActions:  SuggestedActions(raw),
		ReplyTopic:        ReplyTopic(raw),
	}
	if robots := e.Robots(raw); len(robots) > 0 {
		out.Recommendation = &Recommendation{
			Robots:         robots,
			Reasoning:      e.texts.Text(firstTrigger(raw, reasoningTriggers, tmplReasonDefault), lang),
			Implementation: e.texts.Text(firstTrigger(raw, implementationTriggers, tmplImplDefault), lang),
			ROI:            e.ROI(raw, lang),
		}
	}
	return out
}

// Robots returns the display name of every product mentioned in raw by name
// or alias, once each, in catalog order.
func (e *Extractor) Robots(raw string) []string {
	if e.catalog == nil {
		return nil
	}
	var robots []string
	for _, p := range e.catalog.Products {
		for _, name := range p.Names() {
			if name != "" && strings.Contains(raw, name) {
				robots = append(robots, p.DisplayName)
				break
			}
		}
	}
	return robots
}

// ROI interpolates the first percentage and month range found in raw, or
// returns the generic sentence when either is missing.
func (e *Extractor) ROI(raw string, lang templates.Language) string {
	pct := percentPattern.FindStringSubmatch(raw)
	months := monthsPattern.FindStringSubmatch(raw)
	if pct == nil || months == nil {
		return e.texts.Text(tmplROIDefault, lang)
	}
	kind := pct[2]
	if localized, ok := roiKinds[kind][lang]; ok {
		kind = localized
	}
	text, err := e.texts.Render(tmplROIComputed, lang, map[string]string{
		"Percent": pct[1],
		"Kind":    kind,
		"Min":     months[1],
		"Max":     months[2],
	})
	if err != nil {
		return e.texts.Text(tmplROIDefault, lang)
	}
	return text
}

func firstTrigger(raw string, triggers []trigger, fallback string) string {
	for _, t := range triggers {
		if containsAnyExact(raw, t.any) {
			return t.id
		}
	}
	return fallback
}

func containsAnyExact(raw string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(raw, n) {
			return true
		}
	}
	return false
}

// FollowUpQuestions returns the question sentences of raw grouped by opener,
// at most two per opener. It returns nil when there are none.
func FollowUpQuestions(raw string) []string {
	sentences := questionPattern.FindAllString(raw, -1)
	buckets := make([][]string, len(questionFamilies))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		for i, openers := range questionFamilies {
			if !hasOpener(s, openers) {
				continue
			}
			if len(buckets[i]) < maxQuestionsPerFamily {
				buckets[i] = append(buckets[i], s)
			}
			break
		}
	}
	var out []string
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

func hasOpener(sentence string, openers []string) bool {
	for _, o := range openers {
		rest, ok := strings.CutPrefix(sentence, o)
		if ok && (rest == "" || strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "?") || strings.HasPrefix(rest, "؟") || strings.HasPrefix(rest, "'")) {
			return true
		}
	}
	return false
}

// SuggestedActions returns the action tags triggered by raw, each once, or
// nil when none fire.
func SuggestedActions(raw string) []string {
	var out []string
	for _, a := range actionTriggers {
		if containsAnyExact(raw, a.any) {
			out = append(out, a.tag)
		}
	}
	return out
}

// ReplyTopic classifies the generated reply itself.
func ReplyTopic(raw string) ConsultationType {
	for _, t := range topicTriggers {
		if containsAnyExact(raw, t.any) {
			return t.topic
		}
	}
	return TopicGeneralInquiry
}

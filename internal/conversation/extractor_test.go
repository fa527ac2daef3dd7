package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/robotics-consultant/internal/catalog"
	"github.com/wolfman30/robotics-consultant/internal/templates"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return NewExtractor(cat, DefaultTexts)
}

func TestExtractor_ROIScenarioE(t *testing.T) {
	e := newTestExtractor(t)

	got := e.ROI("Clients see a 55% reduction in costs and payback in 3-5 months.", templates.English)

	assert.Equal(t, "Expected 55% reduction with payback in 3-5 months.", got)
}

func TestExtractor_ROIArabic(t *testing.T) {
	e := newTestExtractor(t)

	got := e.ROI("55% تخفيض في تكاليف مناولة المواد خلال 3-5 شهراً", templates.Arabic)

	assert.Contains(t, got, "55")
	assert.Contains(t, got, "3-5")
	assert.Contains(t, got, "تخفيض")
}

func TestExtractor_ROILocalizesKind(t *testing.T) {
	e := newTestExtractor(t)

	got := e.ROI("a 40% improvement with payback in 9-14 months", templates.Arabic)

	assert.Contains(t, got, "تحسين")
	assert.Contains(t, got, "40")
	assert.Contains(t, got, "9-14")
}

func TestExtractor_ROIFallsBackWithoutBothNumbers(t *testing.T) {
	e := newTestExtractor(t)

	assert.Equal(t, DefaultTexts.Text(tmplROIDefault, templates.English), e.ROI("a 55% reduction", templates.English))
	assert.Equal(t, DefaultTexts.Text(tmplROIDefault, templates.English), e.ROI("payback in 3-5 months", templates.English))
}

func TestExtractor_RobotsInCatalogOrder(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Robots("Start with ShelfScanner S1, then CargoMover AMR and ScrubMax 50. CargoMover AMR again.")

	assert.Equal(t, []string{"ScrubMax 50", "CargoMover AMR", "ShelfScanner S1"}, got)
}

func TestExtractor_RobotsByAlias(t *testing.T) {
	e := newTestExtractor(t)

	assert.Equal(t, []string{"GreeterBot X1"}, e.Robots("نوصي بـ جريتر بوت لمكتب الاستقبال"))
	assert.Equal(t, []string{"CleanBot Pro"}, e.Robots("the Clean Bot Pro works nights"))
}

func TestExtractor_RobotsAreCaseSensitive(t *testing.T) {
	e := newTestExtractor(t)

	assert.Nil(t, e.Robots("cleanbot pro"))
}

func TestExtractor_NoRobotsMeansNoRecommendation(t *testing.T) {
	e := newTestExtractor(t)

	got := e.Extract("Thanks for your message.", templates.English)

	assert.Nil(t, got.Recommendation)
	assert.Nil(t, got.FollowUpQuestions)
	assert.Nil(t, got.SuggestedActions)
	assert.Equal(t, TopicGeneralInquiry, got.ReplyTopic)
}

func TestExtractor_ReasoningTriggers(t *testing.T) {
	e := newTestExtractor(t)
	tests := []struct {
		name string
		raw  string
		id   string
	}{
		{"voice wins", "GreeterBot X1 has 97%+ speech recognition and a 36cm HD display.", tmplReasonVoice},
		{"display", "GreeterBot X1 has a 36cm HD display.", tmplReasonDisplay},
		{"autonomy", "PatrolGuard P3 runs a 24/7 autonomous patrol.", tmplReasonAutonomy},
		{"default", "PatrolGuard P3 is great.", tmplReasonDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.raw, templates.English)
			require.NotNil(t, got.Recommendation)
			assert.Equal(t, DefaultTexts.Text(tt.id, templates.English), got.Recommendation.Reasoning)
		})
	}
}

func TestExtractor_ImplementationTriggers(t *testing.T) {
	e := newTestExtractor(t)

	training := e.Extract("CleanBot Pro ships with training and a phased plan.", templates.English)
	phased := e.Extract("CleanBot Pro rolls out in a phased plan.", templates.English)
	none := e.Extract("CleanBot Pro is ready.", templates.Arabic)

	assert.Equal(t, DefaultTexts.Text(tmplImplTraining, templates.English), training.Recommendation.Implementation)
	assert.Equal(t, DefaultTexts.Text(tmplImplPhased, templates.English), phased.Recommendation.Implementation)
	assert.Equal(t, DefaultTexts.Text(tmplImplDefault, templates.Arabic), none.Recommendation.Implementation)
}

func TestFollowUpQuestions(t *testing.T) {
	raw := "What size is your site? How many shifts? How many floors? How tall? " +
		"Would you like a demo? Is that all? Can you tell me your budget? We can help."

	got := FollowUpQuestions(raw)

	assert.Equal(t, []string{
		"What size is your site?",
		"How many shifts?",
		"How many floors?",
		"Would you like a demo?",
		"Can you tell me your budget?",
	}, got)
}

func TestFollowUpQuestionsArabic(t *testing.T) {
	got := FollowUpQuestions("نوصي بـ TutorBot T1. هل تود تحديد موعد؟ ما هو حجم منشأتك؟")

	assert.Equal(t, []string{"هل تود تحديد موعد؟", "ما هو حجم منشأتك؟"}, got)
}

func TestFollowUpQuestionsNilWhenNone(t *testing.T) {
	assert.Nil(t, FollowUpQuestions("No questions here."))
	assert.Nil(t, FollowUpQuestions("However, is it?"))
	assert.Nil(t, FollowUpQuestions(""))
}

func TestSuggestedActions(t *testing.T) {
	assert.Equal(t,
		[]string{ActionScheduleDemo, ActionRequestProposal, ActionContactSales, ActionViewCatalog},
		SuggestedActions("contact us, browse the catalog, get a proposal or schedule a visit"),
	)
	assert.Equal(t, []string{ActionScheduleDemo}, SuggestedActions("هل تود تحديد موعد للعرض؟"))
	assert.Nil(t, SuggestedActions("Schedule and Contact are capitalized"))
}

func TestReplyTopic(t *testing.T) {
	assert.Equal(t, TopicFacilityAnalysis, ReplyTopic("ROI for your facility"))
	assert.Equal(t, ConsultationROI, ReplyTopic("the ROI is strong"))
	assert.Equal(t, ConsultationROI, ReplyTopic("lower cost"))
	assert.Equal(t, TopicImplementationPlanning, ReplyTopic("we implement in weeks"))
	assert.Equal(t, TopicEventPlanning, ReplyTopic("for your event"))
	assert.Equal(t, TopicGeneralInquiry, ReplyTopic("roi in lowercase"))
	assert.Equal(t, TopicFacilityAnalysis, ReplyTopic("ما هو حجم منشأتك"))
}

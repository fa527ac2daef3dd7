package conversation

import "strings"

// Keyword tables are scanned in order and the first hit wins. Matching is
// plain substring containment over the case-folded message.

type industryKeywords struct {
	industry Industry
	keywords []string
}

var industrySignals = []industryKeywords{
	{IndustryMining, []string{"mining", "quarry", "mine site", "منجم", "مناجم", "تعدين"}},
	{IndustryEducation, []string{"school", "university", "college", "campus", "education", "classroom", "مدرس", "جامعة", "تعليم", "كلية"}},
	{IndustryHealthcare, []string{"hospital", "clinic", "healthcare", "medical", "patient", "مستشفى", "عيادة", "صحي", "طبي"}},
	{IndustryHospitality, []string{"hotel", "restaurant", "hospitality", "resort", "cafe", "فندق", "مطعم", "ضيافة", "منتجع"}},
	{IndustryLogistics, []string{"warehouse", "logistics", "distribution", "fulfillment", "inventory", "مستودع", "لوجست", "مخزن", "توزيع"}},
	{IndustryManufacturing, []string{"factory", "manufacturing", "plant", "production", "assembly", "مصنع", "تصنيع", "إنتاج"}},
}

type sizeKeywords struct {
	size     FacilitySize
	keywords []string
}

var facilitySignals = []sizeKeywords{
	{FacilityLarge, []string{"large", "big", "500+", "كبير"}},
	{FacilityMedium, []string{"medium", "100-500", "متوسط"}},
	{FacilitySmall, []string{"small", "under 100", "صغير"}},
}

var costKeywords = []string{"budget", "cost", "price", "ميزانية", "تكلفة", "سعر"}

type budgetKeywords struct {
	budget   BudgetRange
	keywords []string
}

var budgetSignals = []budgetKeywords{
	{BudgetHigh, []string{"high", "premium", "large", "big", "unlimited", "مرتفع", "عالي", "كبيرة"}},
	{BudgetLow, []string{"low", "tight", "limited", "small", "cheap", "منخفض", "محدود"}},
}

type timelineKeywords struct {
	timeline Timeline
	keywords []string
}

var timelineSignals = []timelineKeywords{
	{TimelineUrgent, []string{"urgent", "asap", "immediately", "عاجل", "فوراً", "فورا"}},
	{TimelineSoon, []string{"soon", "next month", "قريباً", "قريبا", "الشهر القادم"}},
	{TimelinePlanning, []string{"planning", "future", "تخطيط", "مستقبل"}},
}

type intentKeywords struct {
	intent   ConsultationType
	keywords []string
}

// intentSignals precede the industry bucket; generalHelpSignals follow it.
var intentSignals = []intentKeywords{
	{ConsultationROI, []string{"roi", "return on investment", "cost", "price", "عائد", "تكلفة", "سعر"}},
	{ConsultationPricing, []string{"pricing", "quote", "how much", "afford", "أسعار", "عرض سعر"}},
	{ConsultationDemo, []string{"demo", "test", "demonstration", "trial", "عرض توضيحي", "تجربة"}},
}

var generalHelpSignals = []string{"help", "assist", "support", "مساعدة", "ساعد", "دعم"}

type interestKeywords struct {
	tag      string
	keywords []string
}

var interestSignals = []interestKeywords{
	{"cleaning", []string{"clean", "scrub", "disinfect", "تنظيف", "تعقيم"}},
	{"delivery", []string{"deliver", "room service", "توصيل"}},
	{"reception", []string{"reception", "greet", "front desk", "concierge", "استقبال"}},
	{"security", []string{"security", "patrol", "guard", "أمن", "حراسة"}},
	{"inspection", []string{"inspect", "survey", "فحص"}},
	{"logistics", []string{"pallet", "transport", "picking", "نقل"}},
	{"teaching", []string{"teach", "lesson", "tutor", "تدريس"}},
	{"assembly", []string{"assembl", "machine tending", "cobot", "تجميع"}},
}

func fold(text string) string {
	return strings.ToLower(text)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// DetectIndustry returns the first industry whose keywords appear in text.
func DetectIndustry(text string) Industry {
	lowered := fold(text)
	for _, sig := range industrySignals {
		if containsAny(lowered, sig.keywords) {
			return sig.industry
		}
	}
	return IndustryUnknown
}

// DetectFacilitySize checks large, then medium, then small.
func DetectFacilitySize(text string) FacilitySize {
	lowered := fold(text)
	for _, sig := range facilitySignals {
		if containsAny(lowered, sig.keywords) {
			return sig.size
		}
	}
	return FacilityUnknown
}

// DetectBudget only classifies when a cost keyword is present. A cost
// mention without a tier keyword is a medium budget.
func DetectBudget(text string) BudgetRange {
	lowered := fold(text)
	if !containsAny(lowered, costKeywords) {
		return BudgetUnknown
	}
	for _, sig := range budgetSignals {
		if containsAny(lowered, sig.keywords) {
			return sig.budget
		}
	}
	return BudgetMedium
}

// DetectTimeline checks urgent, then soon, then planning.
func DetectTimeline(text string) Timeline {
	lowered := fold(text)
	for _, sig := range timelineSignals {
		if containsAny(lowered, sig.keywords) {
			return sig.timeline
		}
	}
	return TimelineUnknown
}

// DetectIntent returns the consultation type and, for the industry bucket,
// the industry that triggered it.
func DetectIntent(text string) (ConsultationType, Industry) {
	lowered := fold(text)
	for _, sig := range intentSignals {
		if containsAny(lowered, sig.keywords) {
			return sig.intent, IndustryUnknown
		}
	}
	if industry := DetectIndustry(lowered); industry != IndustryUnknown {
		return ConsultationIndustrySpecific, industry
	}
	if containsAny(lowered, generalHelpSignals) {
		return ConsultationGeneralHelp, IndustryUnknown
	}
	return ConsultationGeneral, IndustryUnknown
}

// DetectInterests returns every interest tag mentioned, in table order.
func DetectInterests(text string) []string {
	lowered := fold(text)
	var tags []string
	for _, sig := range interestSignals {
		if containsAny(lowered, sig.keywords) {
			tags = append(tags, sig.tag)
		}
	}
	return tags
}

// Signals is everything the extractors found in one message.
type Signals struct {
	Industry     Industry
	FacilitySize FacilitySize
	Budget       BudgetRange
	Timeline     Timeline
	Intent       ConsultationType
	Interests    []string
}

// ExtractSignals runs every extractor over text.
func ExtractSignals(text string) Signals {
	intent, _ := DetectIntent(text)
	return Signals{
		Industry:     DetectIndustry(text),
		FacilitySize: DetectFacilitySize(text),
		Budget:       DetectBudget(text),
		Timeline:     DetectTimeline(text),
		Intent:       intent,
		Interests:    DetectInterests(text),
	}
}

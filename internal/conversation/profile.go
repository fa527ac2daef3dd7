package conversation

// Industry is a vertical the catalog knows how to serve.
type Industry string

const (
	IndustryUnknown       Industry = "unknown"
	IndustryMining        Industry = "mining"
	IndustryEducation     Industry = "education"
	IndustryHealthcare    Industry = "healthcare"
	IndustryHospitality   Industry = "hospitality"
	IndustryLogistics     Industry = "logistics"
	IndustryManufacturing Industry = "manufacturing"
)

type FacilitySize string

const (
	FacilityUnknown FacilitySize = "unknown"
	FacilitySmall   FacilitySize = "small"
	FacilityMedium  FacilitySize = "medium"
	FacilityLarge   FacilitySize = "large"
)

type BudgetRange string

const (
	BudgetUnknown BudgetRange = "unknown"
	BudgetLow     BudgetRange = "low"
	BudgetMedium  BudgetRange = "medium"
	BudgetHigh    BudgetRange = "high"
)

// Timeline doubles as the urgency of a classification.
type Timeline string

const (
	TimelineUnknown  Timeline = "unknown"
	TimelineUrgent   Timeline = "urgent"
	TimelineSoon     Timeline = "soon"
	TimelinePlanning Timeline = "planning"
)

// ConsultationType is the classified purpose of an exchange. The first group
// is produced from the user's message, the second from the generated reply.
type ConsultationType string

const (
	ConsultationROI              ConsultationType = "roi_calculation"
	ConsultationPricing          ConsultationType = "pricing"
	ConsultationDemo             ConsultationType = "demo"
	ConsultationIndustrySpecific ConsultationType = "industry_specific"
	ConsultationGeneralHelp      ConsultationType = "general_help"
	ConsultationGeneral          ConsultationType = "general_consultation"

	TopicFacilityAnalysis       ConsultationType = "facility_analysis"
	TopicImplementationPlanning ConsultationType = "implementation_planning"
	TopicEventPlanning          ConsultationType = "event_planning"
	TopicGeneralInquiry         ConsultationType = "general_inquiry"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Profile accumulates facts about a conversation. Enum fields are monotonic:
// once known they only change to another known value.
type Profile struct {
	Industry     Industry     `json:"industry"`
	FacilitySize FacilitySize `json:"facilitySize"`
	BudgetRange  BudgetRange  `json:"budgetRange"`
	Timeline     Timeline     `json:"timeline"`
	Interests    []string     `json:"interests,omitempty"`
}

// NewProfile returns a profile with every field unknown.
func NewProfile() Profile {
	return Profile{
		Industry:     IndustryUnknown,
		FacilitySize: FacilityUnknown,
		BudgetRange:  BudgetUnknown,
		Timeline:     TimelineUnknown,
	}
}

// IsEmpty reports whether nothing has been learned yet.
func (p Profile) IsEmpty() bool {
	return p.Industry == IndustryUnknown &&
		p.FacilitySize == FacilityUnknown &&
		p.BudgetRange == BudgetUnknown &&
		p.Timeline == TimelineUnknown &&
		len(p.Interests) == 0
}

func (p Profile) clone() Profile {
	out := p
	if p.Interests != nil {
		out.Interests = append([]string(nil), p.Interests...)
	}
	return out
}

// Merge folds newly detected signals into p. Unknown signal values never
// overwrite a known field. Interests are appended as a multiset.
func (p Profile) Merge(s Signals) Profile {
	out := p.clone()
	if s.Industry != IndustryUnknown && s.Industry != "" {
		out.Industry = s.Industry
	}
	if s.FacilitySize != FacilityUnknown && s.FacilitySize != "" {
		out.FacilitySize = s.FacilitySize
	}
	if s.Budget != BudgetUnknown && s.Budget != "" {
		out.BudgetRange = s.Budget
	}
	if s.Timeline != TimelineUnknown && s.Timeline != "" {
		out.Timeline = s.Timeline
	}
	out.Interests = append(out.Interests, s.Interests...)
	return out
}

// Classification is the per-message intent decision.
type Classification struct {
	ConsultationType ConsultationType `json:"consultationType"`
	Industry         Industry         `json:"industry"`
	Urgency          Timeline         `json:"urgency"`
	Priority         Priority         `json:"priority"`
}

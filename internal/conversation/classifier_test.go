package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_MergesProfileAcrossTurns(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)

	first := c.Classify("c", "We run a large hospital")
	second := c.Classify("c", "What about pricing?")

	assert.Equal(t, IndustryHealthcare, first.Industry)
	assert.Equal(t, ConsultationIndustrySpecific, first.ConsultationType)
	assert.Equal(t, ConsultationPricing, second.ConsultationType)
	assert.Equal(t, IndustryHealthcare, second.Industry, "industry falls back to the profile")

	snap := store.Snapshot("c")
	assert.Equal(t, IndustryHealthcare, snap.Profile.Industry)
	assert.Equal(t, FacilityLarge, snap.Profile.FacilitySize)
	require.NotNil(t, snap.LastIntent)
	assert.Equal(t, second, *snap.LastIntent)
}

func TestClassifier_NewSignalReplacesKnownValue(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)

	c.Classify("c", "our hotel")
	got := c.Classify("c", "actually it is a warehouse")

	assert.Equal(t, IndustryLogistics, got.Industry)
	assert.Equal(t, IndustryLogistics, store.Snapshot("c").Profile.Industry)
}

func TestClassifier_InterestsAccumulate(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)

	c.Classify("c", "cleaning robots")
	c.Classify("c", "also cleaning and patrol")

	assert.Equal(t, []string{"cleaning", "cleaning", "security"}, store.Snapshot("c").Profile.Interests)
}

func TestProfileMerge_UnknownNeverOverwrites(t *testing.T) {
	p := NewProfile().Merge(Signals{
		Industry:     IndustryMining,
		FacilitySize: FacilitySmall,
		Budget:       BudgetHigh,
		Timeline:     TimelineSoon,
	})
	merged := p.Merge(Signals{
		Industry:     IndustryUnknown,
		FacilitySize: FacilityUnknown,
		Budget:       BudgetUnknown,
		Timeline:     TimelineUnknown,
	})

	assert.Equal(t, p, merged)
	assert.False(t, merged.IsEmpty())
	assert.True(t, NewProfile().IsEmpty())
}

func TestClassify_Priority(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
		profile Profile
		want    Priority
	}{
		{"urgent", Signals{Timeline: TimelineUrgent}, NewProfile(), PriorityHigh},
		{"high budget", Signals{}, Profile{BudgetRange: BudgetHigh}, PriorityHigh},
		{"soon", Signals{Timeline: TimelineSoon}, NewProfile(), PriorityMedium},
		{"large facility", Signals{}, Profile{FacilitySize: FacilityLarge}, PriorityMedium},
		{"demo intent", Signals{Intent: ConsultationDemo}, NewProfile(), PriorityMedium},
		{"urgency from profile", Signals{}, Profile{Timeline: TimelineUrgent}, PriorityHigh},
		{"nothing", Signals{Intent: ConsultationGeneral}, NewProfile(), PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.signals, tt.profile).Priority)
		})
	}
}

func TestClassify_DefaultsToGeneralConsultation(t *testing.T) {
	got := Classify(Signals{}, NewProfile())
	assert.Equal(t, ConsultationGeneral, got.ConsultationType)
	assert.Equal(t, IndustryUnknown, got.Industry)
	assert.Equal(t, TimelineUnknown, got.Urgency)
}

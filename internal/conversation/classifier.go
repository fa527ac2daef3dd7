package conversation

// Classifier combines message signals with the stored profile. It is the
// only writer of Profile.
type Classifier struct {
	store *Store
}

func NewClassifier(store *Store) *Classifier {
	return &Classifier{store: store}
}

// Classify scans message, folds new signals into the conversation profile
// and records the resulting classification as the conversation's last intent.
func (c *Classifier) Classify(conversationID, message string) Classification {
	signals := ExtractSignals(message)
	profile := c.store.UpdateProfile(conversationID, func(p Profile) Profile {
		return p.Merge(signals)
	})
	result := Classify(signals, profile)
	c.store.SetLastIntent(conversationID, result)
	return result
}

// Classify is the pure decision: message signals win, the stored profile
// fills the gaps.
func Classify(s Signals, p Profile) Classification {
	industry := s.Industry
	if industry == IndustryUnknown || industry == "" {
		industry = p.Industry
	}
	urgency := s.Timeline
	if urgency == TimelineUnknown || urgency == "" {
		urgency = p.Timeline
	}
	intent := s.Intent
	if intent == "" {
		intent = ConsultationGeneral
	}
	return Classification{
		ConsultationType: intent,
		Industry:         industry,
		Urgency:          urgency,
		Priority:         priorityFor(intent, urgency, p),
	}
}

func priorityFor(intent ConsultationType, urgency Timeline, p Profile) Priority {
	switch {
	case urgency == TimelineUrgent, p.BudgetRange == BudgetHigh:
		return PriorityHigh
	case urgency == TimelineSoon, p.FacilitySize == FacilityLarge:
		return PriorityMedium
	}
	switch intent {
	case ConsultationROI, ConsultationPricing, ConsultationDemo:
		return PriorityMedium
	}
	return PriorityLow
}

package conversation

import (
	"context"
	"time"
)

// Service is the single operation exposed to the routing layer. It never
// fails: every error degrades to a lower-confidence reply.
type Service interface {
	ProcessMessage(ctx context.Context, req MessageRequest) *Reply
	History(ctx context.Context, conversationID string) []Turn
}

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation transcript.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageRequest is a single inbound user message.
type MessageRequest struct {
	Message        string `json:"message"`
	Language       string `json:"language,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// Recommendation is the structured product advice pulled out of a reply.
type Recommendation struct {
	Robots         []string `json:"robots"`
	Reasoning      string   `json:"reasoning"`
	Implementation string   `json:"implementation"`
	ROI            string   `json:"roi"`
}

// Reply is the structured result of ProcessMessage. Nil slices and a nil
// Recommendations pointer mean "nothing extracted" and encode as null.
type Reply struct {
	ConversationID    string           `json:"conversationId"`
	Message           string           `json:"message"`
	Language          string           `json:"language"`
	Confidence        float64          `json:"confidence"`
	ConsultationType  ConsultationType `json:"consultationType"`
	ReplyTopic        ConsultationType `json:"replyTopic"`
	Recommendations   *Recommendation  `json:"recommendations"`
	FollowUpQuestions []string         `json:"followUpQuestions"`
	SuggestedActions  []string         `json:"suggestedActions"`
	Industry          Industry         `json:"industry"`
	Urgency           Timeline         `json:"urgency"`
	Priority          Priority         `json:"priority"`
	Strategy          string           `json:"strategy"`
	Timestamp         time.Time        `json:"timestamp"`
}

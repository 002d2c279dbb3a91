package domain

import "time"

// Role identifies who authored a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageType classifies assistant messages for the UI.
type MessageType string

const (
	MessageRecommendation MessageType = "recommendation"
	MessageQuestion       MessageType = "question"
	MessageConfirmation   MessageType = "confirmation"
)

// MessageMetadata is optional structured data attached to a message.
type MessageMetadata struct {
	Type            MessageType      `json:"type"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	QuestionType    StepID           `json:"question_type,omitempty"`
	CampaignDraft   *Draft           `json:"campaign_draft,omitempty"`
}

// Message is one entry of the append-only conversation log. Messages are
// never mutated after they are appended.
type Message struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// RecommendationType names the data source a recommendation came from.
type RecommendationType string

const (
	RecommendationPerformance RecommendationType = "performance-based"
	RecommendationAudience    RecommendationType = "audience-insight"
	RecommendationTrend       RecommendationType = "trend-based"
)

// Confidence is a coarse confidence level.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Recommendation is a system-suggested campaign starting point. It is
// generated fresh on every creation start and never mutated.
type Recommendation struct {
	ID                 string             `json:"id"`
	Type               RecommendationType `json:"type"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Rationale          string             `json:"rationale"`
	SuggestedChannels  []string           `json:"suggested_channels,omitempty"`
	SuggestedAudiences []string           `json:"suggested_audiences,omitempty"`
	EstimatedBudget    string             `json:"estimated_budget,omitempty"`
	Confidence         Confidence         `json:"confidence"`
	SourceData         map[string]any     `json:"source_data,omitempty"`
}

// CreationSession is the state of one guided campaign-creation flow.
type CreationSession struct {
	ID                     string           `json:"id,omitempty"`
	IsActive               bool             `json:"is_active"`
	CurrentStep            StepID           `json:"current_step"`
	Draft                  Draft            `json:"draft"`
	Recommendations        []Recommendation `json:"recommendations"`
	SelectedRecommendation *Recommendation  `json:"selected_recommendation,omitempty"`
}

// NewCreationSession returns the initial, inactive session.
func NewCreationSession() CreationSession {
	return CreationSession{CurrentStep: StepRecommendations}
}

// Clone returns a deep copy of the session.
func (s CreationSession) Clone() CreationSession {
	s.Draft = s.Draft.Clone()
	if s.Recommendations != nil {
		recs := make([]Recommendation, len(s.Recommendations))
		copy(recs, s.Recommendations)
		s.Recommendations = recs
	}
	if s.SelectedRecommendation != nil {
		rec := *s.SelectedRecommendation
		s.SelectedRecommendation = &rec
	}
	return s
}

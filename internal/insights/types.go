// Package insights scores a campaign draft while it is being built:
// audience reach, asset and content suggestions, experiments, brand
// alignment and an overall completeness score with a performance
// prediction. Results are recomputed on a debounce and replaced wholesale.
package insights

import "time"

// AudienceSegment is a catalog segment scored against the draft.
type AudienceSegment struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Size       int      `json:"size"`
	MatchScore int      `json:"match_score"`
	Channels   []string `json:"channels,omitempty"`
	Reasons    []string `json:"reasons,omitempty"`
}

// AudienceReach is the audience-reach estimate.
type AudienceReach struct {
	Segments   []AudienceSegment `json:"segments"`
	TotalReach int               `json:"total_reach"`
	IsLoading  bool              `json:"is_loading"`
}

// AssetRecommendation is a creative asset suggested for the draft.
type AssetRecommendation struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Channels   []string `json:"channels,omitempty"`
	MatchScore int      `json:"match_score"`
	Reason     string   `json:"reason,omitempty"`
}

// ContentRecommendation is a content piece suggested for the draft.
type ContentRecommendation struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Format     string `json:"format"`
	Channel    string `json:"channel"`
	MatchScore int    `json:"match_score"`
	Reason     string `json:"reason,omitempty"`
}

// ExperimentSuggestion is a test the campaign could run.
type ExperimentSuggestion struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Hypothesis   string   `json:"hypothesis"`
	Variants     []string `json:"variants"`
	ExpectedLift string   `json:"expected_lift"`
}

// Severity of a brand issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// BrandIssue is a single brand-guideline finding.
type BrandIssue struct {
	Severity Severity `json:"severity"`
	Keyword  string   `json:"keyword,omitempty"`
	Message  string   `json:"message"`
}

// BrandAlignment scores the draft copy against the selected brand kit.
type BrandAlignment struct {
	BrandKit    string       `json:"brand_kit,omitempty"`
	Score       int          `json:"score"`
	IsAligned   bool         `json:"is_aligned"`
	ToneMatches []string     `json:"tone_matches,omitempty"`
	Issues      []BrandIssue `json:"issues,omitempty"`
	Suggestions []string     `json:"suggestions,omitempty"`
	IsLoading   bool         `json:"is_loading"`
}

// ScoreCategory is one weighted category of the campaign score.
type ScoreCategory struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Score  int    `json:"score"`
	Weight int    `json:"weight"`
}

// SuggestedUpdate points at the field with the most to gain.
type SuggestedUpdate struct {
	Field      string `json:"field"`
	Suggestion string `json:"suggestion"`
	Gain       int    `json:"gain"`
}

// PerformancePrediction is a rough outcome forecast. Unknown values are "—".
type PerformancePrediction struct {
	Confidence     string `json:"confidence"`
	EstimatedReach string `json:"estimated_reach"`
	EngagementRate string `json:"engagement_rate"`
	Conversions    string `json:"conversions"`
}

// CampaignScore is the weighted completeness score of the draft.
type CampaignScore struct {
	Overall          int                   `json:"overall"`
	Breakdown        []ScoreCategory       `json:"breakdown"`
	SuggestedUpdates []SuggestedUpdate     `json:"suggested_updates,omitempty"`
	StrengthAreas    []string              `json:"strength_areas,omitempty"`
	ImprovementAreas []string              `json:"improvement_areas,omitempty"`
	Prediction       PerformancePrediction `json:"prediction"`
	IsLoading        bool                  `json:"is_loading"`
}

// WizardInsights is the full insights snapshot. It is only ever replaced
// as a whole.
type WizardInsights struct {
	AudienceReach         AudienceReach           `json:"audience_reach"`
	RecommendedAssets     []AssetRecommendation   `json:"recommended_assets"`
	RecommendedContent    []ContentRecommendation `json:"recommended_content"`
	ExperimentSuggestions []ExperimentSuggestion  `json:"experiment_suggestions"`
	BrandKitAlignment     BrandAlignment          `json:"brand_kit_alignment"`
	CampaignScore         CampaignScore           `json:"campaign_score"`
	IsCalculating         bool                    `json:"is_calculating"`
	Generation            uint64                  `json:"generation"`
	ComputedAt            time.Time               `json:"computed_at,omitzero"`
}

func (w *WizardInsights) setLoading(v bool) {
	w.IsCalculating = v
	w.AudienceReach.IsLoading = v
	w.BrandKitAlignment.IsLoading = v
	w.CampaignScore.IsLoading = v
}

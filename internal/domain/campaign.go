package domain

import (
	"time"
)

// CampaignStatus enumerates the lifecycle states of a persisted campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignPlanned   CampaignStatus = "planned"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Campaign is a campaign as returned by the persistence collaborator after
// creation.
type Campaign struct {
	ID           string         `json:"id" db:"id"`
	Title        string         `json:"title" db:"title"`
	URL          string         `json:"url" db:"url"`
	Status       CampaignStatus `json:"status" db:"status"`
	StartDate    string         `json:"start_date" db:"start_date"`
	EndDate      string         `json:"end_date" db:"end_date"`
	Channels     []string       `json:"channels" db:"channels"`
	Budget       string         `json:"budget" db:"budget"`
	Audiences    []string       `json:"audiences" db:"audiences"`
	Contributors []string       `json:"contributors" db:"contributors"`
	BrandKit     string         `json:"brand_kit" db:"brand_kit"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignCompleted || c.Status == CampaignCancelled
}

// Performance is the coarse performance bucket of a past campaign.
type Performance string

const (
	PerformanceExcellent Performance = "excellent"
	PerformanceGood      Performance = "good"
	PerformanceAverage   Performance = "average"
	PerformancePoor      Performance = "poor"
)

// CampaignPerformance summarizes how an existing campaign performed. It is
// the input of performance-based recommendations.
type CampaignPerformance struct {
	CampaignID     string      `json:"campaign_id"`
	Title          string      `json:"title"`
	Performance    Performance `json:"performance"`
	EngagementRate float64     `json:"engagement_rate"`
	ConversionRate float64     `json:"conversion_rate"`
	ROI            float64     `json:"roi"`
	Channels       []string    `json:"channels"`
	Audiences      []string    `json:"audiences"`
	Budget         string      `json:"budget"`
}

// GrowthPotential ranks how much an audience segment could grow.
type GrowthPotential string

const (
	GrowthHigh   GrowthPotential = "high"
	GrowthMedium GrowthPotential = "medium"
	GrowthLow    GrowthPotential = "low"
)

// AudienceInsight describes an observed audience segment.
type AudienceInsight struct {
	Segment          string          `json:"segment"`
	Size             int             `json:"size"`
	EngagementRate   float64         `json:"engagement_rate"`
	GrowthPotential  GrowthPotential `json:"growth_potential"`
	PreferredChannel string          `json:"preferred_channel"`
	Interests        []string        `json:"interests"`
}

// Relevance ranks how relevant a market trend is to the brand.
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
	RelevanceLow    Relevance = "low"
)

// Trend is an externally supplied market trend.
type Trend struct {
	Topic             string    `json:"topic"`
	Description       string    `json:"description"`
	Relevance         Relevance `json:"relevance"`
	SuggestedChannels []string  `json:"suggested_channels,omitempty"`
	Source            string    `json:"source,omitempty"`
	Link              string    `json:"link,omitempty"`
}

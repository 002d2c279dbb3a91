package recommendation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DataSource supplies the inputs recommendations are built from.
type DataSource interface {
	CampaignPerformance(ctx context.Context) ([]domain.CampaignPerformance, error)
	AudienceInsights(ctx context.Context) ([]domain.AudienceInsight, error)
	Trends(ctx context.Context) ([]domain.Trend, error)
}

// TrendSource supplies market trends only.
type TrendSource interface {
	Trends(ctx context.Context) ([]domain.Trend, error)
}

var (
	mockCampaigns = []struct {
		title     string
		channels  []string
		audiences []string
		budget    string
	}{
		{"Spring Product Launch", []string{"Email", "Social", "Web"}, []string{"Existing Customers", "Young Professionals"}, "$15K-25K"},
		{"Holiday Gift Guide", []string{"Email", "Web"}, []string{"Parents", "Gift Shoppers"}, "$20K-30K"},
		{"Back to School", []string{"Social", "Display"}, []string{"Students", "Parents"}, "$8K-12K"},
		{"Loyalty Rewards Refresh", []string{"Email"}, []string{"Existing Customers"}, "$5K-8K"},
		{"Summer Clearance", []string{"Social", "Web", "Search"}, []string{"Bargain Hunters"}, "$10K-15K"},
	}

	mockSegments = []struct {
		segment   string
		channel   string
		interests []string
	}{
		{"Young Professionals", "Social", []string{"career", "technology", "travel"}},
		{"Small Business Owners", "Email", []string{"productivity", "finance", "growth"}},
		{"Eco-Conscious Shoppers", "Web", []string{"sustainability", "wellness"}},
		{"Parents", "Email", []string{"family", "education", "value"}},
	}

	staticTrends = []domain.Trend{
		{Topic: "Sustainability", Description: "Customers increasingly favour brands with visible environmental commitments.", Relevance: domain.RelevanceHigh, SuggestedChannels: []string{"Social", "Web"}, Source: "mock"},
		{Topic: "Short-form Video", Description: "Short vertical video keeps outperforming static posts on engagement.", Relevance: domain.RelevanceHigh, SuggestedChannels: []string{"Social"}, Source: "mock"},
		{Topic: "AI Personalization", Description: "Personalized recommendations are becoming a baseline expectation.", Relevance: domain.RelevanceMedium, SuggestedChannels: []string{"Email", "Web"}, Source: "mock"},
		{Topic: "Community Events", Description: "Local, in-person events are regaining popularity.", Relevance: domain.RelevanceLow, SuggestedChannels: []string{"Events"}, Source: "mock"},
	}

	performanceTiers = []domain.Performance{
		domain.PerformanceExcellent, domain.PerformanceGood, domain.PerformanceAverage, domain.PerformancePoor,
	}
	growthTiers = []domain.GrowthPotential{domain.GrowthHigh, domain.GrowthMedium, domain.GrowthLow}
)

// MockSource generates plausible campaign analytics. Output is randomized
// but reproducible for a given seed. Each dataset draws from its own stream
// so concurrent reads do not change what the other one sees.
type MockSource struct {
	mu          sync.Mutex
	perfRng     *rand.Rand
	audienceRng *rand.Rand
}

const audienceSeedMix = 0x5bd1e995

// NewMockSource returns a mock source seeded with seed.
func NewMockSource(seed int64) *MockSource {
	return &MockSource{
		perfRng:     rand.New(rand.NewSource(seed)),
		audienceRng: rand.New(rand.NewSource(seed ^ audienceSeedMix)),
	}
}

// CampaignPerformance returns one row per mock campaign. The first campaign
// is always excellent and the last always poor so every round offers both
// performance-based ideas.
func (m *MockSource) CampaignPerformance(ctx context.Context) ([]domain.CampaignPerformance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.CampaignPerformance, 0, len(mockCampaigns))
	for i, c := range mockCampaigns {
		tier := performanceTiers[m.perfRng.Intn(len(performanceTiers))]
		switch i {
		case 0:
			tier = domain.PerformanceExcellent
		case len(mockCampaigns) - 1:
			tier = domain.PerformancePoor
		}
		engagement, roi := m.metricsFor(tier)
		out = append(out, domain.CampaignPerformance{
			CampaignID:     fmt.Sprintf("cmp-%03d", i+1),
			Title:          c.title,
			Performance:    tier,
			EngagementRate: engagement,
			ConversionRate: engagement / 4,
			ROI:            roi,
			Channels:       cloneStrings(c.channels),
			Audiences:      cloneStrings(c.audiences),
			Budget:         c.budget,
		})
	}
	return out, nil
}

func (m *MockSource) metricsFor(tier domain.Performance) (engagement, roi float64) {
	jitter := m.perfRng.Float64()
	switch tier {
	case domain.PerformanceExcellent:
		return 0.08 + jitter*0.04, 3.5 + jitter*1.5
	case domain.PerformanceGood:
		return 0.05 + jitter*0.03, 2.0 + jitter
	case domain.PerformanceAverage:
		return 0.03 + jitter*0.02, 1.2 + jitter*0.6
	default:
		return 0.005 + jitter*0.015, 0.3 + jitter*0.5
	}
}

// AudienceInsights returns one insight per mock segment.
func (m *MockSource) AudienceInsights(ctx context.Context) ([]domain.AudienceInsight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.AudienceInsight, 0, len(mockSegments))
	for _, s := range mockSegments {
		out = append(out, domain.AudienceInsight{
			Segment:          s.segment,
			Size:             5000 + m.audienceRng.Intn(95000),
			EngagementRate:   0.02 + m.audienceRng.Float64()*0.08,
			GrowthPotential:  growthTiers[m.audienceRng.Intn(len(growthTiers))],
			PreferredChannel: s.channel,
			Interests:        cloneStrings(s.interests),
		})
	}
	return out, nil
}

// Trends returns a fixed trend list.
func (m *MockSource) Trends(ctx context.Context) ([]domain.Trend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Trend, len(staticTrends))
	for i, t := range staticTrends {
		t.SuggestedChannels = cloneStrings(t.SuggestedChannels)
		out[i] = t
	}
	return out, nil
}

// CompositeSource overlays live trends on a base source. When the trend
// source fails or returns nothing the base trends are used instead.
type CompositeSource struct {
	base DataSource
	live TrendSource
}

// NewCompositeSource combines base with an optional live trend source.
func NewCompositeSource(base DataSource, live TrendSource) *CompositeSource {
	return &CompositeSource{base: base, live: live}
}

// CampaignPerformance delegates to the base source.
func (c *CompositeSource) CampaignPerformance(ctx context.Context) ([]domain.CampaignPerformance, error) {
	return c.base.CampaignPerformance(ctx)
}

// AudienceInsights delegates to the base source.
func (c *CompositeSource) AudienceInsights(ctx context.Context) ([]domain.AudienceInsight, error) {
	return c.base.AudienceInsights(ctx)
}

// Trends prefers the live source.
func (c *CompositeSource) Trends(ctx context.Context) ([]domain.Trend, error) {
	if c.live != nil {
		trends, err := c.live.Trends(ctx)
		switch {
		case err != nil:
			logger.Warn("live trend source failed, using fallback", "error", err.Error())
		case len(trends) > 0:
			return trends, nil
		}
	}
	return c.base.Trends(ctx)
}

// Service fetches all inputs concurrently and generates recommendations.
type Service struct {
	source DataSource
}

// NewService returns a service reading from source.
func NewService(source DataSource) *Service {
	return &Service{source: source}
}

// Recommend builds a fresh recommendation list. Any source failure fails
// the whole round.
func (s *Service) Recommend(ctx context.Context) ([]domain.Recommendation, error) {
	var (
		perf     []domain.CampaignPerformance
		insights []domain.AudienceInsight
		trends   []domain.Trend
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		perf, err = s.source.CampaignPerformance(egCtx)
		if err != nil {
			return fmt.Errorf("campaign performance: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		insights, err = s.source.AudienceInsights(egCtx)
		if err != nil {
			return fmt.Errorf("audience insights: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		trends, err = s.source.Trends(egCtx)
		if err != nil {
			return fmt.Errorf("trends: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("recommendation: %w", err)
	}
	return Generate(perf, insights, trends), nil
}

// Package recommendation generates campaign starting points from past
// performance, audience insights and market trends, and resolves which one
// a user picked.
package recommendation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ignite/campaign-manager/internal/domain"
)

// MaxTrendRecommendations caps trend-based recommendations per round.
const MaxTrendRecommendations = 2

const titlePrefixLen = 20

var leadingIntRe = regexp.MustCompile(`^\s*(\d+)`)

// recommendationNS namespaces deterministic recommendation IDs.
var recommendationNS = uuid.MustParse("6f1c2b8e-3a52-4f0e-9d4b-6c7a1e2f9b30")

// Generate builds the ranked recommendation list. It is deterministic for
// identical inputs: at most one build-on-success, one revitalize, one
// audience-insight and MaxTrendRecommendations high-relevance trend ideas.
func Generate(perf []domain.CampaignPerformance, insights []domain.AudienceInsight, trends []domain.Trend) []domain.Recommendation {
	var out []domain.Recommendation

	if best := bestPerformer(perf); best != nil {
		out = append(out, newRecommendation(domain.Recommendation{
			Type:  domain.RecommendationPerformance,
			Title: fmt.Sprintf("Build on the success of %s", best.Title),
			Description: fmt.Sprintf("Create a follow-up to \"%s\" reusing its winning channel mix and audiences.",
				best.Title),
			Rationale: fmt.Sprintf("\"%s\" delivered %.1f%% engagement and %.1fx ROI, your best result.",
				best.Title, best.EngagementRate*100, best.ROI),
			SuggestedChannels:  cloneStrings(best.Channels),
			SuggestedAudiences: cloneStrings(best.Audiences),
			EstimatedBudget:    best.Budget,
			Confidence:         domain.ConfidenceHigh,
			SourceData: map[string]any{
				"campaign_id": best.CampaignID,
				"roi":         best.ROI,
			},
		}))
	}

	if worst := worstPerformer(perf); worst != nil {
		out = append(out, newRecommendation(domain.Recommendation{
			Type:  domain.RecommendationPerformance,
			Title: fmt.Sprintf("Revitalize %s", worst.Title),
			Description: fmt.Sprintf("Relaunch \"%s\" with refreshed messaging and a tighter audience.",
				worst.Title),
			Rationale: fmt.Sprintf("\"%s\" underperformed at %.1f%% engagement; a refresh can recover that investment.",
				worst.Title, worst.EngagementRate*100),
			SuggestedChannels:  cloneStrings(worst.Channels),
			SuggestedAudiences: cloneStrings(worst.Audiences),
			EstimatedBudget:    worst.Budget,
			Confidence:         domain.ConfidenceMedium,
			SourceData: map[string]any{
				"campaign_id": worst.CampaignID,
				"roi":         worst.ROI,
			},
		}))
	}

	if top := topAudience(insights); top != nil {
		confidence := domain.ConfidenceMedium
		if top.GrowthPotential == domain.GrowthHigh {
			confidence = domain.ConfidenceHigh
		}
		var channels []string
		if top.PreferredChannel != "" {
			channels = []string{top.PreferredChannel}
		}
		out = append(out, newRecommendation(domain.Recommendation{
			Type:  domain.RecommendationAudience,
			Title: fmt.Sprintf("Engage the %s segment", top.Segment),
			Description: fmt.Sprintf("A campaign tailored to %s, reaching them where they engage most.",
				top.Segment),
			Rationale: fmt.Sprintf("%s engage at %.1f%% with %s growth potential across %d people.",
				top.Segment, top.EngagementRate*100, top.GrowthPotential, top.Size),
			SuggestedChannels:  channels,
			SuggestedAudiences: []string{top.Segment},
			EstimatedBudget:    budgetForAudience(top.Size),
			Confidence:         confidence,
			SourceData: map[string]any{
				"segment":   top.Segment,
				"interests": cloneStrings(top.Interests),
			},
		}))
	}

	added := 0
	for _, t := range trends {
		if added == MaxTrendRecommendations {
			break
		}
		if t.Relevance != domain.RelevanceHigh {
			continue
		}
		channels := cloneStrings(t.SuggestedChannels)
		if len(channels) == 0 {
			channels = []string{"Social", "Web"}
		}
		out = append(out, newRecommendation(domain.Recommendation{
			Type:              domain.RecommendationTrend,
			Title:             fmt.Sprintf("Ride the %s trend", t.Topic),
			Description:       t.Description,
			Rationale:         fmt.Sprintf("%s is trending with high relevance to your brand.", t.Topic),
			SuggestedChannels: channels,
			Confidence:        domain.ConfidenceMedium,
			SourceData: map[string]any{
				"topic":  t.Topic,
				"source": t.Source,
			},
		}))
		added++
	}

	return out
}

func newRecommendation(r domain.Recommendation) domain.Recommendation {
	r.ID = uuid.NewSHA1(recommendationNS, []byte(string(r.Type)+"|"+r.Title)).String()
	return r
}

func bestPerformer(perf []domain.CampaignPerformance) *domain.CampaignPerformance {
	var best *domain.CampaignPerformance
	for i := range perf {
		p := &perf[i]
		if p.Performance != domain.PerformanceExcellent {
			continue
		}
		if best == nil || p.ROI > best.ROI || (p.ROI == best.ROI && p.EngagementRate > best.EngagementRate) {
			best = p
		}
	}
	return best
}

func worstPerformer(perf []domain.CampaignPerformance) *domain.CampaignPerformance {
	var worst *domain.CampaignPerformance
	for i := range perf {
		p := &perf[i]
		if p.Performance != domain.PerformancePoor {
			continue
		}
		if worst == nil || p.ROI < worst.ROI || (p.ROI == worst.ROI && p.EngagementRate < worst.EngagementRate) {
			worst = p
		}
	}
	return worst
}

// topAudience prefers high growth potential, then higher engagement.
func topAudience(insights []domain.AudienceInsight) *domain.AudienceInsight {
	var top *domain.AudienceInsight
	for i := range insights {
		a := &insights[i]
		if top == nil {
			top = a
			continue
		}
		aHigh := a.GrowthPotential == domain.GrowthHigh
		topHigh := top.GrowthPotential == domain.GrowthHigh
		if aHigh != topHigh {
			if aHigh {
				top = a
			}
			continue
		}
		if a.EngagementRate > top.EngagementRate {
			top = a
		}
	}
	return top
}

func budgetForAudience(size int) string {
	switch {
	case size <= 0:
		return ""
	case size < 10000:
		return "$2K-5K"
	case size < 50000:
		return "$5K-15K"
	default:
		return "$15K-30K"
	}
}

// Selection is the outcome of resolving a user's pick.
type Selection struct {
	Selected *domain.Recommendation
	IsCustom bool
}

// ResolveSelection maps free text to one of recs. Precedence: a leading
// 1-based number in range; a case-insensitive match of the first 20
// characters of a title; "first"/"option 1" and "second"/"option 2";
// otherwise the text is a custom idea.
//
// An ordinal keyword pointing past the end of recs yields neither a
// selection nor a custom idea; callers must treat that as "ask again".
func ResolveSelection(text string, recs []domain.Recommendation) Selection {
	if m := leadingIntRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= len(recs) {
			return selected(recs, n-1)
		}
	}

	lower := strings.ToLower(text)
	for i, rec := range recs {
		prefix := strings.TrimSpace(strings.ToLower(truncateRunes(rec.Title, titlePrefixLen)))
		if prefix != "" && strings.Contains(lower, prefix) {
			return selected(recs, i)
		}
	}

	idx := -1
	switch {
	case strings.Contains(lower, "first"), strings.Contains(lower, "option 1"):
		idx = 0
	case strings.Contains(lower, "second"), strings.Contains(lower, "option 2"):
		idx = 1
	}
	if idx >= 0 {
		if idx < len(recs) {
			return selected(recs, idx)
		}
		return Selection{}
	}

	return Selection{IsCustom: true}
}

func selected(recs []domain.Recommendation, i int) Selection {
	rec := recs[i]
	return Selection{Selected: &rec}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

package insights

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
)

const (
	maxSuggestedUpdates = 4
	maxAreas            = 3
	endDatePending      = "TBD"
	unknownValue        = "—"
	reachPerPair        = 25000
)

var budgetAmountRe = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*([kKmM])?`)

type category struct {
	key        string
	label      string
	weight     int
	suggestion string
	score      func(d domain.Draft) int
}

// categories is the fixed scoring order; weights sum to 100.
var categories = []category{
	{"title", "Title", 10, "Use a clear, descriptive title between 10 and 60 characters.", scoreTitle},
	{"key_messages", "Key messages", 15, "Expand your key messages to at least 100 characters.", scoreKeyMessages},
	{"goals", "Goals", 15, "Make goals measurable with a number or percentage.", scoreGoals},
	{"audiences", "Audiences", 15, "Target at least three audience segments.", scoreAudiences},
	{"channels", "Channels", 15, "Use three or more channels to broaden reach.", scoreChannels},
	{"budget", "Budget", 10, "Set a numeric budget, for example $10K-20K.", scoreBudget},
	{"dates", "Dates", 10, "Set both a start and an end date.", scoreDates},
	{"brand_kit", "Brand kit", 10, "Select a brand kit to keep messaging on-brand.", scoreBrandKit},
}

// ScoreCampaign computes the weighted completeness score, the suggested
// updates and the performance prediction.
func ScoreCampaign(d domain.Draft) CampaignScore {
	out := CampaignScore{Breakdown: make([]ScoreCategory, 0, len(categories))}

	type gap struct {
		idx  int
		size int
	}
	var gaps []gap
	for i, c := range categories {
		s := c.score(d)
		out.Overall += s
		out.Breakdown = append(out.Breakdown, ScoreCategory{Key: c.key, Label: c.label, Score: s, Weight: c.weight})

		ratio := float64(s) / float64(c.weight)
		if ratio < 0.7 {
			gaps = append(gaps, gap{idx: i, size: c.weight - s})
		}
		switch {
		case ratio >= 0.8 && len(out.StrengthAreas) < maxAreas:
			out.StrengthAreas = append(out.StrengthAreas, c.label)
		case ratio < 0.5 && len(out.ImprovementAreas) < maxAreas:
			out.ImprovementAreas = append(out.ImprovementAreas, c.label)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].size > gaps[j].size })
	for _, g := range gaps {
		if len(out.SuggestedUpdates) == maxSuggestedUpdates {
			break
		}
		c := categories[g.idx]
		out.SuggestedUpdates = append(out.SuggestedUpdates, SuggestedUpdate{Field: c.key, Suggestion: c.suggestion, Gain: g.size})
	}

	out.Prediction = predict(d, out.Overall)
	return out
}

func scoreTitle(d domain.Draft) int {
	n := len([]rune(strings.TrimSpace(d.Title)))
	switch {
	case n >= 10 && n <= 60:
		return 10
	case n >= 3:
		return 6
	default:
		return 0
	}
}

func scoreKeyMessages(d domain.Draft) int {
	n := len([]rune(strings.TrimSpace(d.KeyMessages)))
	switch {
	case n >= 100:
		return 15
	case n >= 50:
		return 11
	case n > 0:
		return 6
	default:
		return 0
	}
}

func scoreGoals(d domain.Draft) int {
	g := strings.TrimSpace(d.Goals)
	if g == "" {
		return 0
	}
	s := 8
	if strings.ContainsAny(g, "0123456789%") {
		s += 7
	}
	return s
}

func scoreAudiences(d domain.Draft) int {
	switch n := len(d.Audiences); {
	case n >= 3:
		return 15
	case n == 2:
		return 11
	case n == 1:
		return 7
	default:
		return 0
	}
}

func scoreChannels(d domain.Draft) int {
	switch n := len(d.Channels); {
	case n >= 3:
		return 15
	case n == 2:
		return 10
	case n == 1:
		return 6
	default:
		return 0
	}
}

func scoreBudget(d domain.Draft) int {
	if strings.TrimSpace(d.Budget) == "" {
		return 0
	}
	amount, ok := ParseBudgetAmount(d.Budget)
	switch {
	case !ok:
		return 3
	case amount >= 10000:
		return 10
	case amount >= 1000:
		return 7
	case amount > 0:
		return 4
	default:
		return 3
	}
}

func scoreDates(d domain.Draft) int {
	start := strings.TrimSpace(d.StartDate) != ""
	end := strings.TrimSpace(d.EndDate) != "" && !strings.EqualFold(strings.TrimSpace(d.EndDate), endDatePending)
	switch {
	case start && end:
		return 10
	case start || end:
		return 5
	default:
		return 0
	}
}

func scoreBrandKit(d domain.Draft) int {
	if strings.TrimSpace(d.BrandKit) != "" {
		return 10
	}
	return 0
}

// ParseBudgetAmount reads the largest amount in a budget string, honouring
// k and m suffixes, so "$10K-20K" is 20000.
func ParseBudgetAmount(s string) (float64, bool) {
	matches := budgetAmountRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	best, found := 0.0, false
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "k":
			v *= 1e3
		case "m":
			v *= 1e6
		}
		if !found || v > best {
			best, found = v, true
		}
	}
	return best, found
}

func predict(d domain.Draft, overall int) PerformancePrediction {
	p := PerformancePrediction{Confidence: string(domain.ConfidenceLow)}
	switch {
	case overall >= 80:
		p.Confidence = string(domain.ConfidenceHigh)
	case overall >= 50:
		p.Confidence = string(domain.ConfidenceMedium)
	}

	audiences, channels := len(d.Audiences), len(d.Channels)
	if audiences == 0 || channels == 0 {
		p.EstimatedReach = unknownValue
		p.EngagementRate = unknownValue
		p.Conversions = unknownValue
		return p
	}

	reach := float64(audiences * channels * reachPerPair)
	engagement := math.Min(2.5+0.5*float64(channels), 5)
	if len([]rune(strings.TrimSpace(d.KeyMessages))) >= 50 {
		engagement++
	}
	conversions := reach * engagement / 100 * 0.10

	p.EstimatedReach = formatRange(reach)
	p.EngagementRate = fmt.Sprintf("%.1f%%", engagement)
	p.Conversions = formatRange(conversions)
	return p
}

// formatRange renders v ±20%.
func formatRange(v float64) string {
	return compact(v*0.8) + "–" + compact(v*1.2)
}

func compact(v float64) string {
	switch {
	case v >= 1e6:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", v/1e6), ".0") + "M"
	case v >= 1e3:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", v/1e3), ".0") + "K"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

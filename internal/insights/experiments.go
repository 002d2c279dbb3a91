package insights

import (
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
)

// SuggestExperiments proposes tests that make sense for the draft. There is
// always at least one suggestion.
func SuggestExperiments(d domain.Draft) []ExperimentSuggestion {
	f := extractFeatures(d)
	var out []ExperimentSuggestion

	if f.channels["email"] {
		out = append(out, ExperimentSuggestion{
			ID:           "exp-subject-line",
			Name:         "Subject line A/B test",
			Type:         "ab_test",
			Hypothesis:   "A benefit-led subject line will lift open rates over a curiosity-led one.",
			Variants:     []string{"Benefit-led", "Curiosity-led"},
			ExpectedLift: "5-10% open rate",
		})
	}
	if len(d.Audiences) >= 2 {
		out = append(out, ExperimentSuggestion{
			ID:           "exp-audience-messaging",
			Name:         "Audience-tailored messaging",
			Type:         "segmentation",
			Hypothesis:   "Messaging tailored to " + d.Audiences[0] + " and " + d.Audiences[1] + " will outperform a single shared message.",
			Variants:     []string{"Shared message", "Tailored per audience"},
			ExpectedLift: "8-15% engagement",
		})
	}
	if len(d.Channels) >= 2 {
		out = append(out, ExperimentSuggestion{
			ID:           "exp-channel-mix",
			Name:         "Channel budget split",
			Type:         "multivariate",
			Hypothesis:   "Shifting spend toward the best performing of " + strings.Join(d.Channels, ", ") + " mid-flight will lower cost per conversion.",
			Variants:     []string{"Even split", "Performance weighted"},
			ExpectedLift: "10-20% cost efficiency",
		})
	}
	if strings.TrimSpace(d.KeyMessages) != "" {
		out = append(out, ExperimentSuggestion{
			ID:           "exp-message-framing",
			Name:         "Message framing test",
			Type:         "ab_test",
			Hypothesis:   "Urgency framing of the key message will convert better than value framing.",
			Variants:     []string{"Value framing", "Urgency framing"},
			ExpectedLift: "3-8% conversion",
		})
	}
	if f.channels["web"] && strings.ContainsAny(d.Goals, "0123456789%") {
		out = append(out, ExperimentSuggestion{
			ID:           "exp-landing-cta",
			Name:         "Landing page CTA test",
			Type:         "ab_test",
			Hypothesis:   "A single prominent call to action will move the goal metric more than multiple options.",
			Variants:     []string{"Single CTA", "Multiple CTAs"},
			ExpectedLift: "5-12% click-through",
		})
	}
	if len(out) == 0 {
		out = append(out, ExperimentSuggestion{
			ID:           "exp-send-time",
			Name:         "Send time optimization",
			Type:         "ab_test",
			Hypothesis:   "Morning delivery will engage better than evening delivery.",
			Variants:     []string{"Morning", "Evening"},
			ExpectedLift: "2-5% engagement",
		})
	}
	return out
}

// Package creation implements the guided campaign-creation flow: the
// question catalog, the free-text response parser and the step machine
// that ties them together.
package creation

import (
	"fmt"
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
	"github.com/osteele/liquid"
)

const (
	titleTemplate = `{% if rec %}Great choice! Let's build on "{{ rec.title }}".

{% endif %}What would you like to call this campaign?{% if rec %} For example: "{{ rec.title }}".{% endif %}`

	keyMessagesTemplate = `{% if title %}"{{ title }}" it is! {% endif %}What are the key messages you want this campaign to communicate?`

	goalsTemplate = `What are the goals of this campaign? Specific, measurable goals (e.g. "increase sign-ups by 20%") work best.`

	audiencesTemplate = `Who is the target audience? Separate multiple audiences with commas.{% if rec.audiences %}

Suggested for this idea: {{ rec.audiences | join: ", " }}{% endif %}`

	datesTemplate = `When should {% if title %}"{{ title }}"{% else %}the campaign{% endif %} run? You can give dates like 6/1/2025 - 6/30/2025, or say "next week" or "for a month".`

	contributorsTemplate = `Who will contribute to this campaign? List names separated by commas.`

	budgetTemplate = `What's the budget for this campaign? Ranges like $10K-20K are fine.{% if rec.budget %}

Estimated budget for this idea: {{ rec.budget }}{% endif %}`

	channelsTemplate = `Which channels will you use? (e.g. Email, Social, Web){% if rec.channels %}

Suggested for this idea: {{ rec.channels | join: ", " }}{% endif %}`

	marketResearchTemplate = `Do you have any market research or customer insights to include? Type "skip" if not.`

	brandKitTemplate = `Which brand kit should this campaign follow? Type "skip" to decide later.`

	reviewTemplate = `Here's a summary of your campaign:

**Title:** {{ title }}
**Key messages:** {{ key_messages }}
**Goals:** {{ goals }}
**Audiences:** {{ audiences }}
**Dates:** {{ start_date }} to {{ end_date }}
**Contributors:** {{ contributors }}
**Budget:** {{ budget }}
**Channels:** {{ channels }}
**Market research:** {{ market_research }}
**Brand kit:** {{ brand_kit }}

Type "create campaign" to confirm, or tell me what to change (e.g. "budget: $15K").`

	completeTemplate = `🎉 Your campaign{% if title %} "{{ title }}"{% endif %} is ready to be created!`
)

const notSet = "Not set"

// Catalog renders the prompt text for each creation step. It is safe for
// concurrent use.
type Catalog struct {
	templates map[domain.StepID]*liquid.Template
}

// NewCatalog parses the step templates. It panics if a built-in template
// does not compile.
func NewCatalog() *Catalog {
	engine := liquid.NewEngine()
	sources := map[domain.StepID]string{
		domain.StepTitle:          titleTemplate,
		domain.StepKeyMessages:    keyMessagesTemplate,
		domain.StepGoals:          goalsTemplate,
		domain.StepAudiences:      audiencesTemplate,
		domain.StepDates:          datesTemplate,
		domain.StepContributors:   contributorsTemplate,
		domain.StepBudget:         budgetTemplate,
		domain.StepChannels:       channelsTemplate,
		domain.StepMarketResearch: marketResearchTemplate,
		domain.StepBrandKit:       brandKitTemplate,
		domain.StepReview:         reviewTemplate,
		domain.StepComplete:       completeTemplate,
	}
	c := &Catalog{templates: make(map[domain.StepID]*liquid.Template, len(sources))}
	for step, src := range sources {
		tpl, err := engine.ParseString(src)
		if err != nil {
			panic(fmt.Sprintf("creation: parse %s template: %v", step, err))
		}
		c.templates[step] = tpl
	}
	return c
}

// Question returns the prompt for step. rec is the recommendation the user
// picked, if any. The recommendations step has no prompt of its own.
func (c *Catalog) Question(step domain.StepID, draft domain.Draft, rec *domain.Recommendation) string {
	var bindings liquid.Bindings
	switch step {
	case domain.StepRecommendations:
		return ""
	case domain.StepTitle, domain.StepAudiences, domain.StepBudget, domain.StepChannels:
		bindings = draftBindings(draft)
		if rec != nil {
			bindings["rec"] = recommendationBindings(rec)
		}
	case domain.StepKeyMessages, domain.StepGoals, domain.StepDates, domain.StepContributors,
		domain.StepMarketResearch, domain.StepBrandKit, domain.StepComplete:
		bindings = draftBindings(draft)
	case domain.StepReview:
		bindings = reviewBindings(draft)
	default:
		return "What would you like to do next?"
	}

	out, err := c.templates[step].RenderString(bindings)
	if err != nil {
		logger.Warn("question template render failed", "step", string(step), "error", err.Error())
		return fallbackQuestion(step)
	}
	return out
}

// draftBindings exposes only the non-empty draft fields so that Liquid
// treats unset values as falsy.
func draftBindings(d domain.Draft) liquid.Bindings {
	b := liquid.Bindings{}
	if d.Title != "" {
		b["title"] = d.Title
	}
	if d.StartDate != "" {
		b["start_date"] = d.StartDate
	}
	if d.EndDate != "" {
		b["end_date"] = d.EndDate
	}
	return b
}

func recommendationBindings(rec *domain.Recommendation) map[string]any {
	m := map[string]any{"title": rec.Title}
	if len(rec.SuggestedAudiences) > 0 {
		m["audiences"] = rec.SuggestedAudiences
	}
	if len(rec.SuggestedChannels) > 0 {
		m["channels"] = rec.SuggestedChannels
	}
	if rec.EstimatedBudget != "" {
		m["budget"] = rec.EstimatedBudget
	}
	return m
}

func reviewBindings(d domain.Draft) liquid.Bindings {
	return liquid.Bindings{
		"title":           orNotSet(d.Title),
		"key_messages":    orNotSet(d.KeyMessages),
		"goals":           orNotSet(d.Goals),
		"audiences":       orNotSet(strings.Join(d.Audiences, ", ")),
		"start_date":      orNotSet(d.StartDate),
		"end_date":        orNotSet(d.EndDate),
		"contributors":    orNotSet(strings.Join(d.Contributors, ", ")),
		"budget":          orNotSet(d.Budget),
		"channels":        orNotSet(strings.Join(d.Channels, ", ")),
		"market_research": orNotSet(d.MarketResearch),
		"brand_kit":       orNotSet(d.BrandKit),
	}
}

func orNotSet(s string) string {
	if s == "" {
		return notSet
	}
	return s
}

func fallbackQuestion(step domain.StepID) string {
	switch step {
	case domain.StepReview:
		return `Please review your campaign. Type "create campaign" to confirm.`
	case domain.StepComplete:
		return "Your campaign is ready to be created!"
	default:
		return fmt.Sprintf("Please provide the campaign %s.", strings.ReplaceAll(string(step), "_", " "))
	}
}

package creation_test

import (
	"testing"

	"github.com/ignite/campaign-manager/internal/creation"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleRecommendation() *domain.Recommendation {
	return &domain.Recommendation{
		ID:                 "r1",
		Title:              "Build on the success of Holiday Guide",
		SuggestedAudiences: []string{"Parents", "Gift Shoppers"},
		SuggestedChannels:  []string{"Email", "Web"},
		EstimatedBudget:    "$20K-30K",
	}
}

func TestQuestion_EveryStepHasText(t *testing.T) {
	c := creation.NewCatalog()
	for _, step := range domain.Steps {
		q := c.Question(step, domain.Draft{}, nil)
		if step == domain.StepRecommendations {
			assert.Empty(t, q)
			continue
		}
		assert.NotEmpty(t, q, step)
	}
}

func TestQuestion_Deterministic(t *testing.T) {
	c := creation.NewCatalog()
	d := domain.Draft{Title: "Summer Sale"}
	for _, step := range domain.Steps {
		assert.Equal(t, c.Question(step, d, sampleRecommendation()), c.Question(step, d, sampleRecommendation()))
	}
}

func TestQuestion_RecommendationSuggestions(t *testing.T) {
	c := creation.NewCatalog()
	rec := sampleRecommendation()

	title := c.Question(domain.StepTitle, domain.Draft{}, rec)
	assert.Contains(t, title, `"Build on the success of Holiday Guide"`)
	assert.Contains(t, title, "Great choice!")

	assert.Contains(t, c.Question(domain.StepAudiences, domain.Draft{}, rec), "Parents, Gift Shoppers")
	assert.Contains(t, c.Question(domain.StepChannels, domain.Draft{}, rec), "Email, Web")
	assert.Contains(t, c.Question(domain.StepBudget, domain.Draft{}, rec), "$20K-30K")

	plain := c.Question(domain.StepTitle, domain.Draft{}, nil)
	assert.NotContains(t, plain, "Great choice")
	assert.NotContains(t, c.Question(domain.StepAudiences, domain.Draft{}, nil), "Suggested")
}

func TestQuestion_PartialRecommendation(t *testing.T) {
	c := creation.NewCatalog()
	rec := &domain.Recommendation{Title: "Ride the Sustainability trend"}

	assert.NotContains(t, c.Question(domain.StepBudget, domain.Draft{}, rec), "Estimated budget")
	assert.NotContains(t, c.Question(domain.StepAudiences, domain.Draft{}, rec), "Suggested")
}

func TestQuestion_EchoesDraft(t *testing.T) {
	c := creation.NewCatalog()
	d := domain.Draft{Title: "Summer Sale"}

	assert.Contains(t, c.Question(domain.StepKeyMessages, d, nil), `"Summer Sale" it is!`)
	assert.Contains(t, c.Question(domain.StepDates, d, nil), `"Summer Sale"`)
	assert.Contains(t, c.Question(domain.StepComplete, d, nil), `"Summer Sale"`)
	assert.Contains(t, c.Question(domain.StepDates, domain.Draft{}, nil), "the campaign")
}

func TestQuestion_ReviewSummary(t *testing.T) {
	c := creation.NewCatalog()
	d := domain.Draft{
		Title:     "Summer Sale",
		Audiences: []string{"Parents", "Students"},
		StartDate: "6/1/2025",
		EndDate:   "TBD",
		Budget:    "$10K-20K",
		Channels:  []string{"Email"},
	}
	q := c.Question(domain.StepReview, d, nil)
	assert.Contains(t, q, "**Title:** Summer Sale")
	assert.Contains(t, q, "**Audiences:** Parents, Students")
	assert.Contains(t, q, "**Dates:** 6/1/2025 to TBD")
	assert.Contains(t, q, "**Key messages:** Not set")
	assert.Contains(t, q, `"create campaign"`)
}

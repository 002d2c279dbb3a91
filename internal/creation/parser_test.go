package creation_test

import (
	"testing"
	"time"

	"github.com/ignite/campaign-manager/internal/creation"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)

func fixedParser() *creation.Parser {
	return creation.NewParserWithClock(func() time.Time { return fixedNow })
}

func TestParseResponse_TitleBoundary(t *testing.T) {
	p := fixedParser()

	res := p.ParseResponse(domain.StepTitle, "ab", domain.Draft{})
	assert.False(t, res.IsValid)
	assert.Equal(t, creation.ErrTitleTooShort, res.ErrorMessage)
	assert.Empty(t, res.Draft.Title)

	res = p.ParseResponse(domain.StepTitle, "abc", domain.Draft{})
	assert.True(t, res.IsValid)
	assert.Equal(t, "abc", res.Draft.Title)

	res = p.ParseResponse(domain.StepTitle, "   ab   ", domain.Draft{})
	assert.False(t, res.IsValid, "length is measured after trimming")

	res = p.ParseResponse(domain.StepTitle, "été", domain.Draft{})
	assert.True(t, res.IsValid, "length counts characters, not bytes")
}

func TestParseResponse_SkipAnyStepAnyCase(t *testing.T) {
	p := fixedParser()
	current := domain.Draft{Title: "Existing", Channels: []string{"Web"}}

	for _, step := range domain.Steps {
		for _, word := range []string{"skip", "SKIP", " None ", "nOnE"} {
			res := p.ParseResponse(step, word, current)
			assert.True(t, res.IsValid, "%s/%q", step, word)
			assert.Empty(t, res.ErrorMessage)
			assert.Equal(t, current, res.Draft, "%s/%q", step, word)
		}
	}
}

func TestParseResponse_VerbatimFields(t *testing.T) {
	p := fixedParser()
	in := "  Eco friendly, durable, affordable  "

	res := p.ParseResponse(domain.StepKeyMessages, in, domain.Draft{})
	assert.Equal(t, "Eco friendly, durable, affordable", res.Draft.KeyMessages)
	res = p.ParseResponse(domain.StepGoals, "x", domain.Draft{})
	assert.Equal(t, "x", res.Draft.Goals, "no length constraint")
	res = p.ParseResponse(domain.StepMarketResearch, "Survey Q2", domain.Draft{})
	assert.Equal(t, "Survey Q2", res.Draft.MarketResearch)
	res = p.ParseResponse(domain.StepBrandKit, "Acme Core", domain.Draft{})
	assert.Equal(t, "Acme Core", res.Draft.BrandKit)
}

func TestParseResponse_Lists(t *testing.T) {
	p := fixedParser()
	tests := []struct {
		step domain.StepID
		in   string
		want []string
	}{
		{domain.StepChannels, "Web, Email,  Social", []string{"Web", "Email", "Social"}},
		{domain.StepAudiences, "Parents,, Students , ", []string{"Parents", "Students"}},
		{domain.StepContributors, "Ana, Ana", []string{"Ana", "Ana"}},
	}
	for _, tt := range tests {
		res := p.ParseResponse(tt.step, tt.in, domain.Draft{})
		require.True(t, res.IsValid)
		d := res.Draft
		var got []string
		switch tt.step {
		case domain.StepChannels:
			got = d.Channels
		case domain.StepAudiences:
			got = d.Audiences
		case domain.StepContributors:
			got = d.Contributors
		}
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseResponse_Dates(t *testing.T) {
	p := fixedParser()
	tests := []struct {
		name      string
		in        string
		start     string
		end       string
		initStart string
		initEnd   string
	}{
		{name: "two slash dates", in: "6/1/2025 - 6/30/2025", start: "6/1/2025", end: "6/30/2025"},
		{name: "fallback", in: "sometime in spring", start: "sometime in spring", end: "TBD"},
		{name: "next week", in: "starting next week", start: "2025-06-09", end: ""},
		{name: "for a month", in: "run it for a month", start: "", end: "2025-06-30"},
		{name: "4 weeks", in: "4 weeks", start: "", end: "2025-06-30"},
		{name: "6 weeks", in: "next week for 6 weeks", start: "2025-06-09", end: "2025-07-14"},
		{name: "keeps unrelated bound", in: "for a month", initStart: "6/1/2025", start: "6/1/2025", end: "2025-06-30"},
		{name: "single slash date falls back", in: "6/1/2025", start: "6/1/2025", end: "TBD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.ParseResponse(domain.StepDates, tt.in, domain.Draft{StartDate: tt.initStart, EndDate: tt.initEnd})
			require.True(t, res.IsValid)
			assert.Equal(t, tt.start, res.Draft.StartDate)
			assert.Equal(t, tt.end, res.Draft.EndDate)
		})
	}
}

func TestParseResponse_Budget(t *testing.T) {
	p := fixedParser()
	tests := []struct{ in, want string }{
		{"$10K-20K", "$10K-20K"},
		{"about $15,000.50 total", "$15,000.50"},
		{"2m USD", "2m"},
		{"budget is 5k", "5k"},
	}
	for _, tt := range tests {
		res := p.ParseResponse(domain.StepBudget, tt.in, domain.Draft{})
		require.True(t, res.IsValid)
		assert.Equal(t, tt.want, res.Draft.Budget, tt.in)
	}
}

func TestParseResponse_ReviewDoesNotMutate(t *testing.T) {
	current := domain.Draft{Title: "Summer Sale"}
	res := fixedParser().ParseResponse(domain.StepReview, "title: Winter", current)
	assert.True(t, res.IsValid)
	assert.Equal(t, current, res.Draft)
}

func TestParseResponse_DoesNotAliasInput(t *testing.T) {
	current := domain.Draft{Channels: []string{"Web"}}
	res := fixedParser().ParseResponse(domain.StepGoals, "grow", current)
	res.Draft.Channels[0] = "Changed"
	assert.Equal(t, "Web", current.Channels[0])
}

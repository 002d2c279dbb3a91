package creation

import (
	"regexp"
	"strings"
	"time"

	"github.com/ignite/campaign-manager/internal/domain"
)

// ErrTitleTooShort is the user-facing message for titles under three characters.
const ErrTitleTooShort = "Please provide a campaign title with at least 3 characters."

const pendingEndDate = "TBD"

var (
	slashDateRe   = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	budgetStripRe = regexp.MustCompile(`[^0-9$,.\-kKmM\s]`)
)

// ParseResult is the outcome of parsing one user response.
type ParseResult struct {
	Draft        domain.Draft
	IsValid      bool
	ErrorMessage string
}

// Parser turns free-text answers into draft updates. The clock is
// injectable so relative dates are testable.
type Parser struct {
	now func() time.Time
}

// NewParser returns a parser using the wall clock.
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// NewParserWithClock returns a parser that resolves relative dates against now.
func NewParserWithClock(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// IsSkip reports whether text is the skip/none escape hatch.
func IsSkip(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "skip" || t == "none"
}

// ParseResponse applies raw to the draft field owned by step. It never
// fails loudly: invalid input yields IsValid=false and a message meant for
// the user, with the draft unchanged.
func (p *Parser) ParseResponse(step domain.StepID, raw string, current domain.Draft) ParseResult {
	text := strings.TrimSpace(raw)
	draft := current.Clone()
	if IsSkip(text) {
		return ParseResult{Draft: draft, IsValid: true}
	}

	switch step {
	case domain.StepTitle:
		if len([]rune(text)) < 3 {
			return ParseResult{Draft: draft, IsValid: false, ErrorMessage: ErrTitleTooShort}
		}
		draft.Title = text
	case domain.StepKeyMessages:
		draft.KeyMessages = text
	case domain.StepGoals:
		draft.Goals = text
	case domain.StepMarketResearch:
		draft.MarketResearch = text
	case domain.StepBrandKit:
		draft.BrandKit = text
	case domain.StepAudiences:
		draft.Audiences = SplitList(text)
	case domain.StepContributors:
		draft.Contributors = SplitList(text)
	case domain.StepChannels:
		draft.Channels = SplitList(text)
	case domain.StepDates:
		draft.StartDate, draft.EndDate = p.parseDates(text, draft.StartDate, draft.EndDate)
	case domain.StepBudget:
		draft.Budget = strings.TrimSpace(budgetStripRe.ReplaceAllString(text, ""))
	case domain.StepRecommendations, domain.StepReview, domain.StepComplete:
		// selection and confirmation are interpreted by the machine
	}
	return ParseResult{Draft: draft, IsValid: true}
}

// SplitList splits a comma separated answer, trimming entries and dropping
// empty ones. Order and duplicates are kept.
func SplitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (p *Parser) parseDates(text, start, end string) (string, string) {
	if tokens := slashDateRe.FindAllString(text, 2); len(tokens) == 2 {
		return tokens[0], tokens[1]
	}

	lower := strings.ToLower(text)
	now := p.now()
	matched := false
	if strings.Contains(lower, "next week") {
		start = formatDate(now.AddDate(0, 0, 7))
		matched = true
	}
	switch {
	case strings.Contains(lower, "6 weeks"):
		end = formatDate(now.AddDate(0, 0, 42))
		matched = true
	case strings.Contains(lower, "month"), strings.Contains(lower, "4 weeks"):
		end = formatDate(now.AddDate(0, 0, 28))
		matched = true
	}
	if matched {
		return start, end
	}
	return text, pendingEndDate
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

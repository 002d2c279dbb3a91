package creation

import (
	"regexp"
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/recommendation"
)

var (
	confirmRe    = regexp.MustCompile(`(?i)\b(create|confirm|yes)\b`)
	reviewEditRe = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z _-]*?)\s*:\s*(.+)$`)
)

const reviewHint = `I didn't see a confirmation. `

// Reply is the assistant message produced by a transition.
type Reply struct {
	Content  string
	Metadata *domain.MessageMetadata
}

// Transition is the result of feeding one user message to the machine.
// Reply is nil when the machine has nothing to say (see Advance).
type Transition struct {
	Session   domain.CreationSession
	Reply     *Reply
	Completed bool
}

// Machine drives a creation session through the fixed step order.
type Machine struct {
	catalog *Catalog
	parser  *Parser
}

// NewMachine composes a machine from its catalog and parser.
func NewMachine(catalog *Catalog, parser *Parser) *Machine {
	return &Machine{catalog: catalog, parser: parser}
}

// Catalog returns the question catalog used by the machine.
func (m *Machine) Catalog() *Catalog { return m.catalog }

// NextStep returns the successor of current, clamping at complete.
func NextStep(current domain.StepID) domain.StepID {
	switch current {
	case domain.StepRecommendations:
		return domain.StepTitle
	case domain.StepTitle:
		return domain.StepKeyMessages
	case domain.StepKeyMessages:
		return domain.StepGoals
	case domain.StepGoals:
		return domain.StepAudiences
	case domain.StepAudiences:
		return domain.StepDates
	case domain.StepDates:
		return domain.StepContributors
	case domain.StepContributors:
		return domain.StepBudget
	case domain.StepBudget:
		return domain.StepChannels
	case domain.StepChannels:
		return domain.StepMarketResearch
	case domain.StepMarketResearch:
		return domain.StepBrandKit
	case domain.StepBrandKit:
		return domain.StepReview
	case domain.StepReview, domain.StepComplete:
		return domain.StepComplete
	default:
		return domain.StepComplete
	}
}

// Advance consumes one user message. It never returns an error: invalid
// answers produce a corrective reply with the step unchanged.
//
// At the recommendations step an unresolvable selection (an out of range
// "second option") yields no transition and a nil Reply; the caller is
// expected to re-prompt.
func (m *Machine) Advance(session domain.CreationSession, text string) Transition {
	s := session.Clone()
	switch s.CurrentStep {
	case domain.StepRecommendations:
		return m.advanceSelection(s, text)
	case domain.StepReview:
		return m.advanceReview(s, text)
	case domain.StepComplete:
		return Transition{Session: s}
	}

	res := m.parser.ParseResponse(s.CurrentStep, text, s.Draft)
	if !res.IsValid {
		return Transition{Session: s, Reply: &Reply{
			Content:  res.ErrorMessage,
			Metadata: &domain.MessageMetadata{Type: domain.MessageQuestion, QuestionType: s.CurrentStep},
		}}
	}
	s.Draft = res.Draft
	s.CurrentStep = NextStep(s.CurrentStep)
	return Transition{Session: s, Reply: m.questionReply(s)}
}

func (m *Machine) advanceSelection(s domain.CreationSession, text string) Transition {
	sel := recommendation.ResolveSelection(text, s.Recommendations)
	switch {
	case sel.Selected != nil:
		rec := *sel.Selected
		s.SelectedRecommendation = &rec
	case sel.IsCustom:
		s.SelectedRecommendation = nil
	default:
		return Transition{Session: s}
	}
	s.CurrentStep = domain.StepTitle
	return Transition{Session: s, Reply: m.questionReply(s)}
}

func (m *Machine) advanceReview(s domain.CreationSession, text string) Transition {
	if step, value, ok := parseReviewEdit(text); ok {
		res := m.parser.ParseResponse(step, value, s.Draft)
		if !res.IsValid {
			return Transition{Session: s, Reply: &Reply{
				Content:  res.ErrorMessage,
				Metadata: &domain.MessageMetadata{Type: domain.MessageQuestion, QuestionType: domain.StepReview},
			}}
		}
		s.Draft = res.Draft
		return Transition{Session: s, Reply: m.questionReply(s)}
	}

	if IsConfirmation(text) {
		s.CurrentStep = domain.StepComplete
		draft := s.Draft.Clone()
		return Transition{
			Session:   s,
			Completed: true,
			Reply: &Reply{
				Content:  m.catalog.Question(domain.StepComplete, s.Draft, s.SelectedRecommendation),
				Metadata: &domain.MessageMetadata{Type: domain.MessageConfirmation, CampaignDraft: &draft},
			},
		}
	}

	// review is the one step skip does not advance: only a confirmation completes it
	reply := m.questionReply(s)
	reply.Content = reviewHint + reply.Content
	return Transition{Session: s, Reply: reply}
}

// IsConfirmation reports whether text confirms the reviewed draft.
func IsConfirmation(text string) bool {
	return confirmRe.MatchString(text)
}

func (m *Machine) questionReply(s domain.CreationSession) *Reply {
	meta := &domain.MessageMetadata{Type: domain.MessageQuestion, QuestionType: s.CurrentStep}
	if s.CurrentStep == domain.StepReview {
		draft := s.Draft.Clone()
		meta.CampaignDraft = &draft
	}
	return &Reply{
		Content:  m.catalog.Question(s.CurrentStep, s.Draft, s.SelectedRecommendation),
		Metadata: meta,
	}
}

// parseReviewEdit recognizes "<field>: <value>" edits typed at review.
func parseReviewEdit(text string) (domain.StepID, string, bool) {
	match := reviewEditRe.FindStringSubmatch(text)
	if match == nil {
		return "", "", false
	}
	step, ok := fieldStep(match[1])
	if !ok {
		return "", "", false
	}
	return step, match[2], true
}

func fieldStep(name string) (domain.StepID, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	switch key {
	case "title", "name":
		return domain.StepTitle, true
	case "key messages", "key message", "messages":
		return domain.StepKeyMessages, true
	case "goals", "goal":
		return domain.StepGoals, true
	case "audiences", "audience":
		return domain.StepAudiences, true
	case "dates", "date":
		return domain.StepDates, true
	case "contributors", "contributor":
		return domain.StepContributors, true
	case "budget":
		return domain.StepBudget, true
	case "channels", "channel":
		return domain.StepChannels, true
	case "market research", "research":
		return domain.StepMarketResearch, true
	case "brand kit", "brand":
		return domain.StepBrandKit, true
	default:
		return "", false
	}
}

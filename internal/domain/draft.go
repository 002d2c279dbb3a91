package domain

// StepID identifies a stage of the guided campaign-creation flow. Steps are
// totally ordered; see Steps.
type StepID string

const (
	StepRecommendations StepID = "recommendations"
	StepTitle           StepID = "title"
	StepKeyMessages     StepID = "key_messages"
	StepGoals           StepID = "goals"
	StepAudiences       StepID = "audiences"
	StepDates           StepID = "dates"
	StepContributors    StepID = "contributors"
	StepBudget          StepID = "budget"
	StepChannels        StepID = "channels"
	StepMarketResearch  StepID = "market_research"
	StepBrandKit        StepID = "brand_kit"
	StepReview          StepID = "review"
	StepComplete        StepID = "complete"
)

// Steps is the fixed creation order.
var Steps = []StepID{
	StepRecommendations,
	StepTitle,
	StepKeyMessages,
	StepGoals,
	StepAudiences,
	StepDates,
	StepContributors,
	StepBudget,
	StepChannels,
	StepMarketResearch,
	StepBrandKit,
	StepReview,
	StepComplete,
}

// Index returns the position of s in Steps, or -1 for an unknown step.
func (s StepID) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the known steps.
func (s StepID) Valid() bool { return s.Index() >= 0 }

// Draft is the partially filled campaign record built by the guided
// conversation. An empty string or nil slice means the field is unset.
type Draft struct {
	Title          string   `json:"title,omitempty"`
	KeyMessages    string   `json:"key_messages,omitempty"`
	Goals          string   `json:"goals,omitempty"`
	Audiences      []string `json:"audiences,omitempty"`
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
	Contributors   []string `json:"contributors,omitempty"`
	Budget         string   `json:"budget,omitempty"`
	Channels       []string `json:"channels,omitempty"`
	MarketResearch string   `json:"market_research,omitempty"`
	BrandKit       string   `json:"brand_kit,omitempty"`
}

// Clone returns a deep copy so the result can be handed to readers that
// must never observe later mutations.
func (d Draft) Clone() Draft {
	d.Audiences = cloneStrings(d.Audiences)
	d.Contributors = cloneStrings(d.Contributors)
	d.Channels = cloneStrings(d.Channels)
	return d
}

// IsEmpty reports whether no field has been set.
func (d Draft) IsEmpty() bool {
	return d.Title == "" && d.KeyMessages == "" && d.Goals == "" &&
		len(d.Audiences) == 0 && d.StartDate == "" && d.EndDate == "" &&
		len(d.Contributors) == 0 && d.Budget == "" && len(d.Channels) == 0 &&
		d.MarketResearch == "" && d.BrandKit == ""
}

// DraftPatch carries a partial edit of a draft made outside the
// conversation (for example from the wizard form). Nil fields are left alone.
type DraftPatch struct {
	Title          *string   `json:"title,omitempty"`
	KeyMessages    *string   `json:"key_messages,omitempty"`
	Goals          *string   `json:"goals,omitempty"`
	Audiences      *[]string `json:"audiences,omitempty"`
	StartDate      *string   `json:"start_date,omitempty"`
	EndDate        *string   `json:"end_date,omitempty"`
	Contributors   *[]string `json:"contributors,omitempty"`
	Budget         *string   `json:"budget,omitempty"`
	Channels       *[]string `json:"channels,omitempty"`
	MarketResearch *string   `json:"market_research,omitempty"`
	BrandKit       *string   `json:"brand_kit,omitempty"`
}

// Apply returns a copy of d with the non-nil patch fields applied.
func (p DraftPatch) Apply(d Draft) Draft {
	out := d.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.KeyMessages != nil {
		out.KeyMessages = *p.KeyMessages
	}
	if p.Goals != nil {
		out.Goals = *p.Goals
	}
	if p.Audiences != nil {
		out.Audiences = cloneStrings(*p.Audiences)
	}
	if p.StartDate != nil {
		out.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		out.EndDate = *p.EndDate
	}
	if p.Contributors != nil {
		out.Contributors = cloneStrings(*p.Contributors)
	}
	if p.Budget != nil {
		out.Budget = *p.Budget
	}
	if p.Channels != nil {
		out.Channels = cloneStrings(*p.Channels)
	}
	if p.MarketResearch != nil {
		out.MarketResearch = *p.MarketResearch
	}
	if p.BrandKit != nil {
		out.BrandKit = *p.BrandKit
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

package insights

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
)

const (
	brandBase         = 60
	toneBonus         = 8
	forbiddenPenalty  = 15
	alignedThreshold  = 70
	sparseTextMinimum = 20
)

var nonWordRe = regexp.MustCompile(`[^a-z0-9]+`)

// BrandGuideline is one brand kit's tone and vocabulary rules.
type BrandGuideline struct {
	Name      string   `yaml:"name" json:"name"`
	Tone      []string `yaml:"tone" json:"tone"`
	Forbidden []string `yaml:"forbidden" json:"forbidden"`
}

// BrandTable looks guidelines up by brand kit name, case-insensitively.
type BrandTable struct {
	kits    map[string]BrandGuideline
	generic BrandGuideline
}

// DefaultBrandGuidelines is used when configuration supplies none.
var DefaultBrandGuidelines = []BrandGuideline{
	{Name: "Acme Core", Tone: []string{"innovative", "reliable", "simple", "trusted"}, Forbidden: []string{"cheap", "guaranteed", "best ever"}},
	{Name: "Acme Eco", Tone: []string{"sustainable", "natural", "responsible", "green"}, Forbidden: []string{"plastic", "disposable", "limitless"}},
	{Name: "Acme Premium", Tone: []string{"exclusive", "crafted", "timeless", "premium"}, Forbidden: []string{"discount", "bargain", "cheap"}},
	{Name: "Acme Youth", Tone: []string{"fun", "bold", "fresh", "community"}, Forbidden: []string{"boring", "old-fashioned"}},
}

var genericGuideline = BrandGuideline{
	Name:      "General",
	Tone:      []string{"clear", "friendly", "helpful"},
	Forbidden: []string{"guaranteed", "risk-free"},
}

// NewBrandTable builds a table; an empty list means DefaultBrandGuidelines.
func NewBrandTable(kits []BrandGuideline) *BrandTable {
	if len(kits) == 0 {
		kits = DefaultBrandGuidelines
	}
	t := &BrandTable{kits: make(map[string]BrandGuideline, len(kits)), generic: genericGuideline}
	for _, k := range kits {
		t.kits[normalizeKey(k.Name)] = k
	}
	return t
}

// Lookup returns the guideline for name.
func (t *BrandTable) Lookup(name string) (BrandGuideline, bool) {
	g, ok := t.kits[normalizeKey(name)]
	return g, ok
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Score checks draft copy against the selected brand kit.
func (t *BrandTable) Score(d domain.Draft) BrandAlignment {
	kit := strings.TrimSpace(d.BrandKit)
	if kit == "" {
		return BrandAlignment{
			Suggestions: []string{"Choose a brand kit so your copy can be checked against brand guidelines."},
		}
	}

	out := BrandAlignment{BrandKit: kit}
	g, ok := t.Lookup(kit)
	if !ok {
		g = t.generic
		out.Issues = append(out.Issues, BrandIssue{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Brand kit %q has no guidelines on file; general guidelines were applied.", kit),
		})
	}

	raw := strings.TrimSpace(strings.Join([]string{d.Title, d.KeyMessages, d.Goals, d.MarketResearch}, " "))
	text := " " + strings.TrimSpace(nonWordRe.ReplaceAllString(strings.ToLower(raw), " ")) + " "

	score := brandBase
	for _, word := range g.Tone {
		if containsPhrase(text, word) {
			score += toneBonus
			out.ToneMatches = append(out.ToneMatches, word)
		}
	}
	for _, word := range g.Forbidden {
		if containsPhrase(text, word) {
			score -= forbiddenPenalty
			out.Issues = append(out.Issues, BrandIssue{
				Severity: SeverityError,
				Keyword:  word,
				Message:  fmt.Sprintf("%q conflicts with the %s brand guidelines.", word, g.Name),
			})
		}
	}
	out.Score = clampScore(score)
	out.IsAligned = out.Score >= alignedThreshold

	switch {
	case len([]rune(raw)) < sparseTextMinimum:
		out.Suggestions = append(out.Suggestions,
			"Add key messages and goals so brand alignment can be assessed.",
			fmt.Sprintf("Try words that match the %s tone: %s.", g.Name, strings.Join(g.Tone, ", ")))
	case len(out.ToneMatches) == 0:
		out.Suggestions = append(out.Suggestions,
			fmt.Sprintf("Your copy doesn't use the %s tone yet. Consider: %s.", g.Name, strings.Join(g.Tone, ", ")))
	}
	if hasErrors(out.Issues) {
		out.Suggestions = append(out.Suggestions, "Remove or rephrase the flagged words before launch.")
	}
	return out
}

// containsPhrase matches phrase on word boundaries of normalized text.
func containsPhrase(text, phrase string) bool {
	p := strings.TrimSpace(nonWordRe.ReplaceAllString(strings.ToLower(phrase), " "))
	if p == "" {
		return false
	}
	return strings.Contains(text, " "+p+" ")
}

func hasErrors(issues []BrandIssue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

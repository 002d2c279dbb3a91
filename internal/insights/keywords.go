package insights

import (
	"regexp"
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
)

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "our": true, "your": true,
	"this": true, "that": true, "from": true, "are": true, "was": true, "will": true,
	"into": true, "more": true, "all": true, "you": true, "can": true,
	"its": true, "has": true, "have": true, "about": true, "campaign": true,
}

// features is what the scorers read from a draft snapshot.
type features struct {
	keywords  map[string]bool
	channels  map[string]bool
	audiences []string
}

func extractFeatures(d domain.Draft) features {
	f := features{
		keywords:  extractKeywords(d.Title, d.KeyMessages, d.Goals, d.MarketResearch),
		channels:  make(map[string]bool, len(d.Channels)),
		audiences: d.Audiences,
	}
	for _, ch := range d.Channels {
		f.channels[strings.ToLower(strings.TrimSpace(ch))] = true
	}
	for _, a := range d.Audiences {
		for k := range extractKeywords(a) {
			f.keywords[k] = true
		}
	}
	return f
}

// extractKeywords lowercases and tokenizes texts, keeping words of three
// or more characters that are not stopwords.
func extractKeywords(texts ...string) map[string]bool {
	out := map[string]bool{}
	for _, t := range texts {
		for _, w := range wordRe.FindAllString(strings.ToLower(t), -1) {
			if len(w) < 3 || stopwords[w] {
				continue
			}
			out[w] = true
		}
	}
	return out
}

func (f features) tagHits(tags []string) []string {
	var hits []string
	for _, t := range tags {
		if f.keywords[t] {
			hits = append(hits, t)
		}
	}
	return hits
}

func (f features) channelHits(channels []string) []string {
	var hits []string
	for _, ch := range channels {
		if f.channels[strings.ToLower(ch)] {
			hits = append(hits, ch)
		}
	}
	return hits
}

func clampScore(n int) int {
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	default:
		return n
	}
}

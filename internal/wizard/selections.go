package wizard

import (
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/insights"
)

// Kind names a selectable insights list.
type Kind string

const (
	KindAudiences  Kind = "audiences"
	KindAssets     Kind = "assets"
	KindContent    Kind = "content"
	KindExperiment Kind = "experiment"
)

// ParseKind validates a selection kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindAudiences, KindAssets, KindContent, KindExperiment:
		return k, nil
	}
	return "", ErrUnknownKind
}

// Item is a chosen insights entry. Name and Channel are captured at
// selection time so later recomputes cannot change what was picked.
type Item struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Channel string `json:"channel,omitempty"`
}

// Selections is the user's explicit picks from the insights panels.
type Selections struct {
	Audiences  []Item `json:"audiences"`
	Assets     []Item `json:"assets"`
	Content    []Item `json:"content"`
	Experiment *Item  `json:"experiment,omitempty"`
}

func (s Selections) clone() Selections {
	s.Audiences = append([]Item(nil), s.Audiences...)
	s.Assets = append([]Item(nil), s.Assets...)
	s.Content = append([]Item(nil), s.Content...)
	if s.Experiment != nil {
		e := *s.Experiment
		s.Experiment = &e
	}
	return s
}

// toggle flips id in the list for kind. Selecting requires the item to be
// on offer in w; deselecting never does. It reports whether id is selected
// afterwards.
func (s *Selections) toggle(kind Kind, id string, w insights.WizardInsights) (bool, error) {
	switch kind {
	case KindExperiment:
		if s.Experiment != nil && s.Experiment.ID == id {
			s.Experiment = nil
			return false, nil
		}
		item, ok := findExperiment(w, id)
		if !ok {
			return false, ErrUnknownItem
		}
		s.Experiment = &item
		return true, nil
	case KindAudiences:
		return toggleList(&s.Audiences, id, func() (Item, bool) { return findAudience(w, id) })
	case KindAssets:
		return toggleList(&s.Assets, id, func() (Item, bool) { return findAsset(w, id) })
	case KindContent:
		return toggleList(&s.Content, id, func() (Item, bool) { return findContent(w, id) })
	}
	return false, ErrUnknownKind
}

func toggleList(list *[]Item, id string, find func() (Item, bool)) (bool, error) {
	for i, it := range *list {
		if it.ID == id {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			return false, nil
		}
	}
	item, ok := find()
	if !ok {
		return false, ErrUnknownItem
	}
	*list = append(*list, item)
	return true, nil
}

func findAudience(w insights.WizardInsights, id string) (Item, bool) {
	for _, s := range w.AudienceReach.Segments {
		if s.ID == id {
			return Item{ID: s.ID, Name: s.Name}, true
		}
	}
	return Item{}, false
}

func findAsset(w insights.WizardInsights, id string) (Item, bool) {
	for _, a := range w.RecommendedAssets {
		if a.ID == id {
			return Item{ID: a.ID, Name: a.Name}, true
		}
	}
	return Item{}, false
}

func findContent(w insights.WizardInsights, id string) (Item, bool) {
	for _, c := range w.RecommendedContent {
		if c.ID == id {
			return Item{ID: c.ID, Name: c.Title, Channel: c.Channel}, true
		}
	}
	return Item{}, false
}

func findExperiment(w insights.WizardInsights, id string) (Item, bool) {
	for _, e := range w.ExperimentSuggestions {
		if e.ID == id {
			return Item{ID: e.ID, Name: e.Name}, true
		}
	}
	return Item{}, false
}

// Enrich merges selections into a copy of d: selected audience names join
// the audiences and selected content channels join the channels, without
// duplicates. Assets and the experiment do not map onto draft fields.
func Enrich(d domain.Draft, s Selections) domain.Draft {
	out := d.Clone()
	for _, a := range s.Audiences {
		out.Audiences = appendUnique(out.Audiences, a.Name)
	}
	for _, c := range s.Content {
		if c.Channel != "" {
			out.Channels = appendUnique(out.Channels, c.Channel)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(v)) {
			return list
		}
	}
	return append(list, v)
}

package wizard

import (
	"strings"
	"time"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/service/campaign"
)

// FallbackChannel is used when no recognised channel was chosen.
const FallbackChannel = "Email"

const defaultDuration = 30 * 24 * time.Hour

// KnownChannels are the channels the persistence schema accepts, keyed by
// lowercase name.
var KnownChannels = map[string]string{
	"email":   "Email",
	"social":  "Social",
	"web":     "Web",
	"search":  "Search",
	"display": "Display",
	"events":  "Events",
	"sms":     "SMS",
	"print":   "Print",
}

var dateLayouts = []string{"2006-01-02", "1/2/2006", "1/2/06", "2006/01/02", "January 2, 2006", "Jan 2, 2006"}

// MapDraftToFormData translates an enriched draft into the whitelisted
// persistence shape. Missing or unparseable start dates become today;
// missing, unparseable or pending end dates, and end dates before the
// start, become start + 30 days. Unrecognised channels are dropped.
// Key messages, goals and market research are not forwarded.
func MapDraftToFormData(d domain.Draft, now time.Time) campaign.FormData {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start, ok := parseDate(d.StartDate)
	if !ok {
		start = today
	}
	end, ok := parseDate(d.EndDate)
	if !ok || end.Before(start) {
		end = start.Add(defaultDuration)
	}

	return campaign.FormData{
		Title:        strings.TrimSpace(d.Title),
		StartDate:    start.Format("2006-01-02"),
		EndDate:      end.Format("2006-01-02"),
		Channels:     normalizeChannels(d.Channels),
		Budget:       strings.TrimSpace(d.Budget),
		Audiences:    append([]string(nil), d.Audiences...),
		Contributors: append([]string(nil), d.Contributors...),
		BrandKit:     strings.TrimSpace(d.BrandKit),
		Status:       string(domain.CampaignPlanned),
	}
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeChannels(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, ch := range in {
		name, ok := KnownChannels[strings.ToLower(strings.TrimSpace(ch))]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return []string{FallbackChannel}
	}
	return out
}

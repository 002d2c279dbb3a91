package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ignite/campaign-manager/internal/domain"
)

const (
	topAudiences = 5
	topAssets    = 6
	topContent   = 6
)

// ScoreAudienceReach ranks catalog segments against the draft and returns
// the best five with their combined size.
func ScoreAudienceReach(d domain.Draft) AudienceReach {
	f := extractFeatures(d)
	segments := make([]AudienceSegment, 0, len(segmentCatalog))
	for _, s := range segmentCatalog {
		score := 20
		var reasons []string
		if named := namedAudience(d.Audiences, s.name); named != "" {
			score += 40
			reasons = append(reasons, fmt.Sprintf("matches your audience %q", named))
		}
		if tags := f.tagHits(s.tags); len(tags) > 0 {
			score += 12 * len(tags)
			reasons = append(reasons, "interested in "+strings.Join(tags, ", "))
		}
		if chans := f.channelHits(s.channels); len(chans) > 0 {
			score += 8 * len(chans)
			reasons = append(reasons, "reachable via "+strings.Join(chans, ", "))
		}
		segments = append(segments, AudienceSegment{
			ID:         s.id,
			Name:       s.name,
			Size:       s.size,
			MatchScore: clampScore(score),
			Channels:   append([]string(nil), s.channels...),
			Reasons:    reasons,
		})
	}
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].MatchScore > segments[j].MatchScore })
	if len(segments) > topAudiences {
		segments = segments[:topAudiences]
	}

	total := 0
	for _, s := range segments {
		total += s.Size
	}
	return AudienceReach{Segments: segments, TotalReach: total}
}

// namedAudience returns the draft audience that names segment, if any.
func namedAudience(audiences []string, segment string) string {
	seg := strings.ToLower(segment)
	for _, a := range audiences {
		la := strings.ToLower(strings.TrimSpace(a))
		if la == "" {
			continue
		}
		if strings.Contains(seg, la) || strings.Contains(la, seg) {
			return a
		}
	}
	return ""
}

// RecommendAssets ranks the asset catalog and returns the top six.
func RecommendAssets(d domain.Draft) []AssetRecommendation {
	f := extractFeatures(d)
	out := make([]AssetRecommendation, 0, len(assetCatalog))
	for _, a := range assetCatalog {
		tags := f.tagHits(a.tags)
		chans := f.channelHits(a.channels)
		score := 10 + 15*len(tags) + 12*len(chans)
		out = append(out, AssetRecommendation{
			ID:         a.id,
			Name:       a.name,
			Type:       a.kind,
			Channels:   append([]string(nil), a.channels...),
			MatchScore: clampScore(score),
			Reason:     matchReason(tags, chans),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	if len(out) > topAssets {
		out = out[:topAssets]
	}
	return out
}

// RecommendContent ranks the content catalog and returns the top six.
func RecommendContent(d domain.Draft) []ContentRecommendation {
	f := extractFeatures(d)
	out := make([]ContentRecommendation, 0, len(contentCatalog))
	for _, c := range contentCatalog {
		tags := f.tagHits(c.tags)
		chans := f.channelHits([]string{c.channel})
		score := 10 + 15*len(tags) + 20*len(chans)
		out = append(out, ContentRecommendation{
			ID:         c.id,
			Title:      c.title,
			Format:     c.format,
			Channel:    c.channel,
			MatchScore: clampScore(score),
			Reason:     matchReason(tags, chans),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	if len(out) > topContent {
		out = out[:topContent]
	}
	return out
}

func matchReason(tags, chans []string) string {
	var parts []string
	if len(tags) > 0 {
		parts = append(parts, "fits "+strings.Join(tags, ", "))
	}
	if len(chans) > 0 {
		parts = append(parts, "works on "+strings.Join(chans, ", "))
	}
	if len(parts) == 0 {
		return "general purpose"
	}
	return strings.Join(parts, "; ")
}

// Package trends turns RSS/Atom industry feeds into market trends for the
// recommendation engine.
package trends

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// DefaultKeywords are the marketing terms a feed item is scored against.
var DefaultKeywords = []string{
	"marketing", "campaign", "brand", "social", "video", "email", "personalization",
	"sustainability", "influencer", "customer", "engagement", "content", "ai",
}

// ErrNoFeeds is returned when every configured feed failed.
var ErrNoFeeds = errors.New("trends: no feed could be read")

var (
	spaceRe = regexp.MustCompile(`\s+`)
	wordRe  = regexp.MustCompile(`[a-z0-9]+`)
)

const descriptionLimit = 200

// FeedSource reads trends from a set of feed URLs.
type FeedSource struct {
	urls         []string
	keywords     []string
	itemsPerFeed int
	client       *http.Client
}

// Option customizes a FeedSource.
type Option func(*FeedSource)

// WithKeywords replaces DefaultKeywords.
func WithKeywords(keywords []string) Option {
	return func(s *FeedSource) { s.keywords = keywords }
}

// WithItemsPerFeed caps how many items are read from each feed.
func WithItemsPerFeed(n int) Option {
	return func(s *FeedSource) { s.itemsPerFeed = n }
}

// WithHTTPClient sets the client used to fetch feeds.
func WithHTTPClient(c *http.Client) Option {
	return func(s *FeedSource) { s.client = c }
}

// NewFeedSource returns a source over urls.
func NewFeedSource(urls []string, opts ...Option) *FeedSource {
	s := &FeedSource{
		urls:         urls,
		keywords:     DefaultKeywords,
		itemsPerFeed: 10,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trends fetches every feed concurrently. Individual feed failures are
// logged; ErrNoFeeds is returned only when all of them fail.
func (s *FeedSource) Trends(ctx context.Context) ([]domain.Trend, error) {
	if len(s.urls) == 0 {
		return nil, nil
	}

	results := make([][]domain.Trend, len(s.urls))
	failures := make([]error, len(s.urls))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, url := range s.urls {
		eg.Go(func() error {
			feed, err := s.parse(egCtx, url)
			if err != nil {
				logger.Warn("trend feed fetch failed", "url", url, "error", err.Error())
				failures[i] = err
				return nil
			}
			results[i] = s.toTrends(feed)
			return nil
		})
	}
	_ = eg.Wait()

	var out []domain.Trend
	failed := 0
	for i := range s.urls {
		if failures[i] != nil {
			failed++
			continue
		}
		out = append(out, results[i]...)
	}
	if failed == len(s.urls) {
		return nil, fmt.Errorf("%w: %w", ErrNoFeeds, errors.Join(failures...))
	}
	sortByRelevance(out)
	return out, nil
}

// gofeed.Parser keeps per-parse state, so each fetch gets its own.
func (s *FeedSource) parse(ctx context.Context, url string) (*gofeed.Feed, error) {
	p := gofeed.NewParser()
	p.Client = s.client
	p.UserAgent = "campaign-manager/1.0"
	return p.ParseURLWithContext(url, ctx)
}

func (s *FeedSource) toTrends(feed *gofeed.Feed) []domain.Trend {
	items := feed.Items
	if s.itemsPerFeed > 0 && len(items) > s.itemsPerFeed {
		items = items[:s.itemsPerFeed]
	}
	out := make([]domain.Trend, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		hits := s.keywordHits(title + " " + strings.Join(item.Categories, " "))
		out = append(out, domain.Trend{
			Topic:             title,
			Description:       cleanDescription(item.Description),
			Relevance:         relevanceFor(hits),
			SuggestedChannels: channelsFor(title + " " + item.Description),
			Source:            feed.Title,
			Link:              item.Link,
		})
	}
	return out
}

// keywordHits counts keyword occurrences on word boundaries.
func (s *FeedSource) keywordHits(text string) int {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]bool, len(s.keywords))
	for _, k := range s.keywords {
		set[strings.ToLower(k)] = true
	}
	hits := 0
	for _, w := range words {
		if set[w] {
			hits++
		}
	}
	return hits
}

func relevanceFor(hits int) domain.Relevance {
	switch {
	case hits >= 2:
		return domain.RelevanceHigh
	case hits == 1:
		return domain.RelevanceMedium
	default:
		return domain.RelevanceLow
	}
}

func channelsFor(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	add := func(ch string, terms ...string) {
		for _, t := range terms {
			if strings.Contains(lower, t) {
				out = append(out, ch)
				return
			}
		}
	}
	add("Social", "social", "video", "influencer", "tiktok", "instagram")
	add("Email", "email", "newsletter", "inbox")
	add("Web", "web", "site", "seo", "search")
	add("Events", "event", "conference", "webinar")
	return out
}

// cleanDescription reduces an HTML description to plain text.
func cleanDescription(html string) string {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	r := []rune(text)
	if len(r) > descriptionLimit {
		return strings.TrimSpace(string(r[:descriptionLimit])) + "…"
	}
	return text
}

func sortByRelevance(trends []domain.Trend) {
	rank := func(r domain.Relevance) int {
		switch r {
		case domain.RelevanceHigh:
			return 0
		case domain.RelevanceMedium:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(trends, func(i, j int) bool {
		return rank(trends[i].Relevance) < rank(trends[j].Relevance)
	})
}

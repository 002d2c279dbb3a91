package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Marketing Weekly</title>
  <link>https://example.com</link>
  <description>Industry news</description>
  <item>
    <title>Gardening tips for autumn</title>
    <link>https://example.com/garden</link>
    <description>Nothing to see here.</description>
  </item>
  <item>
    <title>Short video drives brand engagement</title>
    <link>https://example.com/video</link>
    <description><![CDATA[<p>Brands on <b>social</b> platforms see gains.</p>]]></description>
    <category>Social</category>
  </item>
  <item>
    <title>Email newsletters are back</title>
    <link>https://example.com/email</link>
    <description>Inbox open rates climb.</description>
  </item>
</channel>
</rss>`

func feedServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedSource_Trends(t *testing.T) {
	srv := feedServer(t, sampleRSS, http.StatusOK)

	got, err := NewFeedSource([]string{srv.URL}).Trends(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	top := got[0]
	assert.Equal(t, "Short video drives brand engagement", top.Topic)
	assert.Equal(t, domain.RelevanceHigh, top.Relevance)
	assert.Equal(t, "Brands on social platforms see gains.", top.Description)
	assert.Equal(t, []string{"Social"}, top.SuggestedChannels)
	assert.Equal(t, "Marketing Weekly", top.Source)
	assert.Equal(t, "https://example.com/video", top.Link)

	assert.Equal(t, "Email newsletters are back", got[1].Topic)
	assert.Equal(t, domain.RelevanceMedium, got[1].Relevance)
	assert.Equal(t, []string{"Email"}, got[1].SuggestedChannels)

	assert.Equal(t, domain.RelevanceLow, got[2].Relevance)
}

func TestFeedSource_ItemsPerFeed(t *testing.T) {
	srv := feedServer(t, sampleRSS, http.StatusOK)

	got, err := NewFeedSource([]string{srv.URL}, WithItemsPerFeed(1)).Trends(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gardening tips for autumn", got[0].Topic)
}

func TestFeedSource_PartialFailure(t *testing.T) {
	good := feedServer(t, sampleRSS, http.StatusOK)
	bad := feedServer(t, "oops", http.StatusInternalServerError)

	got, err := NewFeedSource([]string{bad.URL, good.URL}).Trends(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestFeedSource_AllFeedsFail(t *testing.T) {
	bad := feedServer(t, "oops", http.StatusInternalServerError)

	_, err := NewFeedSource([]string{bad.URL}).Trends(context.Background())
	assert.ErrorIs(t, err, ErrNoFeeds)
}

func TestFeedSource_NoURLs(t *testing.T) {
	got, err := NewFeedSource(nil).Trends(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFeedSource_CustomKeywords(t *testing.T) {
	srv := feedServer(t, sampleRSS, http.StatusOK)

	got, err := NewFeedSource([]string{srv.URL}, WithKeywords([]string{"gardening", "autumn"})).Trends(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Gardening tips for autumn", got[0].Topic)
	assert.Equal(t, domain.RelevanceHigh, got[0].Relevance)
}

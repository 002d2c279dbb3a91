package insights

import (
	"testing"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandTable_Lookup(t *testing.T) {
	table := NewBrandTable(nil)

	g, ok := table.Lookup("  acme   CORE ")
	require.True(t, ok)
	assert.Equal(t, "Acme Core", g.Name)

	_, ok = table.Lookup("Other Co")
	assert.False(t, ok)

	custom := NewBrandTable([]BrandGuideline{{Name: "Zed", Tone: []string{"calm"}}})
	_, ok = custom.Lookup("Acme Core")
	assert.False(t, ok, "configured kits replace the defaults")
}

func TestBrandTable_Score(t *testing.T) {
	table := NewBrandTable(nil)

	tests := []struct {
		name        string
		draft       domain.Draft
		score       int
		aligned     bool
		tone        []string
		errorWords  []string
		warnings    int
		suggestions int
	}{
		{
			name:        "no kit",
			draft:       domain.Draft{Title: "Innovative and reliable"},
			score:       0,
			suggestions: 1,
		},
		{
			name: "on tone",
			draft: domain.Draft{
				BrandKit:    "Acme Core",
				Title:       "Innovative tools",
				KeyMessages: "Reliable every day for teams",
			},
			score:   76,
			aligned: true,
			tone:    []string{"innovative", "reliable"},
		},
		{
			name:        "forbidden word",
			draft:       domain.Draft{BrandKit: "acme core", Title: "Cheap gadgets for everyone"},
			score:       45,
			errorWords:  []string{"cheap"},
			suggestions: 2,
		},
		{
			name:        "forbidden phrase",
			draft:       domain.Draft{BrandKit: "Acme Core", KeyMessages: "Our best-ever trusted lineup returns"},
			score:       53,
			tone:        []string{"trusted"},
			errorWords:  []string{"best ever"},
			suggestions: 1,
		},
		{
			name:        "sparse copy",
			draft:       domain.Draft{BrandKit: "Acme Eco", Title: "Green"},
			score:       68,
			tone:        []string{"green"},
			suggestions: 2,
		},
		{
			name:        "unknown kit uses general guidelines",
			draft:       domain.Draft{BrandKit: "Mystery", KeyMessages: "Clear and friendly help for every customer"},
			score:       76,
			aligned:     true,
			tone:        []string{"clear", "friendly"},
			warnings:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Score(tt.draft)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.aligned, got.IsAligned)
			assert.Equal(t, tt.tone, got.ToneMatches)
			assert.Len(t, got.Suggestions, tt.suggestions)

			var errs []string
			warnings := 0
			for _, issue := range got.Issues {
				switch issue.Severity {
				case SeverityError:
					errs = append(errs, issue.Keyword)
				case SeverityWarning:
					warnings++
				}
			}
			assert.Equal(t, tt.errorWords, errs)
			assert.Equal(t, tt.warnings, warnings)
		})
	}
}

func TestContainsPhrase_WordBoundaries(t *testing.T) {
	text := " cheapest options for green teams "
	assert.False(t, containsPhrase(text, "cheap"))
	assert.True(t, containsPhrase(text, "green"))
	assert.True(t, containsPhrase(text, "Green Teams"))
	assert.False(t, containsPhrase(text, "  "))
}

package wizard

import (
	"testing"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/insights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offered() insights.WizardInsights {
	return insights.WizardInsights{
		AudienceReach: insights.AudienceReach{Segments: []insights.AudienceSegment{
			{ID: "seg-parents", Name: "Parents"},
			{ID: "seg-students", Name: "Students"},
		}},
		RecommendedAssets:  []insights.AssetRecommendation{{ID: "asset-coupon", Name: "Coupon code graphics"}},
		RecommendedContent: []insights.ContentRecommendation{{ID: "content-webinar", Title: "Expert webinar", Channel: "Events"}},
		ExperimentSuggestions: []insights.ExperimentSuggestion{
			{ID: "exp-a", Name: "A"},
			{ID: "exp-b", Name: "B"},
		},
	}
}

func TestSelections_Toggle(t *testing.T) {
	var s Selections
	w := offered()

	on, err := s.toggle(KindAudiences, "seg-parents", w)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = s.toggle(KindAudiences, "seg-students", w)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = s.toggle(KindAudiences, "seg-parents", w)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []Item{{ID: "seg-students", Name: "Students"}}, s.Audiences)

	_, err = s.toggle(KindAssets, "asset-nope", w)
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Empty(t, s.Assets)

	_, err = s.toggle(KindExperiment, "exp-a", w)
	require.NoError(t, err)
	_, err = s.toggle(KindExperiment, "exp-b", w)
	require.NoError(t, err)
	require.NotNil(t, s.Experiment)
	assert.Equal(t, "exp-b", s.Experiment.ID, "only one experiment at a time")
	on, err = s.toggle(KindExperiment, "exp-b", w)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Nil(t, s.Experiment)
}

func TestSelections_DeselectSurvivesRecompute(t *testing.T) {
	var s Selections
	_, err := s.toggle(KindContent, "content-webinar", offered())
	require.NoError(t, err)

	on, err := s.toggle(KindContent, "content-webinar", insights.WizardInsights{})
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, s.Content)
}

func TestSelections_CloneDoesNotAlias(t *testing.T) {
	var s Selections
	w := offered()
	_, _ = s.toggle(KindAudiences, "seg-parents", w)
	_, _ = s.toggle(KindAudiences, "seg-students", w)

	c := s.clone()
	_, _ = c.toggle(KindAudiences, "seg-parents", w)
	assert.Len(t, s.Audiences, 2)
	assert.Len(t, c.Audiences, 1)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Audiences")
	require.NoError(t, err)
	assert.Equal(t, KindAudiences, k)

	_, err = ParseKind("colors")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestEnrich(t *testing.T) {
	d := domain.Draft{Audiences: []string{"parents"}, Channels: []string{"Email"}}
	s := Selections{
		Audiences: []Item{{ID: "seg-parents", Name: "Parents"}, {ID: "seg-students", Name: "Students"}},
		Content:   []Item{{ID: "content-webinar", Name: "Expert webinar", Channel: "Events"}},
		Assets:    []Item{{ID: "asset-coupon", Name: "Coupon code graphics"}},
	}

	got := Enrich(d, s)
	assert.Equal(t, []string{"parents", "Students"}, got.Audiences)
	assert.Equal(t, []string{"Email", "Events"}, got.Channels)
	assert.Equal(t, []string{"parents"}, d.Audiences, "input draft untouched")
}

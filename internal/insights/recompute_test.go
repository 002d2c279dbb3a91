package insights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeComputer stamps the draft title into every sub-result so a mixed
// snapshot is detectable.
type fakeComputer struct {
	mu    sync.Mutex
	calls []string
	hook  func(ctx context.Context, title string) error
}

func (f *fakeComputer) Compute(ctx context.Context, d domain.Draft) (WizardInsights, error) {
	f.mu.Lock()
	f.calls = append(f.calls, d.Title)
	f.mu.Unlock()

	if f.hook != nil {
		if err := f.hook(ctx, d.Title); err != nil {
			return WizardInsights{}, err
		}
	}
	return stamped(d.Title), nil
}

func (f *fakeComputer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func stamped(title string) WizardInsights {
	return WizardInsights{
		AudienceReach:         AudienceReach{Segments: []AudienceSegment{{Name: title}}},
		RecommendedAssets:     []AssetRecommendation{{Name: title}},
		RecommendedContent:    []ContentRecommendation{{Title: title}},
		ExperimentSuggestions: []ExperimentSuggestion{{Name: title}},
		BrandKitAlignment:     BrandAlignment{BrandKit: title},
		CampaignScore:         CampaignScore{SuggestedUpdates: []SuggestedUpdate{{Field: title}}},
	}
}

func assertStamped(t *testing.T, w WizardInsights, title string) {
	t.Helper()
	require.Len(t, w.AudienceReach.Segments, 1)
	assert.Equal(t, title, w.AudienceReach.Segments[0].Name)
	assert.Equal(t, title, w.RecommendedAssets[0].Name)
	assert.Equal(t, title, w.RecommendedContent[0].Title)
	assert.Equal(t, title, w.ExperimentSuggestions[0].Name)
	assert.Equal(t, title, w.BrandKitAlignment.BrandKit)
	assert.Equal(t, title, w.CampaignScore.SuggestedUpdates[0].Field)
}

func updates() (func(WizardInsights), <-chan WizardInsights) {
	ch := make(chan WizardInsights, 16)
	return func(w WizardInsights) { ch <- w }, ch
}

func waitUpdate(t *testing.T, ch <-chan WizardInsights) WizardInsights {
	t.Helper()
	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for insights update")
		return WizardInsights{}
	}
}

func TestRecomputer_AppliesLatest(t *testing.T) {
	defer goleak.VerifyNone(t)

	hook, ch := updates()
	comp := &fakeComputer{}
	r := NewRecomputer(comp, WithDebounce(time.Millisecond), WithUpdateHook(hook))
	defer r.Close()

	gen := r.Schedule(domain.Draft{Title: "A"})
	assert.Equal(t, uint64(1), gen)

	w := waitUpdate(t, ch)
	assertStamped(t, w, "A")
	assert.Equal(t, uint64(1), w.Generation)
	assert.False(t, w.IsCalculating)
	assert.False(t, w.AudienceReach.IsLoading)
	assert.False(t, w.BrandKitAlignment.IsLoading)
	assert.False(t, w.CampaignScore.IsLoading)
	assert.Equal(t, w, r.Insights())
}

func TestRecomputer_StaleRoundNeverApplied(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	comp := &fakeComputer{hook: func(ctx context.Context, title string) error {
		if title == "A" {
			close(started)
			// ignores cancellation on purpose: the late result must still be dropped
			<-release
		}
		return nil
	}}
	hook, ch := updates()
	r := NewRecomputer(comp, WithDebounce(time.Millisecond), WithUpdateHook(hook))
	defer r.Close()

	r.Schedule(domain.Draft{Title: "A"})
	<-started

	r.Schedule(domain.Draft{Title: "B"})
	w := waitUpdate(t, ch)
	assertStamped(t, w, "B")
	assert.Equal(t, uint64(2), w.Generation)

	close(release)
	r.Close()

	assertStamped(t, r.Insights(), "B")
	assert.Equal(t, uint64(2), r.Insights().Generation)
	assert.Equal(t, []string{"A", "B"}, comp.Calls())
	assert.Empty(t, ch, "the superseded round must not publish")
}

func TestRecomputer_CancelsSupersededRound(t *testing.T) {
	defer goleak.VerifyNone(t)

	cancelled := make(chan error, 1)
	started := make(chan struct{})
	comp := &fakeComputer{hook: func(ctx context.Context, title string) error {
		if title != "A" {
			return nil
		}
		close(started)
		<-ctx.Done()
		cancelled <- ctx.Err()
		return ctx.Err()
	}}
	hook, ch := updates()
	r := NewRecomputer(comp, WithDebounce(time.Millisecond), WithUpdateHook(hook))
	defer r.Close()

	r.Schedule(domain.Draft{Title: "A"})
	<-started
	r.Schedule(domain.Draft{Title: "B"})

	select {
	case err := <-cancelled:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("superseded round was not cancelled")
	}
	assertStamped(t, waitUpdate(t, ch), "B")
}

func TestRecomputer_Debounces(t *testing.T) {
	defer goleak.VerifyNone(t)

	hook, ch := updates()
	comp := &fakeComputer{}
	r := NewRecomputer(comp, WithDebounce(100*time.Millisecond), WithUpdateHook(hook))
	defer r.Close()

	r.Schedule(domain.Draft{Title: "A"})
	r.Schedule(domain.Draft{Title: "AB"})
	gen := r.Schedule(domain.Draft{Title: "ABC"})

	pending := r.Insights()
	assert.True(t, pending.IsCalculating)
	assert.True(t, pending.AudienceReach.IsLoading)
	assert.True(t, pending.BrandKitAlignment.IsLoading)
	assert.True(t, pending.CampaignScore.IsLoading)

	w := waitUpdate(t, ch)
	assertStamped(t, w, "ABC")
	assert.Equal(t, gen, w.Generation)
	assert.Equal(t, []string{"ABC"}, comp.Calls())
}

func TestRecomputer_FailureKeepsPreviousInsights(t *testing.T) {
	defer goleak.VerifyNone(t)

	comp := &fakeComputer{hook: func(ctx context.Context, title string) error {
		if title == "broken" {
			return errors.New("scorer unavailable")
		}
		return nil
	}}
	hook, ch := updates()
	r := NewRecomputer(comp, WithDebounce(time.Millisecond), WithUpdateHook(hook))
	defer r.Close()

	r.Schedule(domain.Draft{Title: "A"})
	waitUpdate(t, ch)

	r.Schedule(domain.Draft{Title: "broken"})
	w := waitUpdate(t, ch)
	assertStamped(t, w, "A")
	assert.Equal(t, uint64(1), w.Generation)
	assert.False(t, w.IsCalculating)
	assert.False(t, w.CampaignScore.IsLoading)
	assert.Equal(t, uint64(2), r.Generation())
}

func TestRecomputer_ScheduleCopiesDraft(t *testing.T) {
	defer goleak.VerifyNone(t)

	var seen []string
	var mu sync.Mutex
	comp := &fakeComputer{}
	hook, ch := updates()
	r := NewRecomputer(computerFunc(func(ctx context.Context, d domain.Draft) (WizardInsights, error) {
		mu.Lock()
		seen = append(seen, d.Audiences...)
		mu.Unlock()
		return comp.Compute(ctx, d)
	}), WithDebounce(20*time.Millisecond), WithUpdateHook(hook))
	defer r.Close()

	d := domain.Draft{Title: "A", Audiences: []string{"Parents"}}
	r.Schedule(d)
	d.Audiences[0] = "Mutated"
	waitUpdate(t, ch)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Parents"}, seen)
}

func TestRecomputer_ClosedIgnoresSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	comp := &fakeComputer{}
	r := NewRecomputer(comp, WithDebounce(time.Millisecond))
	r.Close()
	r.Close()

	assert.Equal(t, uint64(0), r.Schedule(domain.Draft{Title: "A"}))
	assert.Empty(t, comp.Calls())
}

func TestRecomputer_WithPipeline(t *testing.T) {
	defer goleak.VerifyNone(t)

	hook, ch := updates()
	r := NewRecomputer(NewPipeline(), WithDebounce(time.Millisecond), WithUpdateHook(hook))
	defer r.Close()

	r.Schedule(fullDraft())
	w := waitUpdate(t, ch)
	assert.Equal(t, 100, w.CampaignScore.Overall)
	assert.Equal(t, "Acme Core", w.BrandKitAlignment.BrandKit)
	assert.False(t, w.IsCalculating)
}

type computerFunc func(ctx context.Context, d domain.Draft) (WizardInsights, error)

func (f computerFunc) Compute(ctx context.Context, d domain.Draft) (WizardInsights, error) {
	return f(ctx, d)
}

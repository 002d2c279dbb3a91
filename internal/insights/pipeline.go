package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/ignite/campaign-manager/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Computer produces a complete insights snapshot for a draft.
type Computer interface {
	Compute(ctx context.Context, draft domain.Draft) (WizardInsights, error)
}

// Pipeline runs every scorer concurrently against one immutable draft
// snapshot and assembles the result only after all of them finish.
type Pipeline struct {
	brand   *BrandTable
	latency time.Duration
	now     func() time.Time
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithBrandTable sets the brand guideline table.
func WithBrandTable(t *BrandTable) PipelineOption {
	return func(p *Pipeline) { p.brand = t }
}

// WithSimulatedLatency delays each scorer by d, as the scorers would if
// they called remote services.
func WithSimulatedLatency(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.latency = d }
}

// WithPipelineClock overrides the ComputedAt source.
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline returns a pipeline with the default brand table and no latency.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{brand: NewBrandTable(nil), now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compute scores draft. A cancelled context aborts the round; no partial
// result is ever returned.
func (p *Pipeline) Compute(ctx context.Context, draft domain.Draft) (WizardInsights, error) {
	var (
		reach       AudienceReach
		assets      []AssetRecommendation
		content     []ContentRecommendation
		experiments []ExperimentSuggestion
		brand       BrandAlignment
		score       CampaignScore
	)

	eg, egCtx := errgroup.WithContext(ctx)
	run := func(fn func(d domain.Draft)) {
		snapshot := draft.Clone()
		eg.Go(func() error {
			if err := p.wait(egCtx); err != nil {
				return err
			}
			fn(snapshot)
			return nil
		})
	}
	run(func(d domain.Draft) { reach = ScoreAudienceReach(d) })
	run(func(d domain.Draft) { assets = RecommendAssets(d) })
	run(func(d domain.Draft) { content = RecommendContent(d) })
	run(func(d domain.Draft) { experiments = SuggestExperiments(d) })
	run(func(d domain.Draft) { brand = p.brand.Score(d) })
	run(func(d domain.Draft) { score = ScoreCampaign(d) })

	if err := eg.Wait(); err != nil {
		return WizardInsights{}, fmt.Errorf("insights: compute: %w", err)
	}
	return WizardInsights{
		AudienceReach:         reach,
		RecommendedAssets:     assets,
		RecommendedContent:    content,
		ExperimentSuggestions: experiments,
		BrandKitAlignment:     brand,
		CampaignScore:         score,
		ComputedAt:            p.now().UTC(),
	}, nil
}

func (p *Pipeline) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

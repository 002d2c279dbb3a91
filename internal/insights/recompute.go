package insights

import (
	"context"
	"sync"
	"time"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/metrics"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
)

// DefaultDebounce is the quiet period after the last edit before a
// recompute starts.
const DefaultDebounce = 400 * time.Millisecond

// Recomputer coalesces draft changes into debounced compute rounds. Every
// Schedule call bumps a generation; a round's result is only applied when
// its generation is still the latest, and a superseded round's context is
// cancelled.
type Recomputer struct {
	computer Computer
	debounce time.Duration
	onUpdate func(WizardInsights)

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup

	mu        sync.Mutex
	current   WizardInsights
	gen       uint64
	timer     *time.Timer
	cancelRun context.CancelFunc
	closed    bool
}

// RecomputerOption customizes a Recomputer.
type RecomputerOption func(*Recomputer)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) RecomputerOption {
	return func(r *Recomputer) { r.debounce = d }
}

// WithUpdateHook is called, outside the lock, whenever the visible
// insights change after a round.
func WithUpdateHook(fn func(WizardInsights)) RecomputerOption {
	return func(r *Recomputer) { r.onUpdate = fn }
}

// NewRecomputer wraps computer. Close must be called to release timers.
func NewRecomputer(computer Computer, opts ...RecomputerOption) *Recomputer {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Recomputer{
		computer:   computer,
		debounce:   DefaultDebounce,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Insights returns the currently visible snapshot.
func (r *Recomputer) Insights() WizardInsights {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Generation returns the latest scheduled generation.
func (r *Recomputer) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Schedule requests a recompute for draft after the debounce period. The
// draft is copied, so callers may keep mutating their own value.
func (r *Recomputer) Schedule(draft domain.Draft) uint64 {
	snapshot := draft.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.gen
	}
	r.gen++
	gen := r.gen
	r.current.setLoading(true)

	r.stopTimerLocked()
	if r.cancelRun != nil {
		r.cancelRun()
		r.cancelRun = nil
	}

	r.wg.Add(1)
	r.timer = time.AfterFunc(r.debounce, func() { r.run(gen, snapshot) })
	return gen
}

// Close stops pending work and waits for running rounds to return.
func (r *Recomputer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.stopTimerLocked()
	r.mu.Unlock()

	r.baseCancel()
	r.wg.Wait()
}

func (r *Recomputer) stopTimerLocked() {
	if r.timer != nil && r.timer.Stop() {
		r.wg.Done()
	}
	r.timer = nil
}

func (r *Recomputer) run(gen uint64, draft domain.Draft) {
	defer r.wg.Done()

	r.mu.Lock()
	if r.closed || gen != r.gen {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(r.baseCtx)
	r.cancelRun = cancel
	r.mu.Unlock()
	defer cancel()

	start := time.Now()
	result, err := r.computer.Compute(ctx, draft)
	metrics.InsightsRecomputeDuration.Observe(time.Since(start).Seconds())

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		metrics.InsightsRecomputesTotal.WithLabelValues("stale").Inc()
		return
	}
	r.cancelRun = nil
	if err != nil {
		r.current.setLoading(false)
		snapshot := r.current
		r.mu.Unlock()
		metrics.InsightsRecomputesTotal.WithLabelValues("failed").Inc()
		logger.Warn("insights recompute failed", "generation", gen, "error", err.Error())
		r.notify(snapshot)
		return
	}
	result.setLoading(false)
	result.Generation = gen
	r.current = result
	r.mu.Unlock()

	metrics.InsightsRecomputesTotal.WithLabelValues("applied").Inc()
	r.notify(result)
}

func (r *Recomputer) notify(w WizardInsights) {
	if r.onUpdate != nil {
		r.onUpdate(w)
	}
}

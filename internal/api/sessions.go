package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/campaign-manager/internal/metrics"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
	"github.com/ignite/campaign-manager/internal/wizard"
)

// WizardFactory builds a fresh wizard for a new session.
type WizardFactory func() *wizard.Controller

type sessionEntry struct {
	wizard  *wizard.Controller
	touched time.Time
}

// Registry holds the wizard sessions of this process. Sessions untouched
// for longer than the idle timeout are dropped by Sweep.
type Registry struct {
	factory WizardFactory
	idle    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewRegistry returns an empty registry. A zero idle disables eviction.
func NewRegistry(factory WizardFactory, idle time.Duration) *Registry {
	return &Registry{
		factory:  factory,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Create starts a new wizard session.
func (r *Registry) Create() (string, *wizard.Controller) {
	id := uuid.New().String()
	w := r.factory()

	r.mu.Lock()
	r.sessions[id] = &sessionEntry{wizard: w, touched: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	logger.Debug("wizard session created", "session", id)
	return id, w
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*wizard.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.touched = r.now()
	return e.wizard, true
}

// Delete closes and forgets a session.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.wizard.Close()
	metrics.ActiveSessions.Set(float64(n))
	return true
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were dropped.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var stale []*wizard.Controller
	for id, e := range r.sessions {
		if e.touched.Before(cutoff) {
			stale = append(stale, e.wizard)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, w := range stale {
		w.Close()
	}
	if len(stale) > 0 {
		metrics.ActiveSessions.Set(float64(n))
		logger.Info("idle wizard sessions evicted", "count", len(stale), "remaining", n)
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close shuts every session down.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*sessionEntry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.wizard.Close()
	}
	metrics.ActiveSessions.Set(0)
}

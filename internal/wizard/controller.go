// Package wizard composes the assistant conversation, the live insights
// and the user's insight selections into one campaign draft, and turns
// that draft into a persisted campaign.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ignite/campaign-manager/internal/agent"
	"github.com/ignite/campaign-manager/internal/conversation"
	"github.com/ignite/campaign-manager/internal/creation"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/insights"
	"github.com/ignite/campaign-manager/internal/metrics"
	"github.com/ignite/campaign-manager/internal/pkg/distlock"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
	"github.com/ignite/campaign-manager/internal/service/campaign"
)

const (
	msgCreated        = "Your campaign \"%s\" has been created. You can open it here: %s"
	msgFinalizeFailed = "I couldn't save your campaign just now. Your draft is safe, so you can try finalizing again."
)

// Creator persists mapped form data. *campaign.Service satisfies it.
type Creator interface {
	Create(ctx context.Context, f campaign.FormData) (*domain.Campaign, error)
}

// Deps are the collaborators of a Controller. Replier and Locks are optional.
type Deps struct {
	Machine     *creation.Machine
	Recommender conversation.Recommender
	Replier     agent.Replier
	Computer    insights.Computer
	Creator     Creator
	Locks       distlock.Provider
}

// Option customizes a Controller.
type Option func(*options)

type options struct {
	now         func() time.Time
	debounce    time.Duration
	contextData func() map[string]any
}

// WithClock overrides the clock used for messages and date defaults.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDebounce overrides the insights debounce.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithContextData supplies structured context for general replies.
func WithContextData(fn func() map[string]any) Option {
	return func(o *options) { o.contextData = fn }
}

// State is a consistent view of the wizard for the UI.
type State struct {
	Conversation    conversation.State      `json:"conversation"`
	Selections      Selections              `json:"selections"`
	EnrichedDraft   domain.Draft            `json:"enriched_draft"`
	Insights        insights.WizardInsights `json:"insights"`
	Finalizing      bool                    `json:"finalizing"`
	Finalized       bool                    `json:"finalized"`
	CreatedCampaign *domain.Campaign        `json:"created_campaign,omitempty"`
}

// Controller is one wizard screen. Finalized and CreatedCampaign are kept
// apart from the conversation step: a session may sit at complete while
// its campaign is still unsaved.
type Controller struct {
	conv      *conversation.Controller
	recompute *insights.Recomputer
	creator   Creator
	locks     distlock.Provider
	now       func() time.Time

	mu         sync.Mutex
	sessionID  string
	selections Selections
	finalizing bool
	finalized  bool
	created    *domain.Campaign
}

// New wires a controller. Close releases its background work.
func New(deps Deps, opts ...Option) *Controller {
	o := options{now: time.Now, debounce: insights.DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		creator: deps.Creator,
		locks:   deps.Locks,
		now:     o.now,
	}
	c.recompute = insights.NewRecomputer(deps.Computer, insights.WithDebounce(o.debounce))

	convOpts := []conversation.Option{
		conversation.WithClock(o.now),
		conversation.WithSessionListener(c.onSession),
	}
	if o.contextData != nil {
		convOpts = append(convOpts, conversation.WithContextData(o.contextData))
	}
	c.conv = conversation.New(deps.Machine, deps.Recommender, deps.Replier, convOpts...)
	return c
}

// Close stops the insights recomputer.
func (c *Controller) Close() { c.recompute.Close() }

// Conversation exposes the underlying conversation controller.
func (c *Controller) Conversation() *conversation.Controller { return c.conv }

// onSession runs after every committed session change.
func (c *Controller) onSession(s domain.CreationSession) {
	c.mu.Lock()
	if s.ID != c.sessionID {
		c.selections = Selections{}
		if s.ID != "" {
			c.finalized = false
			c.created = nil
		}
		c.sessionID = s.ID
	}
	enriched := Enrich(s.Draft, c.selections)
	c.mu.Unlock()

	if s.IsActive {
		c.recompute.Schedule(enriched)
	}
}

// SendMessage forwards text to the conversation. When the message
// confirms the review, the campaign is finalized straight away and the
// outcome is appended to the log. While a completed draft is still
// unsaved, confirmation text retries the finalize instead of reaching the
// conversation, so the draft is never replaced by a new session.
func (c *Controller) SendMessage(ctx context.Context, text string) ([]domain.Message, error) {
	if c.awaitingSave() && creation.IsConfirmation(text) {
		return c.retryFinalize(ctx, text)
	}

	msgs, err := c.conv.SendMessage(ctx, text)
	if err != nil {
		return nil, err
	}

	if !confirmed(msgs) {
		return msgs, nil
	}
	s := c.conv.Session()
	c.mu.Lock()
	pending := s.IsActive && s.CurrentStep == domain.StepComplete && c.created == nil && !c.finalizing
	c.mu.Unlock()
	if !pending {
		return msgs, nil
	}

	_, msg, err := c.finalize(ctx)
	if errors.Is(err, ErrBusy) {
		return msgs, nil
	}
	return append(msgs, msg), nil
}

// awaitingSave reports whether the session is complete but not persisted.
func (c *Controller) awaitingSave() bool {
	s := c.conv.Session()
	c.mu.Lock()
	defer c.mu.Unlock()
	return s.IsActive && s.CurrentStep == domain.StepComplete && c.created == nil
}

func (c *Controller) retryFinalize(ctx context.Context, text string) ([]domain.Message, error) {
	userMsg, err := c.conv.AppendUser(text)
	if err != nil {
		return nil, err
	}
	msgs := []domain.Message{userMsg}

	logger.Info("finalize retried from chat", "session", c.conv.Session().ID)
	_, msg, err := c.finalize(ctx)
	if errors.Is(err, ErrBusy) || errors.Is(err, ErrNoSession) {
		return msgs, nil
	}
	return append(msgs, msg), nil
}

// confirmed reports whether msgs end with the review confirmation.
func confirmed(msgs []domain.Message) bool {
	if len(msgs) == 0 {
		return false
	}
	meta := msgs[len(msgs)-1].Metadata
	return meta != nil && meta.Type == domain.MessageConfirmation
}

// StartCreation starts a guided session directly.
func (c *Controller) StartCreation(ctx context.Context) ([]domain.Message, error) {
	return c.conv.StartCreation(ctx)
}

// Cancel abandons the creation session.
func (c *Controller) Cancel() { c.conv.Cancel() }

// UpdateDraft applies a form edit to the session draft.
func (c *Controller) UpdateDraft(p domain.DraftPatch) error {
	if !c.conv.UpdateDraft(p.Apply) {
		return ErrNoSession
	}
	return nil
}

// Toggle flips one insights selection and reschedules the insights for the
// newly enriched draft. It reports whether the item is now selected.
func (c *Controller) Toggle(kind Kind, id string) (bool, error) {
	s := c.conv.Session()
	if !s.IsActive {
		return false, ErrNoSession
	}
	visible := c.recompute.Insights()

	c.mu.Lock()
	next := c.selections.clone()
	selected, err := next.toggle(kind, id, visible)
	if err != nil {
		c.mu.Unlock()
		return false, err
	}
	c.selections = next
	enriched := Enrich(s.Draft, next)
	c.mu.Unlock()

	c.recompute.Schedule(enriched)
	return selected, nil
}

// EnrichedDraft returns the session draft with selections merged in.
func (c *Controller) EnrichedDraft() domain.Draft {
	s := c.conv.Session()
	c.mu.Lock()
	defer c.mu.Unlock()
	return Enrich(s.Draft, c.selections)
}

// Insights returns the visible insights snapshot.
func (c *Controller) Insights() insights.WizardInsights { return c.recompute.Insights() }

// State returns a snapshot of everything the wizard shows.
func (c *Controller) State() State {
	conv := c.conv.State()
	w := c.recompute.Insights()

	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Conversation:  conv,
		Selections:    c.selections.clone(),
		EnrichedDraft: Enrich(conv.Session.Draft, c.selections),
		Insights:      w,
		Finalizing:    c.finalizing,
		Finalized:     c.finalized,
	}
	if c.created != nil {
		created := *c.created
		st.CreatedCampaign = &created
	}
	return st
}

// Finalize maps the enriched draft and hands it to the creator. On
// failure it returns a nil campaign and an error wrapping
// ErrFinalizeFailed; the session is left untouched so the call can be
// retried. On success the conversation session is reset.
func (c *Controller) Finalize(ctx context.Context) (*domain.Campaign, error) {
	created, _, err := c.finalize(ctx)
	return created, err
}

func (c *Controller) finalize(ctx context.Context) (*domain.Campaign, domain.Message, error) {
	s := c.conv.Session()
	if !s.IsActive {
		return nil, domain.Message{}, ErrNoSession
	}

	c.mu.Lock()
	if c.finalizing {
		c.mu.Unlock()
		metrics.FinalizeTotal.WithLabelValues("busy").Inc()
		return nil, domain.Message{}, ErrBusy
	}
	c.finalizing = true
	enriched := Enrich(s.Draft, c.selections)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.finalizing = false
		c.mu.Unlock()
	}()

	if c.locks != nil {
		lock := c.locks.NewLock("finalize:" + s.ID)
		ok, err := lock.Acquire(ctx)
		if err != nil {
			logger.Error("finalize lock failed", "session", s.ID, "error", err.Error())
			metrics.FinalizeTotal.WithLabelValues("failed").Inc()
			return nil, c.conv.Announce(msgFinalizeFailed, nil), fmt.Errorf("%w: lock: %w", ErrFinalizeFailed, err)
		}
		if !ok {
			metrics.FinalizeTotal.WithLabelValues("busy").Inc()
			return nil, domain.Message{}, ErrBusy
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				logger.Warn("finalize lock release failed", "session", s.ID, "error", err.Error())
			}
		}()
	}

	form := MapDraftToFormData(enriched, c.now())
	created, err := c.creator.Create(ctx, form)
	if err != nil {
		logger.Error("campaign finalize failed", "session", s.ID, "title", form.Title, "error", err.Error())
		metrics.FinalizeTotal.WithLabelValues("failed").Inc()
		return nil, c.conv.Announce(msgFinalizeFailed, nil), fmt.Errorf("%w: %w", ErrFinalizeFailed, err)
	}

	c.mu.Lock()
	stored := *created
	c.created = &stored
	c.finalized = true
	c.mu.Unlock()

	msg := c.conv.Announce(fmt.Sprintf(msgCreated, created.Title, created.URL), &domain.MessageMetadata{
		Type: domain.MessageConfirmation,
	})
	c.conv.ResetCreation()

	metrics.FinalizeTotal.WithLabelValues("created").Inc()
	logger.Info("campaign finalized", "session", s.ID, "campaign_id", created.ID, "title", created.Title)
	out := *created
	return &out, msg, nil
}

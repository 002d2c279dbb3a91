// Package conversation owns the assistant chat: the append-only message
// log, the send status and the active campaign-creation session.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/campaign-manager/internal/agent"
	"github.com/ignite/campaign-manager/internal/creation"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/metrics"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
)

// Status is the send status shown next to the input box.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusThinking Status = "thinking"
	StatusError    Status = "error"
)

const (
	msgCancelled       = "Campaign creation cancelled. Your conversation is still here whenever you want to start again."
	msgReplyFailed     = "Sorry, I couldn't get a response right now. Please try sending your message again."
	msgRecommendFailed = "Sorry, I couldn't load campaign recommendations right now. Please try again in a moment."
	msgReselect        = "I couldn't tell which idea you meant. Reply with the number of one of the ideas above, or describe your own campaign idea."
	msgNoIdeas         = "Let's create a campaign! I don't have data-driven ideas for you right now, so describe the campaign you have in mind."
)

// Recommender produces the ideas shown when creation starts.
type Recommender interface {
	Recommend(ctx context.Context) ([]domain.Recommendation, error)
}

// State is a consistent snapshot of the controller.
type State struct {
	Messages []domain.Message       `json:"messages"`
	Status   Status                 `json:"status"`
	Session  domain.CreationSession `json:"session"`
	DemoMode bool                   `json:"demo_mode"`
}

// SessionListener observes every committed session change.
type SessionListener func(domain.CreationSession)

// Option customizes a Controller.
type Option func(*Controller)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithSessionListener registers fn to be called, outside the controller's
// lock, after each committed session change.
func WithSessionListener(fn SessionListener) Option {
	return func(c *Controller) { c.listener = fn }
}

// WithContextData supplies structured context passed to the replier.
func WithContextData(fn func() map[string]any) Option {
	return func(c *Controller) { c.contextData = fn }
}

// Controller serializes user messages: at most one send is processed at a
// time and messages are appended in send order. Cancel may be called at any
// time; it bumps an epoch so results of an in-flight send are discarded.
type Controller struct {
	machine     *creation.Machine
	recommender Recommender
	replier     agent.Replier
	now         func() time.Time
	listener    SessionListener
	contextData func() map[string]any

	mu       sync.Mutex
	messages []domain.Message
	status   Status
	session  domain.CreationSession
	busy     bool
	creating bool // the in-flight work belongs to a creation session
	epoch    uint64
}

// New builds a controller. A nil replier falls back to canned replies.
func New(machine *creation.Machine, recommender Recommender, replier agent.Replier, opts ...Option) *Controller {
	if replier == nil {
		replier = agent.NewCannedReplier()
	}
	c := &Controller{
		machine:     machine,
		recommender: recommender,
		replier:     replier,
		now:         time.Now,
		status:      StatusIdle,
		session:     domain.NewCreationSession(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DemoMode reports whether replies come from the canned fallback.
func (c *Controller) DemoMode() bool { return !c.replier.IsConfigured() }

// State returns a deep snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]domain.Message, len(c.messages))
	copy(msgs, c.messages)
	return State{
		Messages: msgs,
		Status:   c.status,
		Session:  c.session.Clone(),
		DemoMode: c.DemoMode(),
	}
}

// Session returns a copy of the creation session.
func (c *Controller) Session() domain.CreationSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Clone()
}

// Messages returns a copy of the log.
func (c *Controller) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// inCreation is true while the machine should consume user text. A session
// parked at complete no longer does.
func inCreation(s domain.CreationSession) bool {
	return s.IsActive && s.CurrentStep != domain.StepComplete
}

// SendMessage appends text as a user message and processes it. The
// returned slice holds every message appended by this call. Collaborator
// failures are reported through StatusError and a generic assistant
// message, not through the returned error, which is reserved for ErrBusy
// and ErrEmptyMessage.
func (c *Controller) SendMessage(ctx context.Context, text string) ([]domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.creating = inCreation(c.session) || DetectCreationIntent(text)
	c.status = StatusThinking
	userMsg := c.appendLocked(domain.RoleUser, text, nil)
	epoch := c.epoch
	session := c.session.Clone()
	history := make([]domain.Message, len(c.messages)-1)
	copy(history, c.messages)
	c.mu.Unlock()

	appended := []domain.Message{userMsg}
	switch {
	case inCreation(session):
		appended = append(appended, c.advance(epoch, session, text)...)
	case DetectCreationIntent(text):
		appended = append(appended, c.startCreation(ctx, epoch)...)
	default:
		appended = append(appended, c.reply(ctx, epoch, text, history)...)
	}
	return appended, nil
}

// StartCreation begins a guided creation session directly, replacing any
// session in progress.
func (c *Controller) StartCreation(ctx context.Context) ([]domain.Message, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.creating = true
	c.status = StatusThinking
	epoch := c.epoch
	c.mu.Unlock()

	return c.startCreation(ctx, epoch), nil
}

func (c *Controller) advance(epoch uint64, session domain.CreationSession, text string) []domain.Message {
	tr := c.machine.Advance(session, text)

	c.mu.Lock()
	if c.epoch != epoch {
		c.finishLocked(StatusIdle)
		c.mu.Unlock()
		metrics.MessagesTotal.WithLabelValues("discarded").Inc()
		return nil
	}

	from := c.session.CurrentStep
	c.session = tr.Session
	var out []domain.Message
	switch {
	case tr.Reply != nil:
		out = append(out, c.appendLocked(domain.RoleAssistant, tr.Reply.Content, tr.Reply.Metadata))
	case tr.Session.CurrentStep == domain.StepRecommendations:
		out = append(out, c.appendLocked(domain.RoleAssistant, msgReselect, &domain.MessageMetadata{
			Type:         domain.MessageQuestion,
			QuestionType: domain.StepRecommendations,
		}))
	}
	c.finishLocked(StatusIdle)
	committed := c.session.Clone()
	c.mu.Unlock()

	if from != committed.CurrentStep {
		metrics.StepTransitionsTotal.WithLabelValues(string(from), string(committed.CurrentStep)).Inc()
	}
	metrics.MessagesTotal.WithLabelValues("creation").Inc()
	if tr.Completed {
		logger.Info("campaign creation completed", "title", committed.Draft.Title)
	}
	c.notify(committed)
	return out
}

func (c *Controller) startCreation(ctx context.Context, epoch uint64) []domain.Message {
	recs, err := c.recommender.Recommend(ctx)

	c.mu.Lock()
	if c.epoch != epoch {
		c.finishLocked(StatusIdle)
		c.mu.Unlock()
		metrics.MessagesTotal.WithLabelValues("discarded").Inc()
		return nil
	}
	if err != nil {
		logger.Error("recommendation generation failed", "error", err.Error())
		msg := c.appendLocked(domain.RoleAssistant, msgRecommendFailed, nil)
		c.finishLocked(StatusError)
		c.mu.Unlock()
		metrics.MessagesTotal.WithLabelValues("error").Inc()
		return []domain.Message{msg}
	}

	session := domain.NewCreationSession()
	session.ID = uuid.New().String()
	session.IsActive = true
	session.Recommendations = recs
	c.session = session

	msg := c.appendLocked(domain.RoleAssistant, recommendationsText(recs), &domain.MessageMetadata{
		Type:            domain.MessageRecommendation,
		Recommendations: cloneRecommendations(recs),
		QuestionType:    domain.StepRecommendations,
	})
	c.finishLocked(StatusIdle)
	committed := c.session.Clone()
	c.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues("intent").Inc()
	logger.Info("campaign creation started", "recommendations", len(recs))
	c.notify(committed)
	return []domain.Message{msg}
}

func (c *Controller) reply(ctx context.Context, epoch uint64, text string, history []domain.Message) []domain.Message {
	var data map[string]any
	if c.contextData != nil {
		data = c.contextData()
	}
	answer, err := c.replier.Reply(ctx, text, history, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.finishLocked(StatusIdle)
		metrics.MessagesTotal.WithLabelValues("discarded").Inc()
		return nil
	}
	if err != nil {
		logger.Error("assistant reply failed", "error", err.Error())
		msg := c.appendLocked(domain.RoleAssistant, msgReplyFailed, nil)
		c.finishLocked(StatusError)
		metrics.MessagesTotal.WithLabelValues("error").Inc()
		return []domain.Message{msg}
	}
	msg := c.appendLocked(domain.RoleAssistant, answer, nil)
	c.finishLocked(StatusIdle)
	metrics.MessagesTotal.WithLabelValues("reply").Inc()
	return []domain.Message{msg}
}

// Cancel resets the creation session and discards any in-flight creation
// result. A general reply in flight is left alone. An acknowledgment is
// appended only when there was something to cancel, so repeated calls
// leave the log unchanged.
func (c *Controller) Cancel() {
	c.mu.Lock()
	hadWork := c.session.IsActive || (c.busy && c.creating)
	if !hadWork {
		c.mu.Unlock()
		return
	}
	c.epoch++
	c.session = domain.NewCreationSession()
	c.appendLocked(domain.RoleAssistant, msgCancelled, nil)
	committed := c.session.Clone()
	c.mu.Unlock()

	logger.Info("campaign creation cancelled")
	c.notify(committed)
}

// AppendUser records text as a user message without processing it. It
// follows the same rules as SendMessage for blank input and busy sends.
func (c *Controller) AppendUser(text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, ErrEmptyMessage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return domain.Message{}, ErrBusy
	}
	return c.appendLocked(domain.RoleUser, text, nil), nil
}

// Announce appends an assistant message outside the send cycle, for
// example to report the outcome of finalizing a campaign.
func (c *Controller) Announce(content string, meta *domain.MessageMetadata) domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appendLocked(domain.RoleAssistant, content, meta)
}

// ResetCreation silently returns the session to its initial state, for
// example after the campaign was persisted.
func (c *Controller) ResetCreation() {
	c.mu.Lock()
	c.epoch++
	c.session = domain.NewCreationSession()
	committed := c.session.Clone()
	c.mu.Unlock()
	c.notify(committed)
}

// UpdateDraft replaces the session draft with fn(draft) while a session is
// active. It reports whether a session was active.
func (c *Controller) UpdateDraft(fn func(domain.Draft) domain.Draft) bool {
	c.mu.Lock()
	if !c.session.IsActive {
		c.mu.Unlock()
		return false
	}
	c.session.Draft = fn(c.session.Draft.Clone())
	committed := c.session.Clone()
	c.mu.Unlock()
	c.notify(committed)
	return true
}

func (c *Controller) notify(s domain.CreationSession) {
	if c.listener != nil {
		c.listener(s)
	}
}

func (c *Controller) finishLocked(status Status) {
	c.busy = false
	c.creating = false
	c.status = status
}

func (c *Controller) appendLocked(role domain.Role, content string, meta *domain.MessageMetadata) domain.Message {
	msg := domain.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: c.now().UTC(),
		Metadata:  meta,
	}
	c.messages = append(c.messages, msg)
	return msg
}

func recommendationsText(recs []domain.Recommendation) string {
	if len(recs) == 0 {
		return msgNoIdeas
	}
	var sb strings.Builder
	sb.WriteString("Let's create a campaign! Based on your data, here are some ideas:\n")
	for i, r := range recs {
		fmt.Fprintf(&sb, "\n%d. **%s** (%s confidence)\n   %s", i+1, r.Title, r.Confidence, r.Description)
	}
	sb.WriteString("\n\nReply with a number to pick one, or describe your own campaign idea.")
	return sb.String()
}

func cloneRecommendations(recs []domain.Recommendation) []domain.Recommendation {
	if recs == nil {
		return nil
	}
	out := make([]domain.Recommendation, len(recs))
	copy(out, recs)
	return out
}

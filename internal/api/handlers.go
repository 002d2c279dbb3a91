package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/campaign-manager/internal/conversation"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/pkg/httputil"
	"github.com/ignite/campaign-manager/internal/service/campaign"
	"github.com/ignite/campaign-manager/internal/wizard"
)

// CampaignReader looks up persisted campaigns.
type CampaignReader interface {
	Get(ctx context.Context, id string) (*domain.Campaign, error)
}

// Handlers serves the wizard and campaign endpoints.
type Handlers struct {
	sessions  *Registry
	campaigns CampaignReader
}

// NewHandlers wires handlers onto a session registry. campaigns may be nil.
func NewHandlers(sessions *Registry, campaigns CampaignReader) *Handlers {
	return &Handlers{sessions: sessions, campaigns: campaigns}
}

type sessionResponse struct {
	ID    string       `json:"id"`
	State wizard.State `json:"state"`
}

type messagesResponse struct {
	Messages []domain.Message `json:"messages"`
	State    wizard.State     `json:"state"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type createSessionRequest struct {
	StartCreation bool `json:"start_creation"`
}

type selectionResponse struct {
	Kind          wizard.Kind  `json:"kind"`
	ItemID        string       `json:"item_id"`
	Selected      bool         `json:"selected"`
	EnrichedDraft domain.Draft `json:"enriched_draft"`
}

// wizardFor resolves {id} or writes a 404.
func (h *Handlers) wizardFor(w http.ResponseWriter, r *http.Request) (*wizard.Controller, bool) {
	ctrl, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		httputil.NotFound(w, "session not found")
	}
	return ctrl, ok
}

// CreateSession handles POST /api/wizard/sessions. The body is optional.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength > 0 && !httputil.Decode(w, r, &req) {
		return
	}

	id, ctrl := h.sessions.Create()
	if req.StartCreation {
		if _, err := ctrl.StartCreation(r.Context()); err != nil {
			writeError(w, err)
			return
		}
	}
	httputil.Created(w, sessionResponse{ID: id, State: ctrl.State()})
}

// GetSession handles GET /api/wizard/sessions/{id}.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	httputil.OK(w, sessionResponse{ID: chi.URLParam(r, "id"), State: ctrl.State()})
}

// DeleteSession handles DELETE /api/wizard/sessions/{id}.
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Delete(chi.URLParam(r, "id")) {
		httputil.NotFound(w, "session not found")
		return
	}
	httputil.NoContent(w)
}

// SendMessage handles POST /api/wizard/sessions/{id}/messages.
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	msgs, err := ctrl.SendMessage(r.Context(), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, messagesResponse{Messages: msgs, State: ctrl.State()})
}

// StartCreation handles POST /api/wizard/sessions/{id}/creation.
func (h *Handlers) StartCreation(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	msgs, err := ctrl.StartCreation(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, messagesResponse{Messages: msgs, State: ctrl.State()})
}

// CancelCreation handles DELETE /api/wizard/sessions/{id}/creation.
func (h *Handlers) CancelCreation(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	ctrl.Cancel()
	httputil.NoContent(w)
}

// UpdateDraft handles PATCH /api/wizard/sessions/{id}/draft.
func (h *Handlers) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	var patch domain.DraftPatch
	if !httputil.Decode(w, r, &patch) {
		return
	}
	if err := ctrl.UpdateDraft(patch); err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, ctrl.State())
}

// ToggleSelection handles POST /api/wizard/sessions/{id}/selections/{kind}/{itemID}.
func (h *Handlers) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	kind, err := wizard.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	itemID := chi.URLParam(r, "itemID")
	selected, err := ctrl.Toggle(kind, itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, selectionResponse{
		Kind:          kind,
		ItemID:        itemID,
		Selected:      selected,
		EnrichedDraft: ctrl.EnrichedDraft(),
	})
}

// GetInsights handles GET /api/wizard/sessions/{id}/insights.
func (h *Handlers) GetInsights(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	httputil.OK(w, ctrl.Insights())
}

// Finalize handles POST /api/wizard/sessions/{id}/finalize.
func (h *Handlers) Finalize(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.wizardFor(w, r)
	if !ok {
		return
	}
	created, err := ctrl.Finalize(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, created)
}

// GetCampaign handles GET /api/campaigns/{id}.
func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	if h.campaigns == nil {
		httputil.NotFound(w, "campaign not found")
		return
	}
	c, err := h.campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, c)
}

// writeError maps domain errors onto the response envelope.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaign.ErrNotFound):
		httputil.NotFound(w, "campaign not found")
	case errors.Is(err, conversation.ErrEmptyMessage),
		errors.Is(err, wizard.ErrUnknownKind),
		errors.Is(err, wizard.ErrUnknownItem),
		errors.Is(err, campaign.ErrTitleRequired),
		errors.Is(err, campaign.ErrInvalidStatus):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, conversation.ErrBusy), errors.Is(err, wizard.ErrBusy):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, wizard.ErrNoSession):
		httputil.ErrorCode(w, http.StatusConflict, "no_session", err.Error())
	case errors.Is(err, wizard.ErrFinalizeFailed):
		httputil.BadGateway(w, "campaign could not be created", err)
	default:
		httputil.InternalError(w, err)
	}
}

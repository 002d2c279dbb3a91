package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/pkg/httpretry"
	"github.com/ignite/campaign-manager/internal/service/campaign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		BaseURL:         srv.URL + "/",
		APIKey:          "stack-key",
		ManagementToken: "mgmt-token",
		AppURL:          "https://app.cms.test",
	}, httpretry.NewRetryClient(srv.Client(), 2, httpretry.WithBackoff(time.Millisecond, 5*time.Millisecond)))
}

func TestClient_Create(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/content_types/campaign/entries", r.URL.Path)
		assert.Equal(t, "Bearer mgmt-token", r.Header.Get("Authorization"))
		assert.Equal(t, "stack-key", r.Header.Get("api_key"))

		var body entryEnvelope
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Summer Sale", body.Entry.Title)
		assert.Equal(t, []string{"Email"}, body.Entry.Channels)
		assert.Equal(t, "2025-06-02T09:00:00Z", body.Entry.CreatedAt)

		body.Entry.UID = "blt123"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	created := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	got, err := testClient(srv).Create(context.Background(), &domain.Campaign{
		ID:        "local-id",
		Title:     "Summer Sale",
		Status:    domain.CampaignPlanned,
		Channels:  []string{"Email"},
		CreatedAt: created,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "blt123", got.ID)
	assert.Equal(t, "https://app.cms.test/content-type/campaign/entry/blt123", got.URL)
	assert.Equal(t, domain.CampaignPlanned, got.Status)
	assert.Equal(t, created, got.CreatedAt)
}

func TestClient_CreateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error_message":"title is not unique"}`))
	}))
	defer srv.Close()

	got, err := testClient(srv).Create(context.Background(), &domain.Campaign{Title: "Dup"})
	assert.Nil(t, got)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "not unique")
}

func TestClient_CreateIsNotReplayedOnGatewayError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	got, err := testClient(srv).Create(context.Background(), &domain.Campaign{Title: "Summer Sale"})
	assert.Nil(t, got)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "a create that may have been stored is not sent twice")
}

func TestClient_GetRetriesUnavailable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"entry":{"uid":"blt123","title":"Summer Sale"}}`))
	}))
	defer srv.Close()

	got, err := testClient(srv).Get(context.Background(), "blt123")
	require.NoError(t, err)
	assert.Equal(t, "blt123", got.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/content_types/campaign/entries/blt123":
			_, _ = w.Write([]byte(`{"entry":{"uid":"blt123","title":"Summer Sale","url":"/summer","status":"planned","created_at":"2025-06-02T09:00:00Z"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := testClient(srv)
	got, err := c.Get(context.Background(), "blt123")
	require.NoError(t, err)
	assert.Equal(t, "/summer", got.URL)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), got.CreatedAt)

	_, err = c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://cms.test"}, nil)
	assert.False(t, c.IsConfigured())
	_, err := c.Create(context.Background(), &domain.Campaign{Title: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

var _ campaign.Repository = (*Client)(nil)

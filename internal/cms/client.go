// Package cms stores campaigns as entries of a headless CMS content type
// through its management REST API.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/pkg/httpretry"
	"github.com/ignite/campaign-manager/internal/service/campaign"
	"golang.org/x/oauth2"
)

// DefaultContentType is the content type uid campaigns are stored under.
const DefaultContentType = "campaign"

// ErrNotConfigured is returned when the client lacks a base URL or credentials.
var ErrNotConfigured = errors.New("cms: client not configured")

// APIError is a non-2xx response from the CMS.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cms: status %d: %s", e.StatusCode, e.Body)
}

// Config holds the CMS connection settings.
type Config struct {
	BaseURL         string
	APIKey          string
	ManagementToken string
	ContentType     string
	// AppURL is where editors open entries; used to build campaign URLs.
	AppURL string
}

// Client implements campaign.Repository against the CMS.
type Client struct {
	cfg    Config
	http   httpretry.HTTPDoer
	tokens oauth2.TokenSource
}

// NewClient returns a client that retries transient failures. A nil doer
// uses a default retrying http.Client.
func NewClient(cfg Config, doer httpretry.HTTPDoer) *Client {
	if cfg.ContentType == "" {
		cfg.ContentType = DefaultContentType
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	if doer == nil {
		doer = httpretry.NewRetryClient(&http.Client{Timeout: 15 * time.Second}, 3)
	}
	return &Client{
		cfg:    cfg,
		http:   doer,
		tokens: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.ManagementToken, TokenType: "Bearer"}),
	}
}

// IsConfigured reports whether the client can talk to the CMS.
func (c *Client) IsConfigured() bool {
	return c.cfg.BaseURL != "" && c.cfg.APIKey != "" && c.cfg.ManagementToken != ""
}

type entry struct {
	UID          string   `json:"uid,omitempty"`
	Title        string   `json:"title"`
	URL          string   `json:"url,omitempty"`
	Status       string   `json:"status"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Channels     []string `json:"channels"`
	Budget       string   `json:"budget,omitempty"`
	Audiences    []string `json:"audiences,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
	BrandKit     string   `json:"brand_kit,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

type entryEnvelope struct {
	Entry entry `json:"entry"`
}

// Create posts c as a new entry and returns the campaign with the uid and
// URL assigned by the CMS.
func (c *Client) Create(ctx context.Context, in *domain.Campaign) (*domain.Campaign, error) {
	e := entry{
		Title:        in.Title,
		Status:       string(in.Status),
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Channels:     in.Channels,
		Budget:       in.Budget,
		Audiences:    in.Audiences,
		Contributors: in.Contributors,
		BrandKit:     in.BrandKit,
	}
	if !in.CreatedAt.IsZero() {
		e.CreatedAt = in.CreatedAt.UTC().Format(time.RFC3339)
	}

	var out entryEnvelope
	if err := c.do(ctx, http.MethodPost, c.entriesPath(), entryEnvelope{Entry: e}, &out); err != nil {
		return nil, err
	}
	return c.toCampaign(out.Entry, in.CreatedAt), nil
}

// Get fetches one entry by uid.
func (c *Client) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	var out entryEnvelope
	err := c.do(ctx, http.MethodGet, c.entriesPath()+"/"+url.PathEscape(id), nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	created, _ := time.Parse(time.RFC3339, out.Entry.CreatedAt)
	return c.toCampaign(out.Entry, created), nil
}

func (c *Client) entriesPath() string {
	return "/v3/content_types/" + url.PathEscape(c.cfg.ContentType) + "/entries"
}

func (c *Client) toCampaign(e entry, created time.Time) *domain.Campaign {
	u := e.URL
	if u == "" && c.cfg.AppURL != "" && e.UID != "" {
		u = c.cfg.AppURL + "/content-type/" + url.PathEscape(c.cfg.ContentType) + "/entry/" + url.PathEscape(e.UID)
	}
	return &domain.Campaign{
		ID:           e.UID,
		Title:        e.Title,
		URL:          u,
		Status:       domain.CampaignStatus(e.Status),
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
		Channels:     e.Channels,
		Budget:       e.Budget,
		Audiences:    e.Audiences,
		Contributors: e.Contributors,
		BrandKit:     e.BrandKit,
		CreatedAt:    created,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cms: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("cms: build request: %w", err)
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("cms: token: %w", err)
	}
	tok.SetAuthHeader(req)
	req.Header.Set("api_key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cms: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("cms: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("cms: decode response: %w", err)
	}
	return nil
}

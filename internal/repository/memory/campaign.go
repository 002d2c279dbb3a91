// Package memory holds in-process repositories used in demo mode and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/service/campaign"
)

// CampaignRepo keeps campaigns in a map. Stored values are copied in and
// out so callers never share slices with the repository.
type CampaignRepo struct {
	mu        sync.RWMutex
	baseURL   string
	campaigns map[string]domain.Campaign
}

// NewCampaignRepo returns an empty repository.
func NewCampaignRepo(baseURL string) *CampaignRepo {
	return &CampaignRepo{baseURL: strings.TrimRight(baseURL, "/"), campaigns: make(map[string]domain.Campaign)}
}

func (r *CampaignRepo) Create(_ context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	out := clone(*c)
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.URL = r.baseURL + "/campaigns/" + out.ID

	r.mu.Lock()
	r.campaigns[out.ID] = clone(out)
	r.mu.Unlock()
	return &out, nil
}

func (r *CampaignRepo) Get(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.RLock()
	c, ok := r.campaigns[id]
	r.mu.RUnlock()
	if !ok {
		return nil, campaign.ErrNotFound
	}
	out := clone(c)
	return &out, nil
}

// Len returns the number of stored campaigns.
func (r *CampaignRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.campaigns)
}

func clone(c domain.Campaign) domain.Campaign {
	c.Channels = append([]string(nil), c.Channels...)
	c.Audiences = append([]string(nil), c.Audiences...)
	c.Contributors = append([]string(nil), c.Contributors...)
	return c
}

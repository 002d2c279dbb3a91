package campaign

import (
	"context"

	"github.com/ignite/campaign-manager/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Create stores c and returns the stored campaign. Backends may assign
	// their own ID and URL.
	Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)

	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Campaign, error)
}

// FormData is the whitelisted shape handed to persistence. Rich-text
// fields (key messages, goals, market research) are not part of it.
type FormData struct {
	Title        string   `json:"title"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Channels     []string `json:"channels"`
	Budget       string   `json:"budget,omitempty"`
	Audiences    []string `json:"audiences,omitempty"`
	Contributors []string `json:"contributors,omitempty"`
	BrandKit     string   `json:"brand_kit,omitempty"`
	Status       string   `json:"status"`
}

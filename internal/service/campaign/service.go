package campaign

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/pkg/logger"
)

// Service implements campaign persistence rules. All public methods are
// safe for concurrent use if the underlying repository is.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a campaign service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.Get(ctx, id)
}

// Create validates form data and persists it. An empty status becomes
// planned.
func (s *Service) Create(ctx context.Context, f FormData) (*domain.Campaign, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	status := domain.CampaignStatus(strings.ToLower(strings.TrimSpace(f.Status)))
	if status == "" {
		status = domain.CampaignPlanned
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, f.Status)
	}

	c := &domain.Campaign{
		ID:           uuid.New().String(),
		Title:        title,
		Status:       status,
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
		Channels:     append([]string(nil), f.Channels...),
		Budget:       f.Budget,
		Audiences:    append([]string(nil), f.Audiences...),
		Contributors: append([]string(nil), f.Contributors...),
		BrandKit:     f.BrandKit,
		CreatedAt:    s.now().UTC(),
	}

	stored, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	logger.Info("campaign created", "id", stored.ID, "title", stored.Title, "status", string(stored.Status))
	return stored, nil
}

func validStatus(s domain.CampaignStatus) bool {
	switch s {
	case domain.CampaignDraft, domain.CampaignPlanned, domain.CampaignActive,
		domain.CampaignCompleted, domain.CampaignCancelled:
		return true
	}
	return false
}

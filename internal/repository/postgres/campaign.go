package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ignite/campaign-manager/internal/domain"
	"github.com/ignite/campaign-manager/internal/service/campaign"
	"github.com/lib/pq"
)

// CampaignRepo implements campaign.Repository against PostgreSQL.
type CampaignRepo struct {
	db      *sql.DB
	baseURL string
}

// NewCampaignRepo creates a Postgres-backed campaign repository. baseURL
// prefixes the id to form each campaign's URL.
func NewCampaignRepo(db *sql.DB, baseURL string) *CampaignRepo {
	return &CampaignRepo{db: db, baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	out := *c
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.URL = r.baseURL + "/campaigns/" + out.ID

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns
			(id, title, url, status, start_date, end_date, channels, budget,
			 audiences, contributors, brand_kit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, out.ID, out.Title, out.URL, out.Status, out.StartDate, out.EndDate,
		pq.Array(out.Channels), out.Budget, pq.Array(out.Audiences),
		pq.Array(out.Contributors), out.BrandKit, out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return &out, nil
}

func (r *CampaignRepo) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, url, status, start_date, end_date, channels,
		       COALESCE(budget,''), audiences, contributors, COALESCE(brand_kit,''), created_at
		FROM campaigns
		WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Title, &c.URL, &c.Status, &c.StartDate, &c.EndDate,
		pq.Array(&c.Channels), &c.Budget, pq.Array(&c.Audiences),
		pq.Array(&c.Contributors), &c.BrandKit, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

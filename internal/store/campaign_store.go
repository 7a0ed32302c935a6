package store

import (
	"context"
	"time"

	"sosol/internal/models"
)

type CampaignStore struct {
	db DB
}

func NewCampaignStore(db DB) *CampaignStore {
	return &CampaignStore{db: db}
}

type CampaignInput struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	GoalAmount  int64
	EndDate     time.Time
}

func (s *CampaignStore) Create(ctx context.Context, tx Execer, input CampaignInput) error {
	query := `
		INSERT INTO campaigns (id, owner_id, title, description, goal_amount, status, end_date)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.OwnerID, input.Title, input.Description, input.GoalAmount, input.EndDate,
	)
	return err
}

func (s *CampaignStore) GetByID(ctx context.Context, q Getter, campaignID string) (models.Campaign, error) {
	var row models.Campaign
	err := q.GetContext(ctx, &row, `
		SELECT id, owner_id, title, description, goal_amount, status, end_date, created_at
		FROM campaigns
		WHERE id = $1
	`, campaignID)
	return row, err
}

// CampaignSummary is a campaign with its derived raised total; total_raised is
// always SUM(donations.amount), never a stored counter.
type CampaignSummary struct {
	models.Campaign
	TotalRaised   int64 `db:"total_raised"`
	DonationCount int   `db:"donation_count"`
}

func (s *CampaignStore) ListActive(ctx context.Context, limit, offset int) ([]CampaignSummary, error) {
	var rows []CampaignSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.id, c.owner_id, c.title, c.description, c.goal_amount, c.status, c.end_date, c.created_at,
		       COALESCE(SUM(d.amount), 0) AS total_raised,
		       COUNT(d.id) AS donation_count
		FROM campaigns c
		LEFT JOIN donations d ON d.campaign_id = c.id AND d.status = 'completed'
		WHERE c.status = 'active'
		GROUP BY c.id
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

func (s *CampaignStore) GetSummary(ctx context.Context, campaignID string) (CampaignSummary, error) {
	var row CampaignSummary
	err := s.db.GetContext(ctx, &row, `
		SELECT c.id, c.owner_id, c.title, c.description, c.goal_amount, c.status, c.end_date, c.created_at,
		       COALESCE(SUM(d.amount), 0) AS total_raised,
		       COUNT(d.id) AS donation_count
		FROM campaigns c
		LEFT JOIN donations d ON d.campaign_id = c.id AND d.status = 'completed'
		WHERE c.id = $1
		GROUP BY c.id
	`, campaignID)
	return row, err
}

// Activate flips a pending campaign live. The status guard keeps ended or
// already-active campaigns from being reopened; zero rows means the campaign
// is missing or not pending.
func (s *CampaignStore) Activate(ctx context.Context, tx Execer, campaignID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE campaigns SET status = 'active' WHERE id = $1 AND status = 'pending'
	`, campaignID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type DonationInput struct {
	ID         string
	CampaignID string
	DonorID    string
	Amount     int64
	Message    *string
}

func (s *CampaignStore) CreateDonation(ctx context.Context, tx Execer, input DonationInput) error {
	query := `
		INSERT INTO donations (id, campaign_id, donor_id, amount, message, status)
		VALUES ($1, $2, $3, $4, $5, 'completed')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.CampaignID, input.DonorID, input.Amount, input.Message,
	)
	return err
}

func (s *CampaignStore) ListDonations(ctx context.Context, campaignID string, limit, offset int) ([]models.Donation, error) {
	var rows []models.Donation
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, campaign_id, donor_id, amount, message, status, created_at
		FROM donations
		WHERE campaign_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, campaignID, limit, offset)
	return rows, err
}

func (s *CampaignStore) CreateUpdate(ctx context.Context, tx Execer, id, campaignID, authorID, body string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO campaign_updates (id, campaign_id, author_id, body)
		VALUES ($1, $2, $3, $4)
	`, id, campaignID, authorID, body)
	return err
}

func (s *CampaignStore) ListUpdates(ctx context.Context, campaignID string) ([]models.CampaignUpdate, error) {
	var rows []models.CampaignUpdate
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, campaign_id, author_id, body, created_at
		FROM campaign_updates
		WHERE campaign_id = $1
		ORDER BY created_at DESC
	`, campaignID)
	return rows, err
}

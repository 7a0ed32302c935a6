package store

import (
	"context"

	"sosol/internal/models"
)

type SolStore struct {
	db DB
}

func NewSolStore(db DB) *SolStore {
	return &SolStore{db: db}
}

type SolGroupInput struct {
	ID                 string
	Name               string
	CreatedBy          string
	ContributionAmount int64
	Frequency          string
	TotalCycles        int
}

func (s *SolStore) CreateGroup(ctx context.Context, tx Execer, input SolGroupInput) error {
	query := `
		INSERT INTO sol_groups (id, name, created_by, contribution_amount, frequency, total_cycles, current_cycle, status)
		VALUES ($1, $2, $3, $4, $5, $6, 1, 'active')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Name, input.CreatedBy, input.ContributionAmount, input.Frequency, input.TotalCycles,
	)
	return err
}

func (s *SolStore) GetGroup(ctx context.Context, q Getter, groupID string) (models.SolGroup, error) {
	var row models.SolGroup
	err := q.GetContext(ctx, &row, `
		SELECT id, name, created_by, contribution_amount, frequency, total_cycles, current_cycle, status, created_at
		FROM sol_groups
		WHERE id = $1
	`, groupID)
	return row, err
}

// GetGroupForUpdate locks the group row: cycle advancement and the payout
// decision both read current_cycle, so they serialize on the group.
func (s *SolStore) GetGroupForUpdate(ctx context.Context, tx Getter, groupID string) (models.SolGroup, error) {
	var row models.SolGroup
	err := tx.GetContext(ctx, &row, `
		SELECT id, name, created_by, contribution_amount, frequency, total_cycles, current_cycle, status, created_at
		FROM sol_groups
		WHERE id = $1
		FOR UPDATE
	`, groupID)
	return row, err
}

func (s *SolStore) ListGroupsByUser(ctx context.Context, userID string) ([]models.SolGroup, error) {
	var rows []models.SolGroup
	err := s.db.SelectContext(ctx, &rows, `
		SELECT g.id, g.name, g.created_by, g.contribution_amount, g.frequency, g.total_cycles, g.current_cycle, g.status, g.created_at
		FROM sol_groups g
		JOIN sol_participants p ON p.group_id = g.id
		WHERE p.user_id = $1
		ORDER BY g.created_at DESC
	`, userID)
	return rows, err
}

func (s *SolStore) AddParticipant(ctx context.Context, tx Execer, id, groupID, userID, role string, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sol_participants (id, group_id, user_id, role, position)
		VALUES ($1, $2, $3, $4, $5)
	`, id, groupID, userID, role, position)
	return err
}

func (s *SolStore) GetParticipant(ctx context.Context, q Getter, groupID, userID string) (models.SolParticipant, error) {
	var row models.SolParticipant
	err := q.GetContext(ctx, &row, `
		SELECT id, group_id, user_id, role, position, joined_at
		FROM sol_participants
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	return row, err
}

func (s *SolStore) ListParticipants(ctx context.Context, groupID string) ([]models.SolParticipant, error) {
	var rows []models.SolParticipant
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, group_id, user_id, role, position, joined_at
		FROM sol_participants
		WHERE group_id = $1
		ORDER BY position
	`, groupID)
	return rows, err
}

func (s *SolStore) CountParticipants(ctx context.Context, q Getter, groupID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM sol_participants WHERE group_id = $1
	`, groupID)
	return count, err
}

// ParticipantByPosition resolves the payout recipient for a cycle: positions
// are assigned at join time and cycle N pays position N.
func (s *SolStore) ParticipantByPosition(ctx context.Context, q Getter, groupID string, position int) (models.SolParticipant, error) {
	var row models.SolParticipant
	err := q.GetContext(ctx, &row, `
		SELECT id, group_id, user_id, role, position, joined_at
		FROM sol_participants
		WHERE group_id = $1 AND position = $2
	`, groupID, position)
	return row, err
}

type SolContributionInput struct {
	ID            string
	GroupID       string
	UserID        string
	Cycle         int
	Amount        int64
	TransactionID string
}

func (s *SolStore) CreateContribution(ctx context.Context, tx Execer, input SolContributionInput) error {
	query := `
		INSERT INTO sol_contributions (id, group_id, user_id, cycle, amount, status, transaction_id)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.GroupID, input.UserID, input.Cycle, input.Amount, input.TransactionID,
	)
	return err
}

func (s *SolStore) ApproveContribution(ctx context.Context, tx Execer, contributionID, approverID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE sol_contributions
		SET status = 'approved', approved_by = $1, approved_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`, approverID, contributionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SolStore) GetContribution(ctx context.Context, q Getter, contributionID string) (models.SolContribution, error) {
	var row models.SolContribution
	err := q.GetContext(ctx, &row, `
		SELECT id, group_id, user_id, cycle, amount, status, transaction_id, approved_by, approved_at, created_at
		FROM sol_contributions
		WHERE id = $1
	`, contributionID)
	return row, err
}

func (s *SolStore) ListContributions(ctx context.Context, groupID string, cycle int) ([]models.SolContribution, error) {
	var rows []models.SolContribution
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, group_id, user_id, cycle, amount, status, transaction_id, approved_by, approved_at, created_at
		FROM sol_contributions
		WHERE group_id = $1 AND cycle = $2
		ORDER BY created_at
	`, groupID, cycle)
	return rows, err
}

func (s *SolStore) HasContributed(ctx context.Context, q Getter, groupID, userID string, cycle int) (bool, error) {
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM sol_contributions
		WHERE group_id = $1 AND user_id = $2 AND cycle = $3
	`, groupID, userID, cycle)
	return count > 0, err
}

func (s *SolStore) SumApproved(ctx context.Context, q Getter, groupID string, cycle int) (int64, error) {
	var sum int64
	err := q.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM sol_contributions
		WHERE group_id = $1 AND cycle = $2 AND status = 'approved'
	`, groupID, cycle)
	return sum, err
}

func (s *SolStore) CountApproved(ctx context.Context, q Getter, groupID string, cycle int) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM sol_contributions
		WHERE group_id = $1 AND cycle = $2 AND status = 'approved'
	`, groupID, cycle)
	return count, err
}

type SolPayoutInput struct {
	ID            string
	GroupID       string
	Cycle         int
	RecipientID   string
	Amount        int64
	TransactionID string
}

func (s *SolStore) CreatePayoutEvent(ctx context.Context, tx Execer, input SolPayoutInput) error {
	query := `
		INSERT INTO sol_payout_events (id, group_id, cycle, recipient_id, amount, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.GroupID, input.Cycle, input.RecipientID, input.Amount, input.TransactionID,
	)
	return err
}

func (s *SolStore) ListPayoutEvents(ctx context.Context, groupID string) ([]models.SolPayoutEvent, error) {
	var rows []models.SolPayoutEvent
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, group_id, cycle, recipient_id, amount, transaction_id, created_at
		FROM sol_payout_events
		WHERE group_id = $1
		ORDER BY cycle
	`, groupID)
	return rows, err
}

func (s *SolStore) SetCycle(ctx context.Context, tx Execer, groupID string, cycle int, status string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE sol_groups SET current_cycle = $1, status = $2 WHERE id = $3
	`, cycle, status, groupID)
	return err
}

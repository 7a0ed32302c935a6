package store

import (
	"context"

	"sosol/internal/models"
)

type LoanStore struct {
	db DB
}

func NewLoanStore(db DB) *LoanStore {
	return &LoanStore{db: db}
}

type LoanInput struct {
	ID             string
	BorrowerID     string
	Amount         int64
	InterestRate   string
	DurationMonths int
}

func (s *LoanStore) Create(ctx context.Context, tx Execer, input LoanInput) error {
	query := `
		INSERT INTO loans (id, borrower_id, amount, interest_rate, duration_months, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.BorrowerID, input.Amount, input.InterestRate, input.DurationMonths,
	)
	return err
}

func (s *LoanStore) GetForUpdate(ctx context.Context, tx Getter, loanID string) (models.Loan, error) {
	var row models.Loan
	err := tx.GetContext(ctx, &row, `
		SELECT id, borrower_id, lender_id, amount, interest_rate, duration_months, status, funded_at, repaid_at, created_at
		FROM loans
		WHERE id = $1
		FOR UPDATE
	`, loanID)
	return row, err
}

func (s *LoanStore) GetByID(ctx context.Context, loanID string) (models.Loan, error) {
	var row models.Loan
	err := s.db.GetContext(ctx, &row, `
		SELECT id, borrower_id, lender_id, amount, interest_rate, duration_months, status, funded_at, repaid_at, created_at
		FROM loans
		WHERE id = $1
	`, loanID)
	return row, err
}

func (s *LoanStore) MarkFunded(ctx context.Context, tx Execer, loanID, lenderID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE loans
		SET status = 'funded', lender_id = $1, funded_at = NOW()
		WHERE id = $2
	`, lenderID, loanID)
	return err
}

func (s *LoanStore) MarkRepaid(ctx context.Context, tx Execer, loanID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE loans
		SET status = 'repaid', repaid_at = NOW()
		WHERE id = $1
	`, loanID)
	return err
}

func (s *LoanStore) ListOpen(ctx context.Context, limit, offset int) ([]models.Loan, error) {
	var rows []models.Loan
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, borrower_id, lender_id, amount, interest_rate, duration_months, status, funded_at, repaid_at, created_at
		FROM loans
		WHERE status = 'pending'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

func (s *LoanStore) ListByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	var rows []models.Loan
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, borrower_id, lender_id, amount, interest_rate, duration_months, status, funded_at, repaid_at, created_at
		FROM loans
		WHERE borrower_id = $1 OR lender_id = $1
		ORDER BY created_at DESC
	`, userID)
	return rows, err
}

package store

import (
	"context"

	"sosol/internal/models"
)

type LinkedAccountStore struct {
	db DB
}

func NewLinkedAccountStore(db DB) *LinkedAccountStore {
	return &LinkedAccountStore{db: db}
}

type LinkedAccountInput struct {
	ID            string
	UserID        string
	Type          string
	Label         string
	AccountNumber *string
	SwiftBic      *string
}

func (s *LinkedAccountStore) Create(ctx context.Context, tx Execer, input LinkedAccountInput) error {
	query := `
		INSERT INTO linked_accounts (id, user_id, type, label, account_number, swift_bic, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.Type, input.Label, input.AccountNumber, input.SwiftBic,
	)
	return err
}

func (s *LinkedAccountStore) ListByUser(ctx context.Context, userID string) ([]models.LinkedAccount, error) {
	var rows []models.LinkedAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, label, account_number, swift_bic, is_active, created_at
		FROM linked_accounts
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`, userID)
	return rows, err
}

// Deactivate soft-deletes; linked accounts are never hard-deleted because
// past transactions reference them.
func (s *LinkedAccountStore) Deactivate(ctx context.Context, tx Execer, accountID, userID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE linked_accounts
		SET is_active = FALSE
		WHERE id = $1 AND user_id = $2
	`, accountID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

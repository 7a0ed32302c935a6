package store

import (
	"context"

	"sosol/internal/models"
)

type PaymentMethodStore struct {
	db DB
}

func NewPaymentMethodStore(db DB) *PaymentMethodStore {
	return &PaymentMethodStore{db: db}
}

type PaymentMethodInput struct {
	ID      string
	UserID  string
	Type    string
	Label   string
	Details string
}

// Create inserts the method and makes it the default when the user has no
// default yet. Runs inside a transaction so the one-default invariant holds
// under concurrent adds.
func (s *PaymentMethodStore) Create(ctx context.Context, tx Tx, input PaymentMethodInput) error {
	var existing int
	if err := tx.GetContext(ctx, &existing, `
		SELECT COUNT(1) FROM payment_methods WHERE user_id = $1 AND is_default = TRUE
	`, input.UserID); err != nil {
		return err
	}
	query := `
		INSERT INTO payment_methods (id, user_id, type, label, details, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.Type, input.Label, input.Details, existing == 0,
	)
	return err
}

func (s *PaymentMethodStore) GetByID(ctx context.Context, methodID string) (models.PaymentMethod, error) {
	var row models.PaymentMethod
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, type, label, details, is_default, created_at
		FROM payment_methods
		WHERE id = $1
	`, methodID)
	return row, err
}

func (s *PaymentMethodStore) ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	var rows []models.PaymentMethod
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, label, details, is_default, created_at
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	return rows, err
}

// SetDefault clears the previous default and flags the new one in the same
// transaction, so at most one method per user is ever default.
func (s *PaymentMethodStore) SetDefault(ctx context.Context, tx Execer, methodID, userID string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		UPDATE payment_methods SET is_default = FALSE WHERE user_id = $1 AND is_default = TRUE
	`, userID); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE payment_methods SET is_default = TRUE WHERE id = $1 AND user_id = $2
	`, methodID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PaymentMethodStore) Delete(ctx context.Context, tx Execer, methodID, userID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM payment_methods WHERE id = $1 AND user_id = $2
	`, methodID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

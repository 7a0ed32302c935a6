package store

import (
	"context"

	"sosol/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID              string
	UserID          string
	WalletID        string
	Type            string
	Direction       string
	Amount          int64
	Currency        string
	ReferenceType   *string
	ReferenceID     *string
	Metadata        string
	ClientRequestID *string
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, user_id, wallet_id, type, direction, status, amount, currency, reference_type, reference_id, metadata, client_request_id)
		VALUES ($1, $2, $3, $4, $5, 'completed', $6, $7, $8, $9, $10, $11)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.WalletID, input.Type, input.Direction,
		input.Amount, input.Currency, input.ReferenceType, input.ReferenceID,
		input.Metadata, input.ClientRequestID,
	)
	return err
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]models.Transaction, error) {
	var rows []models.Transaction
	query := `
		SELECT id, user_id, wallet_id, type, direction, status, amount, currency,
		       reference_type, reference_id, metadata, client_request_id, created_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}
	if txType != "" {
		query += ` AND type = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, txType, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	err := s.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, wallet_id, type, direction, status, amount, currency,
		       reference_type, reference_id, metadata, client_request_id, created_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

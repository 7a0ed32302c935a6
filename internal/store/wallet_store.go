package store

import (
	"context"

	"sosol/internal/models"
)

type WalletStore struct {
	db DB
}

func NewWalletStore(db DB) *WalletStore {
	return &WalletStore{db: db}
}

func (s *WalletStore) Create(ctx context.Context, tx Execer, id, userID string) error {
	query := `
		INSERT INTO wallets (id, user_id, balance_htg)
		VALUES ($1, $2, 0)
	`
	_, err := tx.ExecContext(ctx, query, id, userID)
	return err
}

func (s *WalletStore) GetByUser(ctx context.Context, userID string) (models.Wallet, error) {
	var row models.Wallet
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, balance_htg, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID)
	return row, err
}

// GetForUpdateByUser re-fetches the authoritative balance under the current
// transaction with a row lock. Every debit or credit starts here.
func (s *WalletStore) GetForUpdateByUser(ctx context.Context, tx Getter, userID string) (models.Wallet, error) {
	var row models.Wallet
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, balance_htg, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`, userID)
	return row, err
}

func (s *WalletStore) UpdateBalance(ctx context.Context, tx Execer, walletID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance_htg = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, walletID)
	return err
}

// WalletDrift is one wallet whose stored balance disagrees with the signed
// sum of its completed transactions. Balanced wallets are not reported.
type WalletDrift struct {
	WalletID      string `db:"wallet_id"`
	UserID        string `db:"user_id"`
	StoredBalance int64  `db:"stored_balance"`
	LedgerBalance int64  `db:"ledger_balance"`
	Difference    int64  `db:"difference"`
}

func (s *WalletStore) Reconcile(ctx context.Context) ([]WalletDrift, error) {
	var rows []WalletDrift
	err := s.db.SelectContext(ctx, &rows, `
		SELECT w.id AS wallet_id,
		       w.user_id,
		       w.balance_htg AS stored_balance,
		       COALESCE(SUM(CASE t.direction WHEN 'credit' THEN t.amount ELSE -t.amount END), 0) AS ledger_balance,
		       (w.balance_htg - COALESCE(SUM(CASE t.direction WHEN 'credit' THEN t.amount ELSE -t.amount END), 0)) AS difference
		FROM wallets w
		LEFT JOIN transactions t ON t.wallet_id = w.id AND t.status = 'completed'
		GROUP BY w.id, w.user_id, w.balance_htg
		HAVING w.balance_htg <> COALESCE(SUM(CASE t.direction WHEN 'credit' THEN t.amount ELSE -t.amount END), 0)
		ORDER BY difference DESC
	`)
	return rows, err
}

package store

import (
	"context"
	"time"

	"sosol/internal/models"
)

type TiKaneStore struct {
	db DB
}

func NewTiKaneStore(db DB) *TiKaneStore {
	return &TiKaneStore{db: db}
}

type TiKaneAccountInput struct {
	ID               string
	UserID           string
	Name             string
	AmountPerPayment int64
	Frequency        string
	TotalPayments    int
	StartDate        time.Time
}

func (s *TiKaneStore) CreateAccount(ctx context.Context, tx Execer, input TiKaneAccountInput) error {
	query := `
		INSERT INTO ti_kane_accounts (id, user_id, name, amount_per_payment, frequency, total_payments, start_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active')
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.Name, input.AmountPerPayment,
		input.Frequency, input.TotalPayments, input.StartDate,
	)
	return err
}

type TiKanePaymentInput struct {
	ID        string
	AccountID string
	DayNumber int
	DueDate   time.Time
	Amount    int64
}

func (s *TiKaneStore) CreatePayments(ctx context.Context, tx Execer, payments []TiKanePaymentInput) error {
	query := `
		INSERT INTO ti_kane_payments (id, account_id, day_number, due_date, amount, status)
		VALUES ($1, $2, $3, $4, $5, 'due')
	`
	for _, payment := range payments {
		if _, err := tx.ExecContext(ctx, query,
			payment.ID, payment.AccountID, payment.DayNumber, payment.DueDate, payment.Amount,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *TiKaneStore) GetAccount(ctx context.Context, q Getter, accountID string) (models.TiKaneAccount, error) {
	var row models.TiKaneAccount
	err := q.GetContext(ctx, &row, `
		SELECT id, user_id, name, amount_per_payment, frequency, total_payments, start_date, status, created_at
		FROM ti_kane_accounts
		WHERE id = $1
	`, accountID)
	return row, err
}

func (s *TiKaneStore) GetAccountForUpdate(ctx context.Context, tx Getter, accountID string) (models.TiKaneAccount, error) {
	var row models.TiKaneAccount
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, name, amount_per_payment, frequency, total_payments, start_date, status, created_at
		FROM ti_kane_accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	return row, err
}

func (s *TiKaneStore) ListAccountsByUser(ctx context.Context, userID string) ([]models.TiKaneAccount, error) {
	var rows []models.TiKaneAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, name, amount_per_payment, frequency, total_payments, start_date, status, created_at
		FROM ti_kane_accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return rows, err
}

// GetPaymentForUpdate locks the schedule entry; the mark-paid flow checks the
// status under this lock, which is what makes re-submitting a paid entry a
// no-op instead of a second debit.
func (s *TiKaneStore) GetPaymentForUpdate(ctx context.Context, tx Getter, accountID string, dayNumber int) (models.TiKanePayment, error) {
	var row models.TiKanePayment
	err := tx.GetContext(ctx, &row, `
		SELECT id, account_id, day_number, due_date, amount, status, transaction_id, paid_at
		FROM ti_kane_payments
		WHERE account_id = $1 AND day_number = $2
		FOR UPDATE
	`, accountID, dayNumber)
	return row, err
}

func (s *TiKaneStore) MarkPaid(ctx context.Context, tx Execer, paymentID, transactionID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE ti_kane_payments
		SET status = 'paid', transaction_id = $1, paid_at = NOW()
		WHERE id = $2 AND status = 'due'
	`, transactionID, paymentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TiKaneStore) ListPayments(ctx context.Context, accountID string) ([]models.TiKanePayment, error) {
	var rows []models.TiKanePayment
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, day_number, due_date, amount, status, transaction_id, paid_at
		FROM ti_kane_payments
		WHERE account_id = $1
		ORDER BY day_number
	`, accountID)
	return rows, err
}

func (s *TiKaneStore) CountDue(ctx context.Context, q Getter, accountID string) (int, error) {
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM ti_kane_payments WHERE account_id = $1 AND status = 'due'
	`, accountID)
	return count, err
}

func (s *TiKaneStore) SumPaid(ctx context.Context, q Getter, accountID string) (int64, error) {
	var sum int64
	err := q.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM ti_kane_payments WHERE account_id = $1 AND status = 'paid'
	`, accountID)
	return sum, err
}

func (s *TiKaneStore) CompleteAccount(ctx context.Context, tx Execer, accountID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE ti_kane_accounts SET status = 'completed' WHERE id = $1 AND status = 'active'
	`, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

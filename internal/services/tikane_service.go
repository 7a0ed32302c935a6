package services

import (
	"context"
	"fmt"
	"time"

	"sosol/internal/db"
	"sosol/internal/models"
	"sosol/internal/money"
	"sosol/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TiKaneService struct {
	txRunner db.TxRunner
	ledger   *LedgerService
	tikane   TiKaneStore
	effects  *SideEffects
}

func NewTiKaneService(txRunner db.TxRunner, ledger *LedgerService, tikane TiKaneStore, effects *SideEffects) *TiKaneService {
	return &TiKaneService{
		txRunner: txRunner,
		ledger:   ledger,
		tikane:   tikane,
		effects:  effects,
	}
}

type CreatePlanRequest struct {
	UserID           string
	Name             string
	AmountPerPayment int64
	Frequency        string
	TotalPayments    int
	StartDate        time.Time
}

// CreatePlan opens a Ti Kanè account and generates its full payment schedule
// up front: TotalPayments entries spaced by the plan frequency.
func (s *TiKaneService) CreatePlan(ctx context.Context, req CreatePlanRequest) (string, error) {
	if req.AmountPerPayment <= 0 {
		return "", ErrInvalidAmount
	}
	if req.TotalPayments <= 0 {
		return "", ErrInvalidAmount
	}
	accountID := uuid.NewString()
	payments := make([]store.TiKanePaymentInput, 0, req.TotalPayments)
	for i := 0; i < req.TotalPayments; i++ {
		payments = append(payments, store.TiKanePaymentInput{
			ID:        uuid.NewString(),
			AccountID: accountID,
			DayNumber: i + 1,
			DueDate:   scheduleDate(req.StartDate, req.Frequency, i),
			Amount:    req.AmountPerPayment,
		})
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.tikane.CreateAccount(ctx, tx, store.TiKaneAccountInput{
			ID:               accountID,
			UserID:           req.UserID,
			Name:             req.Name,
			AmountPerPayment: req.AmountPerPayment,
			Frequency:        req.Frequency,
			TotalPayments:    req.TotalPayments,
			StartDate:        req.StartDate,
		}); err != nil {
			return err
		}
		return s.tikane.CreatePayments(ctx, tx, payments)
	})
	if err != nil {
		return "", err
	}
	s.effects.RecordActivity(ctx, req.UserID, "ti_kane_created", "ti_kane_account", accountID, map[string]string{
		"total_payments": fmt.Sprintf("%d", req.TotalPayments),
		"amount":         money.FormatMinor(req.AmountPerPayment),
	})
	return accountID, nil
}

func scheduleDate(start time.Time, frequency string, step int) time.Time {
	switch frequency {
	case "weekly":
		return start.AddDate(0, 0, 7*step)
	case "monthly":
		return start.AddDate(0, step, 0)
	default:
		return start.AddDate(0, 0, step)
	}
}

type MarkPaidRequest struct {
	UserID          string
	AccountID       string
	DayNumber       int
	ClientRequestID *string
}

type MarkPaidResult struct {
	TransactionID string
	AlreadyPaid   bool
}

// MarkPaid debits the wallet for one schedule entry. Re-invoking on an entry
// that is already paid reports AlreadyPaid without touching the wallet; the
// status check happens under the payment row lock, so two concurrent submits
// cannot both debit.
func (s *TiKaneService) MarkPaid(ctx context.Context, req MarkPaidRequest) (MarkPaidResult, error) {
	var result walletMutation
	var alreadyPaid bool
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.tikane.GetAccountForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if account.UserID != req.UserID {
			return ErrNotOwner
		}
		if account.Status != models.TiKaneActive {
			return ErrPlanNotActive
		}
		payment, err := s.tikane.GetPaymentForUpdate(ctx, tx, req.AccountID, req.DayNumber)
		if err != nil {
			return err
		}
		if payment.Status == models.TiKanePaymentPaid {
			alreadyPaid = true
			return nil
		}
		referenceType := "ti_kane_account"
		result, err = s.ledger.debitWallet(ctx, tx, req.UserID, payment.Amount, models.TypeTiKanePayment, &referenceType, &req.AccountID, "{}", req.ClientRequestID)
		if err != nil {
			return err
		}
		rows, err := s.tikane.MarkPaid(ctx, tx, payment.ID, result.TransactionID)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Lost the race despite the lock; bail out and roll back the debit.
			return fmt.Errorf("payment %s changed state under lock", payment.ID)
		}
		return nil
	})
	if err != nil {
		return MarkPaidResult{}, err
	}
	if alreadyPaid {
		return MarkPaidResult{AlreadyPaid: true}, nil
	}
	s.effects.RecordActivity(ctx, req.UserID, "ti_kane_payment", "ti_kane_account", req.AccountID, map[string]string{
		"day_number":     fmt.Sprintf("%d", req.DayNumber),
		"transaction_id": result.TransactionID,
	})
	s.effects.PushBalance(req.UserID, result.WalletID, result.BalanceAfter)
	return MarkPaidResult{TransactionID: result.TransactionID}, nil
}

type PlanWithdrawRequest struct {
	UserID          string
	AccountID       string
	ClientRequestID *string
}

// Withdraw pays out a matured plan: every schedule entry must be paid, the
// saved total is credited back to the wallet, and the account completes.
func (s *TiKaneService) Withdraw(ctx context.Context, req PlanWithdrawRequest) (string, int64, error) {
	var result walletMutation
	var total int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.tikane.GetAccountForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if account.UserID != req.UserID {
			return ErrNotOwner
		}
		if account.Status != models.TiKaneActive {
			return ErrPlanNotActive
		}
		due, err := s.tikane.CountDue(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if due > 0 {
			return ErrPlanNotMature
		}
		total, err = s.tikane.SumPaid(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		referenceType := "ti_kane_account"
		result, err = s.ledger.creditWallet(ctx, tx, req.UserID, total, models.TypeTiKaneWithdrawal, &referenceType, &req.AccountID, "{}", req.ClientRequestID)
		if err != nil {
			return err
		}
		rows, err := s.tikane.CompleteAccount(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrPlanNotActive
		}
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	s.effects.RecordActivity(ctx, req.UserID, "ti_kane_withdrawal", "ti_kane_account", req.AccountID, map[string]string{
		"amount": money.FormatMinor(total),
	})
	s.effects.Notify(ctx, req.UserID, "ti_kane_matured",
		fmt.Sprintf("Your savings plan matured: %s HTG moved to your wallet.", money.FormatMinor(total)),
		models.TransactionTarget{ID: result.TransactionID})
	s.effects.PushBalance(req.UserID, result.WalletID, result.BalanceAfter)
	return result.TransactionID, total, nil
}

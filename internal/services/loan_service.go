package services

import (
	"context"
	"fmt"

	"sosol/internal/db"
	"sosol/internal/models"
	"sosol/internal/money"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type LoanService struct {
	txRunner db.TxRunner
	ledger   *LedgerService
	loans    LoanStore
	effects  *SideEffects
}

func NewLoanService(txRunner db.TxRunner, ledger *LedgerService, loans LoanStore, effects *SideEffects) *LoanService {
	return &LoanService{
		txRunner: txRunner,
		ledger:   ledger,
		loans:    loans,
		effects:  effects,
	}
}

type FundLoanRequest struct {
	LenderID        string
	LoanID          string
	ClientRequestID *string
}

// Fund moves the principal from the lender's wallet to the borrower's. Two
// transaction rows are written, one per wallet, sharing the loan reference.
func (s *LoanService) Fund(ctx context.Context, req FundLoanRequest) (string, error) {
	var debit walletMutation
	var credit walletMutation
	var loan models.Loan
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		loan, err = s.loans.GetForUpdate(ctx, tx, req.LoanID)
		if err != nil {
			return err
		}
		if loan.Status != models.LoanPending {
			return ErrLoanNotFundable
		}
		if loan.BorrowerID == req.LenderID {
			return ErrOwnLoan
		}
		referenceType := "loan"
		debit, err = s.ledger.debitWallet(ctx, tx, req.LenderID, loan.Amount, models.TypeLoanFunding, &referenceType, &req.LoanID, "{}", req.ClientRequestID)
		if err != nil {
			return err
		}
		credit, err = s.ledger.creditWallet(ctx, tx, loan.BorrowerID, loan.Amount, models.TypeLoanFunding, &referenceType, &req.LoanID, "{}", nil)
		if err != nil {
			return err
		}
		return s.loans.MarkFunded(ctx, tx, req.LoanID, req.LenderID)
	})
	if err != nil {
		return "", err
	}
	s.effects.RecordActivity(ctx, req.LenderID, "loan_funded", "loan", req.LoanID, map[string]string{
		"amount":      money.FormatMinor(loan.Amount),
		"borrower_id": loan.BorrowerID,
	})
	s.effects.Notify(ctx, loan.BorrowerID, "loan_funded",
		fmt.Sprintf("Your loan request for %s HTG was funded.", money.FormatMinor(loan.Amount)),
		models.LoanTarget{ID: req.LoanID})
	s.effects.PushBalance(req.LenderID, debit.WalletID, debit.BalanceAfter)
	s.effects.PushBalance(loan.BorrowerID, credit.WalletID, credit.BalanceAfter)
	return debit.TransactionID, nil
}

type RepayLoanRequest struct {
	BorrowerID      string
	LoanID          string
	ClientRequestID *string
}

// Repay settles the loan in one payment: principal plus simple interest,
// borrower wallet to lender wallet.
func (s *LoanService) Repay(ctx context.Context, req RepayLoanRequest) (string, error) {
	var debit walletMutation
	var credit walletMutation
	var loan models.Loan
	var total int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		loan, err = s.loans.GetForUpdate(ctx, tx, req.LoanID)
		if err != nil {
			return err
		}
		if loan.Status != models.LoanFunded || loan.LenderID == nil {
			return ErrLoanNotRepayable
		}
		if loan.BorrowerID != req.BorrowerID {
			return ErrNotBorrower
		}
		total, err = RepaymentTotal(loan.Amount, loan.InterestRate)
		if err != nil {
			return err
		}
		referenceType := "loan"
		debit, err = s.ledger.debitWallet(ctx, tx, req.BorrowerID, total, models.TypeLoanRepayment, &referenceType, &req.LoanID, "{}", req.ClientRequestID)
		if err != nil {
			return err
		}
		credit, err = s.ledger.creditWallet(ctx, tx, *loan.LenderID, total, models.TypeLoanRepayment, &referenceType, &req.LoanID, "{}", nil)
		if err != nil {
			return err
		}
		return s.loans.MarkRepaid(ctx, tx, req.LoanID)
	})
	if err != nil {
		return "", err
	}
	s.effects.RecordActivity(ctx, req.BorrowerID, "loan_repaid", "loan", req.LoanID, map[string]string{
		"amount": money.FormatMinor(total),
	})
	s.effects.Notify(ctx, *loan.LenderID, "loan_repaid",
		fmt.Sprintf("Your loan was repaid: %s HTG received.", money.FormatMinor(total)),
		models.LoanTarget{ID: req.LoanID})
	s.effects.PushBalance(req.BorrowerID, debit.WalletID, debit.BalanceAfter)
	s.effects.PushBalance(*loan.LenderID, credit.WalletID, credit.BalanceAfter)
	return debit.TransactionID, nil
}

// RepaymentTotal computes principal plus simple interest in centimes. The
// rate is a decimal string such as "0.05" for 5%, banker-rounded to whole
// centimes.
func RepaymentTotal(principal int64, rate string) (int64, error) {
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return 0, fmt.Errorf("invalid interest rate %q: %w", rate, err)
	}
	interest := decimal.NewFromInt(principal).Mul(parsed).RoundBank(0).IntPart()
	return principal + interest, nil
}

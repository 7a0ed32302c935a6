package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sosol/internal/db"
	"sosol/internal/models"
	"sosol/internal/money"
	"sosol/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LedgerService owns the guarded wallet mutation: re-fetch the authoritative
// balance under a row lock, check it, apply the delta, and append exactly one
// transaction row — all inside one serializable transaction. Every flow that
// moves money (deposits, withdrawals, donations, SOL, Ti Kanè, loans) funnels
// through the helpers here.
type LedgerService struct {
	txRunner       db.TxRunner
	wallets        WalletStore
	transactions   TransactionStore
	paymentMethods PaymentMethodStore
	campaigns      CampaignStore
	effects        *SideEffects
}

func NewLedgerService(txRunner db.TxRunner, wallets WalletStore, transactions TransactionStore, paymentMethods PaymentMethodStore, campaigns CampaignStore, effects *SideEffects) *LedgerService {
	return &LedgerService{
		txRunner:       txRunner,
		wallets:        wallets,
		transactions:   transactions,
		paymentMethods: paymentMethods,
		campaigns:      campaigns,
		effects:        effects,
	}
}

type walletMutation struct {
	TransactionID string
	WalletID      string
	BalanceAfter  int64
}

// debitWallet locks the user's wallet, verifies funds, applies the debit and
// appends the transaction row. It must be called inside a WithTx body.
func (s *LedgerService) debitWallet(ctx context.Context, tx *sqlx.Tx, userID string, amount int64, txType string, referenceType, referenceID *string, metadata string, clientRequestID *string) (walletMutation, error) {
	wallet, err := s.wallets.GetForUpdateByUser(ctx, tx, userID)
	if err != nil {
		return walletMutation{}, err
	}
	if wallet.BalanceHTG < amount {
		return walletMutation{}, ErrInsufficientFunds
	}
	newBalance := wallet.BalanceHTG - amount
	if err := s.wallets.UpdateBalance(ctx, tx, wallet.ID, newBalance); err != nil {
		return walletMutation{}, err
	}
	transactionID := uuid.NewString()
	if err := s.transactions.Create(ctx, tx, store.TransactionInput{
		ID:              transactionID,
		UserID:          userID,
		WalletID:        wallet.ID,
		Type:            txType,
		Direction:       models.DirectionDebit,
		Amount:          amount,
		Currency:        money.Currency,
		ReferenceType:   referenceType,
		ReferenceID:     referenceID,
		Metadata:        metadata,
		ClientRequestID: clientRequestID,
	}); err != nil {
		return walletMutation{}, err
	}
	return walletMutation{TransactionID: transactionID, WalletID: wallet.ID, BalanceAfter: newBalance}, nil
}

func (s *LedgerService) creditWallet(ctx context.Context, tx *sqlx.Tx, userID string, amount int64, txType string, referenceType, referenceID *string, metadata string, clientRequestID *string) (walletMutation, error) {
	wallet, err := s.wallets.GetForUpdateByUser(ctx, tx, userID)
	if err != nil {
		return walletMutation{}, err
	}
	newBalance := wallet.BalanceHTG + amount
	if err := s.wallets.UpdateBalance(ctx, tx, wallet.ID, newBalance); err != nil {
		return walletMutation{}, err
	}
	transactionID := uuid.NewString()
	if err := s.transactions.Create(ctx, tx, store.TransactionInput{
		ID:              transactionID,
		UserID:          userID,
		WalletID:        wallet.ID,
		Type:            txType,
		Direction:       models.DirectionCredit,
		Amount:          amount,
		Currency:        money.Currency,
		ReferenceType:   referenceType,
		ReferenceID:     referenceID,
		Metadata:        metadata,
		ClientRequestID: clientRequestID,
	}); err != nil {
		return walletMutation{}, err
	}
	return walletMutation{TransactionID: transactionID, WalletID: wallet.ID, BalanceAfter: newBalance}, nil
}

type DepositRequest struct {
	UserID          string
	PaymentMethodID string
	Amount          int64
	ClientRequestID *string
}

func (s *LedgerService) Deposit(ctx context.Context, req DepositRequest) (string, error) {
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	method, err := s.paymentMethods.GetByID(ctx, req.PaymentMethodID)
	if err != nil {
		return "", err
	}
	if method.UserID != req.UserID {
		return "", ErrUnauthorizedMethod
	}
	metadata, _ := json.Marshal(map[string]string{"payment_method_id": method.ID})
	var result walletMutation
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err = s.creditWallet(ctx, tx, req.UserID, req.Amount, models.TypeDeposit, nil, nil, string(metadata), req.ClientRequestID)
		return err
	})
	if err != nil {
		return "", err
	}
	s.effects.RecordActivity(ctx, req.UserID, "deposit", "transaction", result.TransactionID, map[string]string{
		"amount": money.FormatMinor(req.Amount),
	})
	s.effects.Notify(ctx, req.UserID, "deposit",
		fmt.Sprintf("Your wallet was funded with %s HTG.", money.FormatMinor(req.Amount)),
		models.TransactionTarget{ID: result.TransactionID})
	s.effects.PushBalance(req.UserID, result.WalletID, result.BalanceAfter)
	return result.TransactionID, nil
}

type WithdrawRequest struct {
	UserID          string
	PaymentMethodID string
	Amount          int64
	ClientRequestID *string
}

func (s *LedgerService) Withdraw(ctx context.Context, req WithdrawRequest) (string, error) {
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	method, err := s.paymentMethods.GetByID(ctx, req.PaymentMethodID)
	if err != nil {
		return "", err
	}
	if method.UserID != req.UserID {
		return "", ErrUnauthorizedMethod
	}
	metadata, _ := json.Marshal(map[string]string{"payment_method_id": method.ID})
	var result walletMutation
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err = s.debitWallet(ctx, tx, req.UserID, req.Amount, models.TypeWithdrawal, nil, nil, string(metadata), req.ClientRequestID)
		return err
	})
	if err != nil {
		return "", err
	}
	s.effects.RecordActivity(ctx, req.UserID, "withdrawal", "transaction", result.TransactionID, map[string]string{
		"amount": money.FormatMinor(req.Amount),
	})
	s.effects.Notify(ctx, req.UserID, "withdrawal",
		fmt.Sprintf("Your withdrawal of %s HTG is on its way.", money.FormatMinor(req.Amount)),
		models.TransactionTarget{ID: result.TransactionID})
	s.effects.PushBalance(req.UserID, result.WalletID, result.BalanceAfter)
	return result.TransactionID, nil
}

type DonateRequest struct {
	UserID          string
	CampaignID      string
	Amount          int64
	Message         *string
	ClientRequestID *string
}

// Donate implements the donation flow: campaign must be active and before
// its end date, the donor must cover the amount, and the debit, transaction
// row and donation row land together or not at all.
func (s *LedgerService) Donate(ctx context.Context, req DonateRequest) (string, error) {
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	var result walletMutation
	var campaign models.Campaign
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		campaign, err = s.campaigns.GetByID(ctx, tx, req.CampaignID)
		if err != nil {
			return err
		}
		if campaign.Status != models.CampaignActive {
			return ErrCampaignNotActive
		}
		if !campaign.EndDate.After(time.Now()) {
			return ErrCampaignEnded
		}
		referenceType := "campaign"
		result, err = s.debitWallet(ctx, tx, req.UserID, req.Amount, models.TypeDonation, &referenceType, &req.CampaignID, "{}", req.ClientRequestID)
		if err != nil {
			return err
		}
		return s.campaigns.CreateDonation(ctx, tx, store.DonationInput{
			ID:         uuid.NewString(),
			CampaignID: req.CampaignID,
			DonorID:    req.UserID,
			Amount:     req.Amount,
			Message:    req.Message,
		})
	})
	if err != nil {
		return "", err
	}
	s.effects.RecordActivity(ctx, req.UserID, "donation", "campaign", req.CampaignID, map[string]string{
		"amount":         money.FormatMinor(req.Amount),
		"transaction_id": result.TransactionID,
	})
	s.effects.Notify(ctx, req.UserID, "donation",
		fmt.Sprintf("Thank you! You donated %s HTG to %q.", money.FormatMinor(req.Amount), campaign.Title),
		models.TransactionTarget{ID: result.TransactionID})
	if campaign.OwnerID != req.UserID {
		s.effects.Notify(ctx, campaign.OwnerID, "donation_received",
			fmt.Sprintf("Your campaign %q received a %s HTG donation.", campaign.Title, money.FormatMinor(req.Amount)),
			models.CampaignTarget{ID: campaign.ID})
	}
	s.effects.PushBalance(req.UserID, result.WalletID, result.BalanceAfter)
	return result.TransactionID, nil
}

package handlers

import (
	"context"

	"sosol/internal/models"
	"sosol/internal/services"
	"sosol/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, name, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type WalletStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID string) error
	GetByUser(ctx context.Context, userID string) (models.Wallet, error)
	Reconcile(ctx context.Context) ([]store.WalletDrift, error)
}

type LinkedAccountStore interface {
	Create(ctx context.Context, tx store.Execer, input store.LinkedAccountInput) error
	ListByUser(ctx context.Context, userID string) ([]models.LinkedAccount, error)
	Deactivate(ctx context.Context, tx store.Execer, accountID, userID string) (int64, error)
}

type TransactionStore interface {
	ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]models.Transaction, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Transaction, error)
}

type CampaignStore interface {
	Create(ctx context.Context, tx store.Execer, input store.CampaignInput) error
	GetByID(ctx context.Context, q store.Getter, campaignID string) (models.Campaign, error)
	ListActive(ctx context.Context, limit, offset int) ([]store.CampaignSummary, error)
	GetSummary(ctx context.Context, campaignID string) (store.CampaignSummary, error)
	Activate(ctx context.Context, tx store.Execer, campaignID string) (int64, error)
	ListDonations(ctx context.Context, campaignID string, limit, offset int) ([]models.Donation, error)
	CreateUpdate(ctx context.Context, tx store.Execer, id, campaignID, authorID, body string) error
	ListUpdates(ctx context.Context, campaignID string) ([]models.CampaignUpdate, error)
}

type SolStore interface {
	CreateGroup(ctx context.Context, tx store.Execer, input store.SolGroupInput) error
	GetGroup(ctx context.Context, q store.Getter, groupID string) (models.SolGroup, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]models.SolGroup, error)
	AddParticipant(ctx context.Context, tx store.Execer, id, groupID, userID, role string, position int) error
	ListParticipants(ctx context.Context, groupID string) ([]models.SolParticipant, error)
	CountParticipants(ctx context.Context, q store.Getter, groupID string) (int, error)
	ListContributions(ctx context.Context, groupID string, cycle int) ([]models.SolContribution, error)
	ListPayoutEvents(ctx context.Context, groupID string) ([]models.SolPayoutEvent, error)
}

type LoanStore interface {
	Create(ctx context.Context, tx store.Execer, input store.LoanInput) error
	GetByID(ctx context.Context, loanID string) (models.Loan, error)
	ListOpen(ctx context.Context, limit, offset int) ([]models.Loan, error)
	ListByUser(ctx context.Context, userID string) ([]models.Loan, error)
}

type NotificationStore interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, notificationID, userID string) (int64, error)
}

type PaymentMethodStore interface {
	Create(ctx context.Context, tx store.Tx, input store.PaymentMethodInput) error
	ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error)
	SetDefault(ctx context.Context, tx store.Execer, methodID, userID string) (int64, error)
	Delete(ctx context.Context, tx store.Execer, methodID, userID string) (int64, error)
}

type TiKaneStore interface {
	GetAccount(ctx context.Context, q store.Getter, accountID string) (models.TiKaneAccount, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]models.TiKaneAccount, error)
	ListPayments(ctx context.Context, accountID string) ([]models.TiKanePayment, error)
}

type ActivityStore interface {
	Record(ctx context.Context, runner store.Execer, actorID, action, entityType, entityID, data string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Activity, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Activity, error)
}

type AdminStore interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	CreateAdmin(ctx context.Context, tx store.Execer, userID string, createdBy *string) error
	HasAnyAdmin(ctx context.Context, q store.Getter) (bool, error)
}

type LedgerService interface {
	Deposit(ctx context.Context, req services.DepositRequest) (string, error)
	Withdraw(ctx context.Context, req services.WithdrawRequest) (string, error)
	Donate(ctx context.Context, req services.DonateRequest) (string, error)
}

type SolService interface {
	Contribute(ctx context.Context, req services.ContributeRequest) (string, error)
	ApproveContribution(ctx context.Context, req services.ApproveContributionRequest) error
	Payout(ctx context.Context, req services.PayoutRequest) (services.PayoutResult, error)
}

type LoanService interface {
	Fund(ctx context.Context, req services.FundLoanRequest) (string, error)
	Repay(ctx context.Context, req services.RepayLoanRequest) (string, error)
}

type TiKaneService interface {
	CreatePlan(ctx context.Context, req services.CreatePlanRequest) (string, error)
	MarkPaid(ctx context.Context, req services.MarkPaidRequest) (services.MarkPaidResult, error)
	Withdraw(ctx context.Context, req services.PlanWithdrawRequest) (string, int64, error)
}

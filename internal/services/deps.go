package services

import (
	"context"

	"sosol/internal/models"
	"sosol/internal/store"
	"sosol/internal/websocket"
)

type WalletStore interface {
	GetByUser(ctx context.Context, userID string) (models.Wallet, error)
	GetForUpdateByUser(ctx context.Context, tx store.Getter, userID string) (models.Wallet, error)
	UpdateBalance(ctx context.Context, tx store.Execer, walletID string, balance int64) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

type PaymentMethodStore interface {
	GetByID(ctx context.Context, methodID string) (models.PaymentMethod, error)
}

type CampaignStore interface {
	GetByID(ctx context.Context, q store.Getter, campaignID string) (models.Campaign, error)
	CreateDonation(ctx context.Context, tx store.Execer, input store.DonationInput) error
}

type SolStore interface {
	GetGroupForUpdate(ctx context.Context, tx store.Getter, groupID string) (models.SolGroup, error)
	GetParticipant(ctx context.Context, q store.Getter, groupID, userID string) (models.SolParticipant, error)
	HasContributed(ctx context.Context, q store.Getter, groupID, userID string, cycle int) (bool, error)
	CreateContribution(ctx context.Context, tx store.Execer, input store.SolContributionInput) error
	GetContribution(ctx context.Context, q store.Getter, contributionID string) (models.SolContribution, error)
	ApproveContribution(ctx context.Context, tx store.Execer, contributionID, approverID string) (int64, error)
	CountParticipants(ctx context.Context, q store.Getter, groupID string) (int, error)
	CountApproved(ctx context.Context, q store.Getter, groupID string, cycle int) (int, error)
	SumApproved(ctx context.Context, q store.Getter, groupID string, cycle int) (int64, error)
	ParticipantByPosition(ctx context.Context, q store.Getter, groupID string, position int) (models.SolParticipant, error)
	CreatePayoutEvent(ctx context.Context, tx store.Execer, input store.SolPayoutInput) error
	SetCycle(ctx context.Context, tx store.Execer, groupID string, cycle int, status string) error
}

type LoanStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, loanID string) (models.Loan, error)
	MarkFunded(ctx context.Context, tx store.Execer, loanID, lenderID string) error
	MarkRepaid(ctx context.Context, tx store.Execer, loanID string) error
}

type TiKaneStore interface {
	CreateAccount(ctx context.Context, tx store.Execer, input store.TiKaneAccountInput) error
	CreatePayments(ctx context.Context, tx store.Execer, payments []store.TiKanePaymentInput) error
	GetAccountForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.TiKaneAccount, error)
	GetPaymentForUpdate(ctx context.Context, tx store.Getter, accountID string, dayNumber int) (models.TiKanePayment, error)
	MarkPaid(ctx context.Context, tx store.Execer, paymentID, transactionID string) (int64, error)
	CountDue(ctx context.Context, q store.Getter, accountID string) (int, error)
	SumPaid(ctx context.Context, q store.Getter, accountID string) (int64, error)
	CompleteAccount(ctx context.Context, tx store.Execer, accountID string) (int64, error)
}

type ActivityStore interface {
	Record(ctx context.Context, runner store.Execer, actorID, action, entityType, entityID, data string) error
}

type NotificationStore interface {
	Create(ctx context.Context, input store.NotificationInput) error
}

type Hub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
	BroadcastNotification(userID string, event websocket.NotificationEvent)
}

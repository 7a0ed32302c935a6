package services

import (
	"context"
	"database/sql"

	"sosol/internal/models"
	"sosol/internal/store"
	"sosol/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubWalletStore struct {
	wallets map[string]models.Wallet
	updates []balanceUpdate
}

type balanceUpdate struct {
	walletID string
	balance  int64
}

func (s *stubWalletStore) GetByUser(ctx context.Context, userID string) (models.Wallet, error) {
	w, ok := s.wallets[userID]
	if !ok {
		return models.Wallet{}, sql.ErrNoRows
	}
	return w, nil
}

func (s *stubWalletStore) GetForUpdateByUser(ctx context.Context, tx store.Getter, userID string) (models.Wallet, error) {
	return s.GetByUser(ctx, userID)
}

func (s *stubWalletStore) UpdateBalance(ctx context.Context, tx store.Execer, walletID string, balance int64) error {
	s.updates = append(s.updates, balanceUpdate{walletID: walletID, balance: balance})
	for userID, w := range s.wallets {
		if w.ID == walletID {
			w.BalanceHTG = balance
			s.wallets[userID] = w
		}
	}
	return nil
}

type stubTransactionStore struct {
	created []store.TransactionInput
	err     error
}

func (s *stubTransactionStore) Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, input)
	return nil
}

type stubPaymentMethodStore struct {
	methods map[string]models.PaymentMethod
}

func (s *stubPaymentMethodStore) GetByID(ctx context.Context, methodID string) (models.PaymentMethod, error) {
	m, ok := s.methods[methodID]
	if !ok {
		return models.PaymentMethod{}, sql.ErrNoRows
	}
	return m, nil
}

type stubCampaignStore struct {
	campaign  models.Campaign
	getErr    error
	donations []store.DonationInput
}

func (s *stubCampaignStore) GetByID(ctx context.Context, q store.Getter, campaignID string) (models.Campaign, error) {
	if s.getErr != nil {
		return models.Campaign{}, s.getErr
	}
	return s.campaign, nil
}

func (s *stubCampaignStore) CreateDonation(ctx context.Context, tx store.Execer, input store.DonationInput) error {
	s.donations = append(s.donations, input)
	return nil
}

type cycleSet struct {
	cycle  int
	status string
}

type stubSolStore struct {
	group            models.SolGroup
	participants     map[string]models.SolParticipant
	contributed      bool
	contribution     models.SolContribution
	contributions    []store.SolContributionInput
	approveRows      int64
	approvals        []string
	participantCount int
	approvedCount    int
	approvedSum      int64
	byPosition       map[int]models.SolParticipant
	payouts          []store.SolPayoutInput
	cycleSets        []cycleSet
}

func (s *stubSolStore) GetGroupForUpdate(ctx context.Context, tx store.Getter, groupID string) (models.SolGroup, error) {
	return s.group, nil
}

func (s *stubSolStore) GetParticipant(ctx context.Context, q store.Getter, groupID, userID string) (models.SolParticipant, error) {
	p, ok := s.participants[userID]
	if !ok {
		return models.SolParticipant{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *stubSolStore) HasContributed(ctx context.Context, q store.Getter, groupID, userID string, cycle int) (bool, error) {
	return s.contributed, nil
}

func (s *stubSolStore) CreateContribution(ctx context.Context, tx store.Execer, input store.SolContributionInput) error {
	s.contributions = append(s.contributions, input)
	return nil
}

func (s *stubSolStore) GetContribution(ctx context.Context, q store.Getter, contributionID string) (models.SolContribution, error) {
	return s.contribution, nil
}

func (s *stubSolStore) ApproveContribution(ctx context.Context, tx store.Execer, contributionID, approverID string) (int64, error) {
	s.approvals = append(s.approvals, contributionID)
	return s.approveRows, nil
}

func (s *stubSolStore) CountParticipants(ctx context.Context, q store.Getter, groupID string) (int, error) {
	return s.participantCount, nil
}

func (s *stubSolStore) CountApproved(ctx context.Context, q store.Getter, groupID string, cycle int) (int, error) {
	return s.approvedCount, nil
}

func (s *stubSolStore) SumApproved(ctx context.Context, q store.Getter, groupID string, cycle int) (int64, error) {
	return s.approvedSum, nil
}

func (s *stubSolStore) ParticipantByPosition(ctx context.Context, q store.Getter, groupID string, position int) (models.SolParticipant, error) {
	p, ok := s.byPosition[position]
	if !ok {
		return models.SolParticipant{}, sql.ErrNoRows
	}
	return p, nil
}

func (s *stubSolStore) CreatePayoutEvent(ctx context.Context, tx store.Execer, input store.SolPayoutInput) error {
	s.payouts = append(s.payouts, input)
	return nil
}

func (s *stubSolStore) SetCycle(ctx context.Context, tx store.Execer, groupID string, cycle int, status string) error {
	s.cycleSets = append(s.cycleSets, cycleSet{cycle: cycle, status: status})
	return nil
}

type stubLoanStore struct {
	loan   models.Loan
	funded []string
	repaid []string
}

func (s *stubLoanStore) GetForUpdate(ctx context.Context, tx store.Getter, loanID string) (models.Loan, error) {
	return s.loan, nil
}

func (s *stubLoanStore) MarkFunded(ctx context.Context, tx store.Execer, loanID, lenderID string) error {
	s.funded = append(s.funded, loanID)
	return nil
}

func (s *stubLoanStore) MarkRepaid(ctx context.Context, tx store.Execer, loanID string) error {
	s.repaid = append(s.repaid, loanID)
	return nil
}

type stubTiKaneStore struct {
	account       models.TiKaneAccount
	payment       models.TiKanePayment
	accounts      []store.TiKaneAccountInput
	schedules     [][]store.TiKanePaymentInput
	markPaidRows  int64
	markPaidCalls int
	dueCount      int
	paidSum       int64
	completeRows  int64
	completed     []string
}

func (s *stubTiKaneStore) CreateAccount(ctx context.Context, tx store.Execer, input store.TiKaneAccountInput) error {
	s.accounts = append(s.accounts, input)
	return nil
}

func (s *stubTiKaneStore) CreatePayments(ctx context.Context, tx store.Execer, payments []store.TiKanePaymentInput) error {
	s.schedules = append(s.schedules, payments)
	return nil
}

func (s *stubTiKaneStore) GetAccountForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.TiKaneAccount, error) {
	return s.account, nil
}

func (s *stubTiKaneStore) GetPaymentForUpdate(ctx context.Context, tx store.Getter, accountID string, dayNumber int) (models.TiKanePayment, error) {
	return s.payment, nil
}

func (s *stubTiKaneStore) MarkPaid(ctx context.Context, tx store.Execer, paymentID, transactionID string) (int64, error) {
	s.markPaidCalls++
	return s.markPaidRows, nil
}

func (s *stubTiKaneStore) CountDue(ctx context.Context, q store.Getter, accountID string) (int, error) {
	return s.dueCount, nil
}

func (s *stubTiKaneStore) SumPaid(ctx context.Context, q store.Getter, accountID string) (int64, error) {
	return s.paidSum, nil
}

func (s *stubTiKaneStore) CompleteAccount(ctx context.Context, tx store.Execer, accountID string) (int64, error) {
	s.completed = append(s.completed, accountID)
	return s.completeRows, nil
}

type activityRecord struct {
	actorID string
	action  string
}

type stubActivityStore struct {
	records []activityRecord
}

func (s *stubActivityStore) Record(ctx context.Context, runner store.Execer, actorID, action, entityType, entityID, data string) error {
	s.records = append(s.records, activityRecord{actorID: actorID, action: action})
	return nil
}

type stubNotificationStore struct {
	created []store.NotificationInput
}

func (s *stubNotificationStore) Create(ctx context.Context, input store.NotificationInput) error {
	s.created = append(s.created, input)
	return nil
}

type stubHub struct {
	balances []websocket.BalanceUpdate
	events   []websocket.NotificationEvent
}

func (s *stubHub) BroadcastBalance(userID string, update websocket.BalanceUpdate) {
	s.balances = append(s.balances, update)
}

func (s *stubHub) BroadcastNotification(userID string, event websocket.NotificationEvent) {
	s.events = append(s.events, event)
}

func newTestEffects() (*SideEffects, *stubActivityStore, *stubNotificationStore, *stubHub) {
	activities := &stubActivityStore{}
	notifications := &stubNotificationStore{}
	hub := &stubHub{}
	return NewSideEffects(zerolog.Nop(), nil, activities, notifications, hub), activities, notifications, hub
}

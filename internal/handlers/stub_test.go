package handlers

import (
	"context"
	"time"

	"sosol/internal/config"
	"sosol/internal/models"
	"sosol/internal/services"
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

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, name, email, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
	listFn       func(ctx context.Context, limit, offset int) ([]models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, name, email, passwordHash string) error {
	return s.createFn(ctx, tx, id, name, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

type stubWalletStore struct {
	createFn    func(ctx context.Context, tx store.Execer, id, userID string) error
	getByUserFn func(ctx context.Context, userID string) (models.Wallet, error)
	reconcileFn func(ctx context.Context) ([]store.WalletDrift, error)
}

func (s stubWalletStore) Create(ctx context.Context, tx store.Execer, id, userID string) error {
	return s.createFn(ctx, tx, id, userID)
}

func (s stubWalletStore) GetByUser(ctx context.Context, userID string) (models.Wallet, error) {
	return s.getByUserFn(ctx, userID)
}

func (s stubWalletStore) Reconcile(ctx context.Context) ([]store.WalletDrift, error) {
	return s.reconcileFn(ctx)
}

type stubActivityStore struct{}

func (stubActivityStore) Record(ctx context.Context, runner store.Execer, actorID, action, entityType, entityID, data string) error {
	return nil
}

func (stubActivityStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Activity, error) {
	return nil, nil
}

func (stubActivityStore) ListAll(ctx context.Context, limit, offset int) ([]models.Activity, error) {
	return nil, nil
}

type stubAdminStore struct {
	isAdminFn     func(ctx context.Context, userID string) (bool, error)
	hasAnyAdminFn func(ctx context.Context, q store.Getter) (bool, error)
	createdAdmins []string
}

func (s *stubAdminStore) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if s.isAdminFn == nil {
		return false, nil
	}
	return s.isAdminFn(ctx, userID)
}

func (s *stubAdminStore) CreateAdmin(ctx context.Context, tx store.Execer, userID string, createdBy *string) error {
	s.createdAdmins = append(s.createdAdmins, userID)
	return nil
}

func (s *stubAdminStore) HasAnyAdmin(ctx context.Context, q store.Getter) (bool, error) {
	if s.hasAnyAdminFn == nil {
		return true, nil
	}
	return s.hasAnyAdminFn(ctx, q)
}

type stubLedgerService struct {
	depositFn  func(ctx context.Context, req services.DepositRequest) (string, error)
	withdrawFn func(ctx context.Context, req services.WithdrawRequest) (string, error)
	donateFn   func(ctx context.Context, req services.DonateRequest) (string, error)
}

func (s stubLedgerService) Deposit(ctx context.Context, req services.DepositRequest) (string, error) {
	return s.depositFn(ctx, req)
}

func (s stubLedgerService) Withdraw(ctx context.Context, req services.WithdrawRequest) (string, error) {
	return s.withdrawFn(ctx, req)
}

func (s stubLedgerService) Donate(ctx context.Context, req services.DonateRequest) (string, error) {
	return s.donateFn(ctx, req)
}

type stubTiKaneService struct {
	createFn   func(ctx context.Context, req services.CreatePlanRequest) (string, error)
	markPaidFn func(ctx context.Context, req services.MarkPaidRequest) (services.MarkPaidResult, error)
	withdrawFn func(ctx context.Context, req services.PlanWithdrawRequest) (string, int64, error)
}

func (s stubTiKaneService) CreatePlan(ctx context.Context, req services.CreatePlanRequest) (string, error) {
	return s.createFn(ctx, req)
}

func (s stubTiKaneService) MarkPaid(ctx context.Context, req services.MarkPaidRequest) (services.MarkPaidResult, error) {
	return s.markPaidFn(ctx, req)
}

func (s stubTiKaneService) Withdraw(ctx context.Context, req services.PlanWithdrawRequest) (string, int64, error) {
	return s.withdrawFn(ctx, req)
}

type stubNotificationStore struct {
	listFn        func(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	countUnreadFn func(ctx context.Context, userID string) (int, error)
	markReadFn    func(ctx context.Context, notificationID, userID string) (int64, error)
	deleteFn      func(ctx context.Context, notificationID, userID string) (int64, error)
}

func (s stubNotificationStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	return s.listFn(ctx, userID, limit, offset)
}

func (s stubNotificationStore) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.countUnreadFn(ctx, userID)
}

func (s stubNotificationStore) MarkRead(ctx context.Context, notificationID, userID string) (int64, error) {
	return s.markReadFn(ctx, notificationID, userID)
}

func (s stubNotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	return nil
}

func (s stubNotificationStore) Delete(ctx context.Context, notificationID, userID string) (int64, error) {
	return s.deleteFn(ctx, notificationID, userID)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		AllowedOrigins: "*",
	}
}

func newTestHandler(deps Deps) *Handler {
	if deps.TxRunner == nil {
		deps.TxRunner = fakeTxRunner{}
	}
	deps.Cfg = testConfig()
	deps.Log = zerolog.Nop()
	if deps.Hub == nil {
		deps.Hub = websocket.NewHub()
	}
	return New(deps)
}

type stubCampaignStore struct {
	activateFn func(ctx context.Context, tx store.Execer, campaignID string) (int64, error)
}

func (s stubCampaignStore) Create(ctx context.Context, tx store.Execer, input store.CampaignInput) error {
	return nil
}

func (s stubCampaignStore) GetByID(ctx context.Context, q store.Getter, campaignID string) (models.Campaign, error) {
	return models.Campaign{}, nil
}

func (s stubCampaignStore) ListActive(ctx context.Context, limit, offset int) ([]store.CampaignSummary, error) {
	return nil, nil
}

func (s stubCampaignStore) GetSummary(ctx context.Context, campaignID string) (store.CampaignSummary, error) {
	return store.CampaignSummary{}, nil
}

func (s stubCampaignStore) Activate(ctx context.Context, tx store.Execer, campaignID string) (int64, error) {
	return s.activateFn(ctx, tx, campaignID)
}

func (s stubCampaignStore) ListDonations(ctx context.Context, campaignID string, limit, offset int) ([]models.Donation, error) {
	return nil, nil
}

func (s stubCampaignStore) CreateUpdate(ctx context.Context, tx store.Execer, id, campaignID, authorID, body string) error {
	return nil
}

func (s stubCampaignStore) ListUpdates(ctx context.Context, campaignID string) ([]models.CampaignUpdate, error) {
	return nil, nil
}

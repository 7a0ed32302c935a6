package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sosol/internal/models"
)

func newTiKaneFixture(balance int64) (*TiKaneService, *stubTiKaneStore, *stubWalletStore, *stubTransactionStore) {
	wallets := &stubWalletStore{wallets: map[string]models.Wallet{
		"saver-1": {ID: "wallet-1", UserID: "saver-1", BalanceHTG: balance},
	}}
	transactions := &stubTransactionStore{}
	effects, _, _, _ := newTestEffects()
	ledger := NewLedgerService(fakeTxRunner{}, wallets, transactions, &stubPaymentMethodStore{}, &stubCampaignStore{}, effects)
	tikane := &stubTiKaneStore{
		account: models.TiKaneAccount{ID: "tk-1", UserID: "saver-1", AmountPerPayment: 5_000, Status: models.TiKaneActive},
		payment: models.TiKanePayment{ID: "pay-1", AccountID: "tk-1", DayNumber: 1, Amount: 5_000, Status: models.TiKanePaymentDue},
	}
	return NewTiKaneService(fakeTxRunner{}, ledger, tikane, effects), tikane, wallets, transactions
}

func TestCreatePlanGeneratesDailySchedule(t *testing.T) {
	svc, tikane, _, _ := newTiKaneFixture(0)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	accountID, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID:           "saver-1",
		Name:             "Lekòl",
		AmountPerPayment: 5_000,
		Frequency:        "daily",
		TotalPayments:    30,
		StartDate:        start,
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if accountID == "" {
		t.Fatal("expected an account id")
	}
	if len(tikane.schedules) != 1 {
		t.Fatalf("expected one schedule, got %d", len(tikane.schedules))
	}
	schedule := tikane.schedules[0]
	if len(schedule) != 30 {
		t.Fatalf("expected 30 entries, got %d", len(schedule))
	}
	for i, entry := range schedule {
		if entry.DayNumber != i+1 {
			t.Fatalf("entry %d has day number %d", i, entry.DayNumber)
		}
		if want := start.AddDate(0, 0, i); !entry.DueDate.Equal(want) {
			t.Fatalf("entry %d due %v, want %v", i, entry.DueDate, want)
		}
		if entry.Amount != 5_000 {
			t.Fatalf("entry %d amount %d, want 5000", i, entry.Amount)
		}
	}
}

func TestCreatePlanSpacesWeeklyAndMonthly(t *testing.T) {
	svc, tikane, _, _ := newTiKaneFixture(0)
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		frequency string
		second    time.Time
	}{
		{"weekly", start.AddDate(0, 0, 7)},
		{"monthly", start.AddDate(0, 1, 0)},
	}
	for _, tc := range cases {
		if _, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
			UserID:           "saver-1",
			Name:             "Plan",
			AmountPerPayment: 5_000,
			Frequency:        tc.frequency,
			TotalPayments:    2,
			StartDate:        start,
		}); err != nil {
			t.Fatalf("%s: %v", tc.frequency, err)
		}
		schedule := tikane.schedules[len(tikane.schedules)-1]
		if !schedule[0].DueDate.Equal(start) {
			t.Fatalf("%s: first entry due %v, want %v", tc.frequency, schedule[0].DueDate, start)
		}
		if !schedule[1].DueDate.Equal(tc.second) {
			t.Fatalf("%s: second entry due %v, want %v", tc.frequency, schedule[1].DueDate, tc.second)
		}
	}
}

func TestCreatePlanRejectsBadInputs(t *testing.T) {
	svc, _, _, _ := newTiKaneFixture(0)
	base := CreatePlanRequest{UserID: "saver-1", Name: "Plan", Frequency: "daily", StartDate: time.Now()}

	req := base
	req.AmountPerPayment = 0
	req.TotalPayments = 10
	if _, err := svc.CreatePlan(context.Background(), req); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: expected ErrInvalidAmount, got %v", err)
	}

	req = base
	req.AmountPerPayment = 5_000
	req.TotalPayments = 0
	if _, err := svc.CreatePlan(context.Background(), req); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero payments: expected ErrInvalidAmount, got %v", err)
	}
}

func TestMarkPaidDebitsWallet(t *testing.T) {
	svc, tikane, wallets, transactions := newTiKaneFixture(20_000)
	tikane.markPaidRows = 1
	result, err := svc.MarkPaid(context.Background(), MarkPaidRequest{UserID: "saver-1", AccountID: "tk-1", DayNumber: 1})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if result.AlreadyPaid {
		t.Fatal("payment was due, not already paid")
	}
	if got := wallets.wallets["saver-1"].BalanceHTG; got != 15_000 {
		t.Fatalf("balance = %d, want 15000", got)
	}
	row := transactions.created[0]
	if row.Type != models.TypeTiKanePayment || row.Direction != models.DirectionDebit || row.Amount != 5_000 {
		t.Fatalf("unexpected transaction row: %+v", row)
	}
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	svc, tikane, wallets, transactions := newTiKaneFixture(20_000)
	tikane.payment.Status = models.TiKanePaymentPaid
	result, err := svc.MarkPaid(context.Background(), MarkPaidRequest{UserID: "saver-1", AccountID: "tk-1", DayNumber: 1})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !result.AlreadyPaid {
		t.Fatal("expected AlreadyPaid")
	}
	if got := wallets.wallets["saver-1"].BalanceHTG; got != 20_000 {
		t.Fatalf("balance should be untouched, got %d", got)
	}
	if len(transactions.created) != 0 {
		t.Fatalf("no transaction should be written, got %d", len(transactions.created))
	}
	if tikane.markPaidCalls != 0 {
		t.Fatalf("MarkPaid should not hit the store for a paid entry")
	}
}

func TestMarkPaidRejectsForeignAccount(t *testing.T) {
	svc, _, _, _ := newTiKaneFixture(20_000)
	if _, err := svc.MarkPaid(context.Background(), MarkPaidRequest{UserID: "someone-else", AccountID: "tk-1", DayNumber: 1}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestMarkPaidRejectsInsufficientFunds(t *testing.T) {
	svc, _, wallets, _ := newTiKaneFixture(4_999)
	if _, err := svc.MarkPaid(context.Background(), MarkPaidRequest{UserID: "saver-1", AccountID: "tk-1", DayNumber: 1}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := wallets.wallets["saver-1"].BalanceHTG; got != 4_999 {
		t.Fatalf("balance should be untouched, got %d", got)
	}
}

func TestWithdrawRequiresMaturity(t *testing.T) {
	svc, tikane, _, _ := newTiKaneFixture(0)
	tikane.dueCount = 3
	if _, _, err := svc.Withdraw(context.Background(), PlanWithdrawRequest{UserID: "saver-1", AccountID: "tk-1"}); !errors.Is(err, ErrPlanNotMature) {
		t.Fatalf("expected ErrPlanNotMature, got %v", err)
	}
	if len(tikane.completed) != 0 {
		t.Fatalf("account should not complete")
	}
}

func TestWithdrawCreditsSavedTotalAndCompletes(t *testing.T) {
	svc, tikane, wallets, transactions := newTiKaneFixture(1_000)
	tikane.dueCount = 0
	tikane.paidSum = 150_000
	tikane.completeRows = 1
	txID, total, err := svc.Withdraw(context.Background(), PlanWithdrawRequest{UserID: "saver-1", AccountID: "tk-1"})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if total != 150_000 {
		t.Fatalf("total = %d, want 150000", total)
	}
	if txID == "" {
		t.Fatal("expected a transaction id")
	}
	if got := wallets.wallets["saver-1"].BalanceHTG; got != 151_000 {
		t.Fatalf("balance = %d, want 151000", got)
	}
	row := transactions.created[0]
	if row.Type != models.TypeTiKaneWithdrawal || row.Direction != models.DirectionCredit {
		t.Fatalf("unexpected transaction row: %+v", row)
	}
	if len(tikane.completed) != 1 {
		t.Fatalf("account should complete")
	}
}

func TestWithdrawRejectsCompletedPlan(t *testing.T) {
	svc, tikane, _, _ := newTiKaneFixture(0)
	tikane.account.Status = models.TiKaneCompleted
	if _, _, err := svc.Withdraw(context.Background(), PlanWithdrawRequest{UserID: "saver-1", AccountID: "tk-1"}); !errors.Is(err, ErrPlanNotActive) {
		t.Fatalf("expected ErrPlanNotActive, got %v", err)
	}
}

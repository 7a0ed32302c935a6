package services

import (
	"context"
	"errors"
	"testing"

	"sosol/internal/models"
)

func newSolFixture(balance int64) (*SolService, *stubSolStore, *stubWalletStore, *stubTransactionStore) {
	wallets := &stubWalletStore{wallets: map[string]models.Wallet{
		"member-1": {ID: "wallet-1", UserID: "member-1", BalanceHTG: balance},
		"member-2": {ID: "wallet-2", UserID: "member-2", BalanceHTG: balance},
	}}
	transactions := &stubTransactionStore{}
	effects, _, _, _ := newTestEffects()
	ledger := NewLedgerService(fakeTxRunner{}, wallets, transactions, &stubPaymentMethodStore{}, &stubCampaignStore{}, effects)
	sol := &stubSolStore{
		group: models.SolGroup{
			ID:                 "group-1",
			Name:               "Sol Lakay",
			ContributionAmount: 10_000,
			TotalCycles:        3,
			CurrentCycle:       1,
			Status:             models.SolGroupActive,
		},
		participants: map[string]models.SolParticipant{
			"member-1": {UserID: "member-1", Role: models.SolRoleAdmin, Position: 1},
			"member-2": {UserID: "member-2", Role: models.SolRoleMember, Position: 2},
		},
		byPosition: map[int]models.SolParticipant{
			1: {UserID: "member-1", Position: 1},
			2: {UserID: "member-2", Position: 2},
		},
		participantCount: 2,
	}
	return NewSolService(fakeTxRunner{}, ledger, sol, effects), sol, wallets, transactions
}

func TestContributeRejectsNonParticipant(t *testing.T) {
	svc, _, _, _ := newSolFixture(100_000)
	_, err := svc.Contribute(context.Background(), ContributeRequest{UserID: "stranger", GroupID: "group-1", Amount: 10_000})
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestContributeRequiresExactAmount(t *testing.T) {
	svc, _, _, _ := newSolFixture(100_000)
	for _, amount := range []int64{9_999, 10_001} {
		if _, err := svc.Contribute(context.Background(), ContributeRequest{UserID: "member-1", GroupID: "group-1", Amount: amount}); !errors.Is(err, ErrWrongAmount) {
			t.Errorf("amount %d: expected ErrWrongAmount, got %v", amount, err)
		}
	}
}

func TestContributeRejectsSecondContributionInCycle(t *testing.T) {
	svc, sol, wallets, _ := newSolFixture(100_000)
	sol.contributed = true
	_, err := svc.Contribute(context.Background(), ContributeRequest{UserID: "member-1", GroupID: "group-1", Amount: 10_000})
	if !errors.Is(err, ErrAlreadyContributed) {
		t.Fatalf("expected ErrAlreadyContributed, got %v", err)
	}
	if got := wallets.wallets["member-1"].BalanceHTG; got != 100_000 {
		t.Fatalf("balance should be untouched, got %d", got)
	}
}

func TestContributeRejectsCompletedGroup(t *testing.T) {
	svc, sol, _, _ := newSolFixture(100_000)
	sol.group.Status = models.SolGroupCompleted
	if _, err := svc.Contribute(context.Background(), ContributeRequest{UserID: "member-1", GroupID: "group-1", Amount: 10_000}); !errors.Is(err, ErrGroupCompleted) {
		t.Fatalf("expected ErrGroupCompleted, got %v", err)
	}
}

func TestContributeDebitsWalletAndRecordsPending(t *testing.T) {
	svc, sol, wallets, transactions := newSolFixture(100_000)
	txID, err := svc.Contribute(context.Background(), ContributeRequest{UserID: "member-2", GroupID: "group-1", Amount: 10_000})
	if err != nil {
		t.Fatalf("contribute: %v", err)
	}
	if got := wallets.wallets["member-2"].BalanceHTG; got != 90_000 {
		t.Fatalf("balance = %d, want 90000", got)
	}
	if len(sol.contributions) != 1 {
		t.Fatalf("expected 1 contribution, got %d", len(sol.contributions))
	}
	c := sol.contributions[0]
	if c.Cycle != 1 || c.Amount != 10_000 || c.TransactionID != txID {
		t.Fatalf("unexpected contribution: %+v", c)
	}
	row := transactions.created[0]
	if row.Type != models.TypeSolContribution || row.Direction != models.DirectionDebit {
		t.Fatalf("unexpected transaction row: %+v", row)
	}
}

func TestApproveContributionRequiresAdminOrManager(t *testing.T) {
	svc, sol, _, _ := newSolFixture(100_000)
	sol.contribution = models.SolContribution{ID: "contrib-1", GroupID: "group-1", UserID: "member-1", Amount: 10_000}
	err := svc.ApproveContribution(context.Background(), ApproveContributionRequest{ApproverID: "member-2", GroupID: "group-1", ContributionID: "contrib-1"})
	if !errors.Is(err, ErrNotGroupAdmin) {
		t.Fatalf("expected ErrNotGroupAdmin, got %v", err)
	}
	if len(sol.approvals) != 0 {
		t.Fatalf("no approval should be recorded, got %d", len(sol.approvals))
	}
}

func TestApproveContributionByAdmin(t *testing.T) {
	svc, sol, _, _ := newSolFixture(100_000)
	sol.contribution = models.SolContribution{ID: "contrib-1", GroupID: "group-1", UserID: "member-2", Amount: 10_000}
	sol.approveRows = 1
	if err := svc.ApproveContribution(context.Background(), ApproveContributionRequest{ApproverID: "member-1", GroupID: "group-1", ContributionID: "contrib-1"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if len(sol.approvals) != 1 {
		t.Fatalf("expected 1 approval, got %d", len(sol.approvals))
	}
}

func TestPayoutRequiresEveryContributionApproved(t *testing.T) {
	svc, sol, _, _ := newSolFixture(100_000)
	sol.participantCount = 2
	sol.approvedCount = 1
	_, err := svc.Payout(context.Background(), PayoutRequest{AdminID: "member-1", GroupID: "group-1"})
	if !errors.Is(err, ErrCycleIncomplete) {
		t.Fatalf("expected ErrCycleIncomplete, got %v", err)
	}
	if len(sol.payouts) != 0 {
		t.Fatalf("no payout should be recorded, got %d", len(sol.payouts))
	}
}

func TestPayoutRequiresGroupAdmin(t *testing.T) {
	svc, sol, _, _ := newSolFixture(100_000)
	sol.participantCount = 2
	sol.approvedCount = 2
	if _, err := svc.Payout(context.Background(), PayoutRequest{AdminID: "member-2", GroupID: "group-1"}); !errors.Is(err, ErrNotGroupAdmin) {
		t.Fatalf("expected ErrNotGroupAdmin, got %v", err)
	}
}

func TestPayoutCreditsPositionHolderAndAdvancesCycle(t *testing.T) {
	svc, sol, wallets, _ := newSolFixture(100_000)
	sol.participantCount = 2
	sol.approvedCount = 2
	sol.approvedSum = 20_000
	result, err := svc.Payout(context.Background(), PayoutRequest{AdminID: "member-1", GroupID: "group-1"})
	if err != nil {
		t.Fatalf("payout: %v", err)
	}
	// Cycle 1 pays position 1.
	if result.RecipientID != "member-1" || result.Amount != 20_000 || result.Cycle != 1 {
		t.Fatalf("unexpected payout: %+v", result)
	}
	if got := wallets.wallets["member-1"].BalanceHTG; got != 120_000 {
		t.Fatalf("recipient balance = %d, want 120000", got)
	}
	if len(sol.cycleSets) != 1 || sol.cycleSets[0] != (cycleSet{cycle: 2, status: models.SolGroupActive}) {
		t.Fatalf("unexpected cycle update: %+v", sol.cycleSets)
	}
}

func TestPayoutCompletesGroupOnLastCycle(t *testing.T) {
	svc, sol, _, _ := newSolFixture(100_000)
	sol.group.CurrentCycle = 3
	sol.participantCount = 3
	sol.approvedCount = 3
	sol.approvedSum = 30_000
	sol.byPosition[3] = models.SolParticipant{UserID: "member-2", Position: 3}
	if _, err := svc.Payout(context.Background(), PayoutRequest{AdminID: "member-1", GroupID: "group-1"}); err != nil {
		t.Fatalf("payout: %v", err)
	}
	if len(sol.cycleSets) != 1 || sol.cycleSets[0].status != models.SolGroupCompleted {
		t.Fatalf("group should complete, got %+v", sol.cycleSets)
	}
}

func TestContributeRejectsCycleWithoutRecipient(t *testing.T) {
	svc, sol, wallets, _ := newSolFixture(100_000)
	// 3 planned cycles but only 2 members ever joined: nobody holds
	// position 3, so money taken for cycle 3 could never be paid out.
	sol.group.CurrentCycle = 3
	_, err := svc.Contribute(context.Background(), ContributeRequest{UserID: "member-1", GroupID: "group-1", Amount: 10_000})
	if !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	if got := wallets.wallets["member-1"].BalanceHTG; got != 100_000 {
		t.Fatalf("balance should be untouched, got %d", got)
	}
	if len(sol.contributions) != 0 {
		t.Fatalf("no contribution should be recorded, got %d", len(sol.contributions))
	}
}

func TestPayoutRejectsCycleWithoutRecipient(t *testing.T) {
	svc, sol, _, _ := newSolFixture(100_000)
	sol.group.CurrentCycle = 3
	sol.approvedCount = 2
	sol.approvedSum = 20_000
	_, err := svc.Payout(context.Background(), PayoutRequest{AdminID: "member-1", GroupID: "group-1"})
	if !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	if len(sol.payouts) != 0 {
		t.Fatalf("no payout should be recorded, got %d", len(sol.payouts))
	}
}

func TestPayoutCompletesUnderFullGroupAtLastHeldPosition(t *testing.T) {
	svc, sol, wallets, _ := newSolFixture(100_000)
	// 2 of 3 planned cycles have a position holder; after paying position 2
	// the rotation must end rather than advance into an unpayable cycle 3.
	sol.group.CurrentCycle = 2
	sol.approvedCount = 2
	sol.approvedSum = 20_000
	result, err := svc.Payout(context.Background(), PayoutRequest{AdminID: "member-1", GroupID: "group-1"})
	if err != nil {
		t.Fatalf("payout: %v", err)
	}
	if result.RecipientID != "member-2" {
		t.Fatalf("recipient = %s, want member-2", result.RecipientID)
	}
	if got := wallets.wallets["member-2"].BalanceHTG; got != 120_000 {
		t.Fatalf("recipient balance = %d, want 120000", got)
	}
	if len(sol.cycleSets) != 1 || sol.cycleSets[0] != (cycleSet{cycle: 3, status: models.SolGroupCompleted}) {
		t.Fatalf("group should complete at the last held position, got %+v", sol.cycleSets)
	}
}

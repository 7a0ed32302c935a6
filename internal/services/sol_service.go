package services

import (
	"context"
	"fmt"

	"sosol/internal/db"
	"sosol/internal/models"
	"sosol/internal/money"
	"sosol/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SolService runs the money side of rotating savings groups: contributions
// into the cycle pot and the payout that closes a cycle. Group CRUD stays in
// the handlers; everything here moves wallet balances.
type SolService struct {
	txRunner db.TxRunner
	ledger   *LedgerService
	sol      SolStore
	effects  *SideEffects
}

func NewSolService(txRunner db.TxRunner, ledger *LedgerService, sol SolStore, effects *SideEffects) *SolService {
	return &SolService{
		txRunner: txRunner,
		ledger:   ledger,
		sol:      sol,
		effects:  effects,
	}
}

type ContributeRequest struct {
	UserID          string
	GroupID         string
	Amount          int64
	ClientRequestID *string
}

// Contribute debits the member's wallet for the current cycle and records a
// pending contribution awaiting approval by a group admin or manager.
func (s *SolService) Contribute(ctx context.Context, req ContributeRequest) (string, error) {
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	var result walletMutation
	var group models.SolGroup
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		group, err = s.sol.GetGroupForUpdate(ctx, tx, req.GroupID)
		if err != nil {
			return err
		}
		if group.Status != models.SolGroupActive {
			return ErrGroupCompleted
		}
		if _, err := s.sol.GetParticipant(ctx, tx, req.GroupID, req.UserID); err != nil {
			return ErrNotParticipant
		}
		if req.Amount != group.ContributionAmount {
			return ErrWrongAmount
		}
		participants, err := s.sol.CountParticipants(ctx, tx, req.GroupID)
		if err != nil {
			return err
		}
		// Nobody holds a payout position beyond the member count, so money
		// contributed for such a cycle could never leave the pot.
		if group.CurrentCycle > participants {
			return ErrNoRecipient
		}
		contributed, err := s.sol.HasContributed(ctx, tx, req.GroupID, req.UserID, group.CurrentCycle)
		if err != nil {
			return err
		}
		if contributed {
			return ErrAlreadyContributed
		}
		referenceType := "sol_group"
		result, err = s.ledger.debitWallet(ctx, tx, req.UserID, req.Amount, models.TypeSolContribution, &referenceType, &req.GroupID, "{}", req.ClientRequestID)
		if err != nil {
			return err
		}
		return s.sol.CreateContribution(ctx, tx, store.SolContributionInput{
			ID:            uuid.NewString(),
			GroupID:       req.GroupID,
			UserID:        req.UserID,
			Cycle:         group.CurrentCycle,
			Amount:        req.Amount,
			TransactionID: result.TransactionID,
		})
	})
	if err != nil {
		return "", err
	}
	s.effects.RecordActivity(ctx, req.UserID, "sol_contribution", "sol_group", req.GroupID, map[string]string{
		"amount":         money.FormatMinor(req.Amount),
		"cycle":          fmt.Sprintf("%d", group.CurrentCycle),
		"transaction_id": result.TransactionID,
	})
	s.effects.Notify(ctx, req.UserID, "sol_contribution",
		fmt.Sprintf("Your %s HTG contribution to %q (cycle %d) is pending approval.", money.FormatMinor(req.Amount), group.Name, group.CurrentCycle),
		models.TransactionTarget{ID: result.TransactionID})
	s.effects.PushBalance(req.UserID, result.WalletID, result.BalanceAfter)
	return result.TransactionID, nil
}

type ApproveContributionRequest struct {
	ApproverID     string
	GroupID        string
	ContributionID string
}

func (s *SolService) ApproveContribution(ctx context.Context, req ApproveContributionRequest) error {
	var contribution models.SolContribution
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		participant, err := s.sol.GetParticipant(ctx, tx, req.GroupID, req.ApproverID)
		if err != nil {
			return ErrNotParticipant
		}
		if participant.Role != models.SolRoleAdmin && participant.Role != models.SolRoleManager {
			return ErrNotGroupAdmin
		}
		contribution, err = s.sol.GetContribution(ctx, tx, req.ContributionID)
		if err != nil {
			return err
		}
		if contribution.GroupID != req.GroupID {
			return ErrNotOwner
		}
		rows, err := s.sol.ApproveContribution(ctx, tx, req.ContributionID, req.ApproverID)
		if err != nil {
			return err
		}
		// Zero rows means it was already approved; treat as done.
		_ = rows
		return nil
	})
	if err != nil {
		return err
	}
	s.effects.RecordActivity(ctx, req.ApproverID, "sol_contribution_approved", "sol_contribution", req.ContributionID, map[string]string{
		"group_id": req.GroupID,
	})
	s.effects.Notify(ctx, contribution.UserID, "sol_contribution_approved",
		fmt.Sprintf("Your contribution of %s HTG was approved.", money.FormatMinor(contribution.Amount)),
		models.NoTarget{})
	return nil
}

type PayoutRequest struct {
	AdminID         string
	GroupID         string
	ClientRequestID *string
}

type PayoutResult struct {
	TransactionID string
	RecipientID   string
	Amount        int64
	Cycle         int
}

// Payout closes the current cycle: every participant's contribution must be
// approved, the pot is credited to the participant whose position matches the
// cycle, and the group advances (or completes on the last cycle).
func (s *SolService) Payout(ctx context.Context, req PayoutRequest) (PayoutResult, error) {
	var result walletMutation
	var payout PayoutResult
	var group models.SolGroup
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		group, err = s.sol.GetGroupForUpdate(ctx, tx, req.GroupID)
		if err != nil {
			return err
		}
		if group.Status != models.SolGroupActive {
			return ErrGroupCompleted
		}
		admin, err := s.sol.GetParticipant(ctx, tx, req.GroupID, req.AdminID)
		if err != nil {
			return ErrNotParticipant
		}
		if admin.Role != models.SolRoleAdmin {
			return ErrNotGroupAdmin
		}
		participants, err := s.sol.CountParticipants(ctx, tx, req.GroupID)
		if err != nil {
			return err
		}
		if group.CurrentCycle > participants {
			return ErrNoRecipient
		}
		approved, err := s.sol.CountApproved(ctx, tx, req.GroupID, group.CurrentCycle)
		if err != nil {
			return err
		}
		if approved < participants {
			return ErrCycleIncomplete
		}
		pot, err := s.sol.SumApproved(ctx, tx, req.GroupID, group.CurrentCycle)
		if err != nil {
			return err
		}
		recipient, err := s.sol.ParticipantByPosition(ctx, tx, req.GroupID, group.CurrentCycle)
		if err != nil {
			return err
		}
		referenceType := "sol_group"
		result, err = s.ledger.creditWallet(ctx, tx, recipient.UserID, pot, models.TypeSolPayout, &referenceType, &req.GroupID, "{}", req.ClientRequestID)
		if err != nil {
			return err
		}
		if err := s.sol.CreatePayoutEvent(ctx, tx, store.SolPayoutInput{
			ID:            uuid.NewString(),
			GroupID:       req.GroupID,
			Cycle:         group.CurrentCycle,
			RecipientID:   recipient.UserID,
			Amount:        pot,
			TransactionID: result.TransactionID,
		}); err != nil {
			return err
		}
		payout = PayoutResult{
			TransactionID: result.TransactionID,
			RecipientID:   recipient.UserID,
			Amount:        pot,
			Cycle:         group.CurrentCycle,
		}
		// Joining closes once the rotation is past its first cycle, so an
		// under-full group ends at the last held position instead of rolling
		// into a cycle nobody can receive.
		nextCycle := group.CurrentCycle + 1
		status := models.SolGroupActive
		if nextCycle > group.TotalCycles || nextCycle > participants {
			status = models.SolGroupCompleted
		}
		return s.sol.SetCycle(ctx, tx, req.GroupID, nextCycle, status)
	})
	if err != nil {
		return PayoutResult{}, err
	}
	s.effects.RecordActivity(ctx, req.AdminID, "sol_payout", "sol_group", req.GroupID, map[string]string{
		"amount":       money.FormatMinor(payout.Amount),
		"recipient_id": payout.RecipientID,
		"cycle":        fmt.Sprintf("%d", payout.Cycle),
	})
	s.effects.Notify(ctx, payout.RecipientID, "sol_payout",
		fmt.Sprintf("You received the %s HTG pot from %q (cycle %d).", money.FormatMinor(payout.Amount), group.Name, payout.Cycle),
		models.TransactionTarget{ID: payout.TransactionID})
	s.effects.PushBalance(payout.RecipientID, result.WalletID, result.BalanceAfter)
	return payout, nil
}

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"sosol/internal/db"
	"sosol/internal/middleware"
	"sosol/internal/money"
	"sosol/internal/services"
	"sosol/internal/store"
	"sosol/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type createSolGroupRequest struct {
	Name               string `json:"name"`
	ContributionAmount string `json:"contribution_amount"`
	Frequency          string `json:"frequency"`
	TotalCycles        int    `json:"total_cycles"`
}

// CreateSolGroup opens a group with the creator as its admin participant at
// position 1.
func (h *Handler) CreateSolGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createSolGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.ContributionAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_contribution_amount")
		return
	}
	if err := validator.ValidateFrequency(req.Frequency); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TotalCycles <= 0 {
		respondError(w, http.StatusBadRequest, "total_cycles must be positive")
		return
	}
	groupID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.sol.CreateGroup(r.Context(), tx, store.SolGroupInput{
			ID:                 groupID,
			Name:               req.Name,
			CreatedBy:          userID,
			ContributionAmount: amountMinor,
			Frequency:          req.Frequency,
			TotalCycles:        req.TotalCycles,
		}); err != nil {
			return err
		}
		if err := h.sol.AddParticipant(r.Context(), tx, uuid.NewString(), groupID, userID, "admin", 1); err != nil {
			return err
		}
		return h.activities.Record(r.Context(), tx, userID, "sol_group_created", "sol_group", groupID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create group")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": groupID})
}

func (h *Handler) ListMySolGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	groups, err := h.sol.ListGroupsByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load groups")
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

func (h *Handler) SolGroupDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	groupID := chi.URLParam(r, "id")
	group, err := h.sol.GetGroup(r.Context(), h.queryDB, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "group not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load group")
		return
	}
	participants, err := h.sol.ListParticipants(r.Context(), groupID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load group")
		return
	}
	isMember := false
	for _, p := range participants {
		if p.UserID == userID {
			isMember = true
			break
		}
	}
	if !isMember {
		respondError(w, http.StatusForbidden, "not a participant")
		return
	}
	contributions, err := h.sol.ListContributions(r.Context(), groupID, group.CurrentCycle)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load group")
		return
	}
	payouts, err := h.sol.ListPayoutEvents(r.Context(), groupID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load group")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"group":               group,
		"contribution_amount": money.FormatMinor(group.ContributionAmount),
		"participants":        participants,
		"contributions":       contributions,
		"payouts":             payouts,
	})
}

func (h *Handler) JoinSolGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	groupID := chi.URLParam(r, "id")
	group, err := h.sol.GetGroup(r.Context(), h.queryDB, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "group not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load group")
		return
	}
	if group.Status != "active" {
		respondError(w, http.StatusBadRequest, "group_completed")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		count, err := h.sol.CountParticipants(r.Context(), tx, groupID)
		if err != nil {
			return err
		}
		if count >= group.TotalCycles {
			return services.ErrGroupFull
		}
		// Joining after the rotation starts would leave earlier cycles short.
		if group.CurrentCycle > 1 {
			return services.ErrGroupStarted
		}
		if err := h.sol.AddParticipant(r.Context(), tx, uuid.NewString(), groupID, userID, "member", count+1); err != nil {
			return err
		}
		return h.activities.Record(r.Context(), tx, userID, "sol_group_joined", "sol_group", groupID, "{}")
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGroupFull):
			respondError(w, http.StatusBadRequest, "group_full")
		case errors.Is(err, services.ErrGroupStarted):
			respondError(w, http.StatusBadRequest, "group_already_started")
		case db.IsUniqueViolation(err):
			respondError(w, http.StatusConflict, "already_joined")
		default:
			respondError(w, http.StatusInternalServerError, "unable to join group")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "joined"})
}

type contributeRequest struct {
	Amount          string  `json:"amount"`
	ClientRequestID *string `json:"client_request_id"`
}

func (h *Handler) Contribute(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req contributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	transactionID, err := h.solService.Contribute(r.Context(), services.ContributeRequest{
		UserID:          userID,
		GroupID:         chi.URLParam(r, "id"),
		Amount:          amountMinor,
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		h.respondSolError(w, err, "contribution_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"transaction_id": transactionID})
}

func (h *Handler) ApproveContribution(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	err := h.solService.ApproveContribution(r.Context(), services.ApproveContributionRequest{
		ApproverID:     userID,
		GroupID:        chi.URLParam(r, "id"),
		ContributionID: chi.URLParam(r, "contributionID"),
	})
	if err != nil {
		h.respondSolError(w, err, "approval_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *Handler) Payout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		ClientRequestID *string `json:"client_request_id"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	result, err := h.solService.Payout(r.Context(), services.PayoutRequest{
		AdminID:         userID,
		GroupID:         chi.URLParam(r, "id"),
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		h.respondSolError(w, err, "payout_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction_id": result.TransactionID,
		"recipient_id":   result.RecipientID,
		"amount":         money.FormatMinor(result.Amount),
		"cycle":          result.Cycle,
	})
}

func (h *Handler) respondSolError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrNotParticipant):
		respondError(w, http.StatusForbidden, "not_a_participant")
	case errors.Is(err, services.ErrNotGroupAdmin):
		respondError(w, http.StatusForbidden, "admin_required")
	case errors.Is(err, services.ErrGroupCompleted):
		respondError(w, http.StatusBadRequest, "group_completed")
	case errors.Is(err, services.ErrWrongAmount):
		respondError(w, http.StatusBadRequest, "wrong_contribution_amount")
	case errors.Is(err, services.ErrAlreadyContributed):
		respondError(w, http.StatusConflict, "already_contributed")
	case errors.Is(err, services.ErrCycleIncomplete):
		respondError(w, http.StatusBadRequest, "cycle_incomplete")
	case errors.Is(err, services.ErrNoRecipient):
		respondError(w, http.StatusBadRequest, "cycle_has_no_recipient")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient_funds")
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case db.IsUniqueViolation(err):
		respondError(w, http.StatusConflict, "duplicate_request")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

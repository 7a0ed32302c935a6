package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"sosol/internal/middleware"
	"sosol/internal/money"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginate(r)
	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginate(r)
	transactions, err := h.transactions.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	normalized := make([]map[string]any, 0, len(transactions))
	for _, row := range transactions {
		normalized = append(normalized, map[string]any{
			"id":             row.ID,
			"user_id":        row.UserID,
			"wallet_id":      row.WalletID,
			"type":           row.Type,
			"direction":      row.Direction,
			"status":         row.Status,
			"amount":         money.FormatMinor(row.Amount),
			"currency":       row.Currency,
			"reference_type": row.ReferenceType,
			"reference_id":   row.ReferenceID,
			"created_at":     row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) AdminListActivity(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginate(r)
	activities, err := h.activities.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load activity")
		return
	}
	respondJSON(w, http.StatusOK, activities)
}

// Reconcile compares each wallet's stored balance against the signed sum of
// its ledger rows and reports any drift.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	drifts, err := h.wallets.Reconcile(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "reconciliation failed")
		return
	}
	payloads := make([]map[string]any, 0, len(drifts))
	for _, d := range drifts {
		if d.Difference == 0 {
			continue
		}
		payloads = append(payloads, map[string]any{
			"wallet_id":      d.WalletID,
			"user_id":        d.UserID,
			"stored_balance": money.FormatMinor(d.StoredBalance),
			"ledger_balance": money.FormatMinor(d.LedgerBalance),
			"difference":     money.FormatMinor(d.Difference),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"consistent": len(payloads) == 0,
		"drifts":     payloads,
	})
}

func (h *Handler) ActivateCampaign(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	campaignID := chi.URLParam(r, "id")
	var rows int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.campaigns.Activate(r.Context(), tx, campaignID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		return h.activities.Record(r.Context(), tx, adminID, "campaign_activated", "campaign", campaignID, "{}")
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "campaign not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to activate campaign")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "campaign not found or not pending")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"sosol/internal/middleware"
	"sosol/internal/store"
	"sosol/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type addLinkedAccountRequest struct {
	Type          string `json:"type"`
	Label         string `json:"label"`
	AccountNumber string `json:"account_number"`
	SwiftBic      string `json:"swift_bic"`
}

func (h *Handler) AddLinkedAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req addLinkedAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		respondError(w, http.StatusBadRequest, "label is required")
		return
	}
	if err := validator.ValidateLinkedAccount(req.Type, req.AccountNumber, req.SwiftBic); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input := store.LinkedAccountInput{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   req.Type,
		Label:  req.Label,
	}
	if req.AccountNumber != "" {
		input.AccountNumber = &req.AccountNumber
	}
	if req.SwiftBic != "" {
		input.SwiftBic = &req.SwiftBic
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.linkedAccounts.Create(r.Context(), tx, input); err != nil {
			return err
		}
		return h.activities.Record(r.Context(), tx, userID, "account_linked", "linked_account", input.ID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to link account")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": input.ID})
}

func (h *Handler) ListLinkedAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accounts, err := h.linkedAccounts.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) RemoveLinkedAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID := chi.URLParam(r, "id")
	var rows int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.linkedAccounts.Deactivate(r.Context(), tx, accountID, userID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to remove account")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

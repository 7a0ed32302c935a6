package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"sosol/internal/middleware"
	"sosol/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type addPaymentMethodRequest struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Details string `json:"details"`
}

func (h *Handler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req addPaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Label) == "" {
		respondError(w, http.StatusBadRequest, "type and label are required")
		return
	}
	if req.Details == "" {
		req.Details = "{}"
	}
	methodID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.paymentMethods.Create(r.Context(), tx, store.PaymentMethodInput{
			ID:      methodID,
			UserID:  userID,
			Type:    req.Type,
			Label:   req.Label,
			Details: req.Details,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add payment method")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": methodID})
}

func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	methods, err := h.paymentMethods.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load payment methods")
		return
	}
	respondJSON(w, http.StatusOK, methods)
}

func (h *Handler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	methodID := chi.URLParam(r, "id")
	var rows int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.paymentMethods.SetDefault(r.Context(), tx, methodID, userID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update payment method")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "payment method not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "default_set"})
}

func (h *Handler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	methodID := chi.URLParam(r, "id")
	var rows int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.paymentMethods.Delete(r.Context(), tx, methodID, userID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete payment method")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "payment method not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

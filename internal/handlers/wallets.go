package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"sosol/internal/db"
	"sosol/internal/middleware"
	"sosol/internal/money"
	"sosol/internal/services"
)

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	wallet, err := h.wallets.GetByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load wallet")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":       wallet.ID,
		"balance":  money.FormatMinor(wallet.BalanceHTG),
		"currency": money.Currency,
	})
}

type walletMoveRequest struct {
	PaymentMethodID string  `json:"payment_method_id"`
	Amount          string  `json:"amount"`
	ClientRequestID *string `json:"client_request_id"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req walletMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	transactionID, err := h.ledger.Deposit(r.Context(), services.DepositRequest{
		UserID:          userID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          amountMinor,
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		h.respondWalletError(w, err, "deposit_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"transaction_id": transactionID})
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req walletMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	transactionID, err := h.ledger.Withdraw(r.Context(), services.WithdrawRequest{
		UserID:          userID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          amountMinor,
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		h.respondWalletError(w, err, "withdrawal_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"transaction_id": transactionID})
}

func (h *Handler) respondWalletError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient_funds")
	case errors.Is(err, services.ErrUnauthorizedMethod):
		respondError(w, http.StatusForbidden, "payment_method_access_denied")
	case db.IsUniqueViolation(err):
		respondError(w, http.StatusConflict, "duplicate_request")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := paginate(r)
	txType := r.URL.Query().Get("type")
	transactions, err := h.transactions.ListByUser(r.Context(), userID, txType, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	normalized := make([]map[string]any, 0, len(transactions))
	for _, row := range transactions {
		normalized = append(normalized, map[string]any{
			"id":                row.ID,
			"type":              row.Type,
			"direction":         row.Direction,
			"status":            row.Status,
			"amount":            money.FormatMinor(row.Amount),
			"currency":          row.Currency,
			"reference_type":    row.ReferenceType,
			"reference_id":      row.ReferenceID,
			"client_request_id": row.ClientRequestID,
			"created_at":        row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

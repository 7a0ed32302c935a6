package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sosol/internal/db"
	"sosol/internal/middleware"
	"sosol/internal/money"
	"sosol/internal/services"
	"sosol/internal/validator"

	"github.com/go-chi/chi/v5"
)

type createTiKaneRequest struct {
	Name             string `json:"name"`
	AmountPerPayment string `json:"amount_per_payment"`
	Frequency        string `json:"frequency"`
	TotalPayments    int    `json:"total_payments"`
	StartDate        string `json:"start_date"`
}

func (h *Handler) CreateTiKanePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createTiKaneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.AmountPerPayment)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	if err := validator.ValidateFrequency(req.Frequency); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TotalPayments <= 0 || req.TotalPayments > 366 {
		respondError(w, http.StatusBadRequest, "total_payments must be between 1 and 366")
		return
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	accountID, err := h.tikaneService.CreatePlan(r.Context(), services.CreatePlanRequest{
		UserID:           userID,
		Name:             req.Name,
		AmountPerPayment: amountMinor,
		Frequency:        req.Frequency,
		TotalPayments:    req.TotalPayments,
		StartDate:        startDate,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			respondError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create savings plan")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": accountID})
}

func (h *Handler) ListTiKanePlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accounts, err := h.tikane.ListAccountsByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load savings plans")
		return
	}
	payloads := make([]map[string]any, 0, len(accounts))
	for _, a := range accounts {
		payloads = append(payloads, map[string]any{
			"id":                 a.ID,
			"name":               a.Name,
			"amount_per_payment": money.FormatMinor(a.AmountPerPayment),
			"frequency":          a.Frequency,
			"total_payments":     a.TotalPayments,
			"target_amount":      money.FormatMinor(a.AmountPerPayment * int64(a.TotalPayments)),
			"start_date":         a.StartDate.Format("2006-01-02"),
			"status":             a.Status,
			"created_at":         a.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, payloads)
}

// TiKaneSchedule returns the full schedule for one plan. Clients build their
// own CSV or calendar exports from this payload.
func (h *Handler) TiKaneSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID := chi.URLParam(r, "id")
	account, err := h.tikane.GetAccount(r.Context(), h.queryDB, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "savings plan not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load savings plan")
		return
	}
	if account.UserID != userID {
		respondError(w, http.StatusForbidden, "not your savings plan")
		return
	}
	payments, err := h.tikane.ListPayments(r.Context(), accountID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load schedule")
		return
	}
	var paidMinor int64
	entries := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		if p.Status == "paid" {
			paidMinor += p.Amount
		}
		entries = append(entries, map[string]any{
			"day_number": p.DayNumber,
			"due_date":   p.DueDate.Format("2006-01-02"),
			"amount":     money.FormatMinor(p.Amount),
			"status":     p.Status,
			"paid_at":    p.PaidAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"account_id":  account.ID,
		"name":        account.Name,
		"status":      account.Status,
		"total_saved": money.FormatMinor(paidMinor),
		"target":      money.FormatMinor(account.AmountPerPayment * int64(account.TotalPayments)),
		"schedule":    entries,
	})
}

type tikanePayRequest struct {
	ClientRequestID *string `json:"client_request_id"`
}

func (h *Handler) MarkTiKanePaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	dayNumber, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || dayNumber <= 0 {
		respondError(w, http.StatusBadRequest, "invalid day number")
		return
	}
	var req tikanePayRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	result, err := h.tikaneService.MarkPaid(r.Context(), services.MarkPaidRequest{
		UserID:          userID,
		AccountID:       chi.URLParam(r, "id"),
		DayNumber:       dayNumber,
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		h.respondTiKaneError(w, err, "payment_failed")
		return
	}
	if result.AlreadyPaid {
		respondJSON(w, http.StatusOK, map[string]any{"status": "already_paid"})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"status":         "paid",
		"transaction_id": result.TransactionID,
	})
}

func (h *Handler) WithdrawTiKane(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req tikanePayRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	transactionID, total, err := h.tikaneService.Withdraw(r.Context(), services.PlanWithdrawRequest{
		UserID:          userID,
		AccountID:       chi.URLParam(r, "id"),
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		h.respondTiKaneError(w, err, "withdrawal_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction_id": transactionID,
		"amount":         money.FormatMinor(total),
	})
}

func (h *Handler) respondTiKaneError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrNotOwner):
		respondError(w, http.StatusForbidden, "not your savings plan")
	case errors.Is(err, services.ErrPlanNotActive):
		respondError(w, http.StatusBadRequest, "plan_not_active")
	case errors.Is(err, services.ErrPlanNotMature):
		respondError(w, http.StatusBadRequest, "plan_not_mature")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient_funds")
	case db.IsUniqueViolation(err):
		respondError(w, http.StatusConflict, "duplicate_request")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

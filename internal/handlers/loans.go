package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"sosol/internal/db"
	"sosol/internal/middleware"
	"sosol/internal/models"
	"sosol/internal/money"
	"sosol/internal/services"
	"sosol/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type requestLoanRequest struct {
	Amount         string `json:"amount"`
	InterestRate   string `json:"interest_rate"`
	DurationMonths int    `json:"duration_months"`
}

func (h *Handler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req requestLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	rate, err := parseRate(req.InterestRate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_interest_rate")
		return
	}
	if req.DurationMonths <= 0 || req.DurationMonths > 60 {
		respondError(w, http.StatusBadRequest, "duration_months must be between 1 and 60")
		return
	}
	loanID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.loans.Create(r.Context(), tx, store.LoanInput{
			ID:             loanID,
			BorrowerID:     userID,
			Amount:         amountMinor,
			InterestRate:   rate,
			DurationMonths: req.DurationMonths,
		}); err != nil {
			return err
		}
		return h.activities.Record(r.Context(), tx, userID, "loan_requested", "loan", loanID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create loan request")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": loanID, "status": "pending"})
}

func (h *Handler) ListOpenLoans(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginate(r)
	loans, err := h.loans.ListOpen(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load loans")
		return
	}
	respondJSON(w, http.StatusOK, loanPayloads(loans))
}

func (h *Handler) MyLoans(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	loans, err := h.loans.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load loans")
		return
	}
	respondJSON(w, http.StatusOK, loanPayloads(loans))
}

func loanPayloads(loans []models.Loan) []map[string]any {
	payloads := make([]map[string]any, 0, len(loans))
	for _, loan := range loans {
		payload := map[string]any{
			"id":              loan.ID,
			"borrower_id":     loan.BorrowerID,
			"lender_id":       loan.LenderID,
			"amount":          money.FormatMinor(loan.Amount),
			"interest_rate":   loan.InterestRate,
			"duration_months": loan.DurationMonths,
			"status":          loan.Status,
			"funded_at":       loan.FundedAt,
			"repaid_at":       loan.RepaidAt,
			"created_at":      loan.CreatedAt,
		}
		if total, err := services.RepaymentTotal(loan.Amount, loan.InterestRate); err == nil {
			payload["repayment_total"] = money.FormatMinor(total)
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

type loanActionRequest struct {
	ClientRequestID *string `json:"client_request_id"`
}

func (h *Handler) FundLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req loanActionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	transactionID, err := h.loanService.Fund(r.Context(), services.FundLoanRequest{
		LenderID:        userID,
		LoanID:          chi.URLParam(r, "id"),
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		h.respondLoanError(w, err, "funding_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"transaction_id": transactionID})
}

func (h *Handler) RepayLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req loanActionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	transactionID, err := h.loanService.Repay(r.Context(), services.RepayLoanRequest{
		BorrowerID:      userID,
		LoanID:          chi.URLParam(r, "id"),
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		h.respondLoanError(w, err, "repayment_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"transaction_id": transactionID})
}

func (h *Handler) respondLoanError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		respondError(w, http.StatusNotFound, "loan not found")
	case errors.Is(err, services.ErrLoanNotFundable):
		respondError(w, http.StatusBadRequest, "loan_not_fundable")
	case errors.Is(err, services.ErrOwnLoan):
		respondError(w, http.StatusBadRequest, "cannot_fund_own_loan")
	case errors.Is(err, services.ErrLoanNotRepayable):
		respondError(w, http.StatusBadRequest, "loan_not_repayable")
	case errors.Is(err, services.ErrNotBorrower):
		respondError(w, http.StatusForbidden, "borrower_only")
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "insufficient_funds")
	case db.IsUniqueViolation(err):
		respondError(w, http.StatusConflict, "duplicate_request")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"sosol/internal/db"
	"sosol/internal/middleware"
	"sosol/internal/money"
	"sosol/internal/services"
	"sosol/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type createCampaignRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalAmount  string `json:"goal_amount"`
	EndDate     string `json:"end_date"`
}

// CreateCampaign registers a campaign in pending state; an admin activates it
// before it can take donations.
func (h *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	goalMinor, err := parseAmountMinor(req.GoalAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_goal_amount")
		return
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil || !endDate.After(time.Now()) {
		respondError(w, http.StatusBadRequest, "end_date must be a future RFC3339 timestamp")
		return
	}
	campaignID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.campaigns.Create(r.Context(), tx, store.CampaignInput{
			ID:          campaignID,
			OwnerID:     userID,
			Title:       req.Title,
			Description: req.Description,
			GoalAmount:  goalMinor,
			EndDate:     endDate,
		}); err != nil {
			return err
		}
		return h.activities.Record(r.Context(), tx, userID, "campaign_created", "campaign", campaignID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create campaign")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": campaignID, "status": "pending"})
}

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginate(r)
	campaigns, err := h.campaigns.ListActive(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load campaigns")
		return
	}
	normalized := make([]map[string]any, 0, len(campaigns))
	for _, c := range campaigns {
		normalized = append(normalized, campaignSummaryPayload(c))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) CampaignDetail(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	summary, err := h.campaigns.GetSummary(r.Context(), campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "campaign not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load campaign")
		return
	}
	donations, err := h.campaigns.ListDonations(r.Context(), campaignID, 50, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load campaign")
		return
	}
	updates, err := h.campaigns.ListUpdates(r.Context(), campaignID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load campaign")
		return
	}
	donationPayloads := make([]map[string]any, 0, len(donations))
	for _, d := range donations {
		donationPayloads = append(donationPayloads, map[string]any{
			"id":         d.ID,
			"donor_id":   d.DonorID,
			"amount":     money.FormatMinor(d.Amount),
			"message":    d.Message,
			"created_at": d.CreatedAt,
		})
	}
	payload := campaignSummaryPayload(summary)
	payload["donations"] = donationPayloads
	payload["updates"] = updates
	respondJSON(w, http.StatusOK, payload)
}

func campaignSummaryPayload(c store.CampaignSummary) map[string]any {
	return map[string]any{
		"id":             c.ID,
		"owner_id":       c.OwnerID,
		"title":          c.Title,
		"description":    c.Description,
		"goal_amount":    money.FormatMinor(c.GoalAmount),
		"total_raised":   money.FormatMinor(c.TotalRaised),
		"donation_count": c.DonationCount,
		"status":         c.Status,
		"end_date":       c.EndDate,
		"created_at":     c.CreatedAt,
	}
}

type donateRequest struct {
	Amount          string  `json:"amount"`
	Message         *string `json:"message"`
	ClientRequestID *string `json:"client_request_id"`
}

func (h *Handler) Donate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req donateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	transactionID, err := h.ledger.Donate(r.Context(), services.DonateRequest{
		UserID:          userID,
		CampaignID:      chi.URLParam(r, "id"),
		Amount:          amountMinor,
		Message:         req.Message,
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			respondError(w, http.StatusNotFound, "campaign not found")
		case errors.Is(err, services.ErrCampaignNotActive):
			respondError(w, http.StatusBadRequest, "campaign_not_active")
		case errors.Is(err, services.ErrCampaignEnded):
			respondError(w, http.StatusBadRequest, "campaign_ended")
		case errors.Is(err, services.ErrInsufficientFunds):
			respondError(w, http.StatusBadRequest, "insufficient_funds")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case db.IsUniqueViolation(err):
			respondError(w, http.StatusConflict, "duplicate_request")
		default:
			respondError(w, http.StatusInternalServerError, "donation_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"transaction_id": transactionID})
}

type campaignUpdateRequest struct {
	Body string `json:"body"`
}

func (h *Handler) PostCampaignUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	campaignID := chi.URLParam(r, "id")
	var req campaignUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		respondError(w, http.StatusBadRequest, "body is required")
		return
	}
	campaign, err := h.campaigns.GetByID(r.Context(), h.queryDB, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "campaign not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load campaign")
		return
	}
	if campaign.OwnerID != userID {
		respondError(w, http.StatusForbidden, "only the owner can post updates")
		return
	}
	updateID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.campaigns.CreateUpdate(r.Context(), tx, updateID, campaignID, userID, req.Body)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to post update")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": updateID})
}

package handlers

import (
	"net/http"

	"sosol/internal/middleware"
	"sosol/internal/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := paginate(r)
	notifications, err := h.notifications.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load notifications")
		return
	}
	unread, err := h.notifications.CountUnread(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load notifications")
		return
	}
	payloads := make([]map[string]any, 0, len(notifications))
	for _, n := range notifications {
		payload := map[string]any{
			"id":         n.ID,
			"type":       n.Type,
			"message":    n.Message,
			"is_read":    n.IsRead,
			"created_at": n.CreatedAt,
		}
		// The target drives where the UI links to. Unknown or absent
		// references decode to no target and the entry renders as plain text.
		switch target := models.DecodeTarget(n.ReferenceType, n.ReferenceID).(type) {
		case models.TransactionTarget:
			payload["target"] = map[string]string{"kind": "transaction", "id": target.ID}
		case models.CampaignTarget:
			payload["target"] = map[string]string{"kind": "campaign", "id": target.ID}
		case models.LoanTarget:
			payload["target"] = map[string]string{"kind": "loan", "id": target.ID}
		}
		payloads = append(payloads, payload)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": payloads,
		"unread_count":  unread,
	})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.notifications.MarkRead(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update notification")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.notifications.MarkAllRead(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.notifications.Delete(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete notification")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

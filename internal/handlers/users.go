package handlers

import (
	"net/http"

	"sosol/internal/middleware"
)

func (h *Handler) MyActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := paginate(r)
	activities, err := h.activities.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load activity")
		return
	}
	respondJSON(w, http.StatusOK, activities)
}

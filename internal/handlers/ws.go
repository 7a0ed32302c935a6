package handlers

import (
	"net/http"
	"strings"

	"sosol/internal/auth"
	"sosol/internal/websocket"
)

// WSBalances upgrades to a websocket that streams balance updates and
// notification events for the authenticated user. Browsers cannot set an
// Authorization header on the upgrade request, so the token may arrive as a
// query parameter instead.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func paginate(r *http.Request) (limit, offset int) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit = parseInt(query.Get("limit"), 20)
	if limit > 100 {
		limit = 100
	}
	return limit, (page - 1) * limit
}

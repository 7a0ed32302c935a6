package middleware

import (
	"context"
	"net/http"
)

type AdminStore interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin gates platform-operator routes: campaign activation, the
// global transaction feed and wallet reconciliation.
func RequireAdmin(adminStore AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			isAdmin, err := adminStore.IsAdmin(r.Context(), userID)
			if err != nil {
				http.Error(w, "unable to verify admin", http.StatusInternalServerError)
				return
			}
			if !isAdmin {
				http.Error(w, "admin privileges required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/pricecheck/internal/auth"
)

// RequireAuth validates the bearer token and populates the request principal.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				unauthorized(w)
				return
			}

			claims, err := tokens.VerifyAccess(strings.TrimPrefix(header, prefix))
			if err != nil {
				unauthorized(w)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				unauthorized(w)
				return
			}

			p := auth.Principal{
				UserID:   userID,
				Username: claims.Username,
				Email:    claims.Email,
			}

			ctx := auth.WithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/greenaudit/esg-insight/internal/application/auth"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// JWTAuth validates a Bearer token and stores the claims in the
// request context. When enforce is false, requests without a token
// pass through anonymously; a token that is present is still checked.
func JWTAuth(svc *auth.Service, enforce bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if enforce {
					unauthorized(w, "missing Authorization header")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				unauthorized(w, "invalid Authorization header format")
				return
			}

			claims, err := svc.Verify(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts verified claims, nil when anonymous
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

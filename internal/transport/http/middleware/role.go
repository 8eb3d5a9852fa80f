package middleware

import (
	"net/http"

	"github.com/bloodlink/api/internal/domain"
)

// RequireRole returns middleware that allows access only to requests whose
// token role is in the allow-list. Runs after Auth; a request with no claims
// in context is treated as unauthenticated.
func RequireRole(allowedRoles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
				return
			}
			for _, role := range allowedRoles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeMessage(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
		})
	}
}

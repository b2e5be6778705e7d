package handlers

import (
	"net/http"

	"github.com/taskvault/apiserver/internal/auth"
	"github.com/taskvault/apiserver/types"
)

// Authorize reports whether the claim's role is a member of the allowed
// set. There is no hierarchy: each route declares its exact set.
func Authorize(claims auth.Claims, allowed ...types.Role) bool {
	for _, role := range allowed {
		if claims.Role == role {
			return true
		}
	}
	return false
}

// RequireRole rejects authenticated requests whose role is not in the
// allowed set. Must run after RequireAuth.
func RequireRole(allowed ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !Authorize(claims, allowed...) {
				writeError(w, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

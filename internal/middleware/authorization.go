package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Authorities carried by the seeded roles.
const (
	AuthorityAdmin    = "ROLE_ADMIN"
	AuthorityOperator = "ROLE_OPERATOR"
)

// RequireAdmin middleware ensures the token carries the admin authority
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireAuthority([]string{AuthorityAdmin}, logger)
}

// RequireAuthority middleware ensures the token carries at least one of
// the given authorities. It must run after AuthMiddleware.
func RequireAuthority(allowed []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			held, ok := GetAuthorities(r.Context())
			if !ok {
				logger.Warn("Authorities not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			for _, a := range held {
				for _, want := range allowed {
					if a == want {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			logger.Warn("User not authorized",
				zap.Strings("authorities", held),
				zap.Strings("allowed", allowed),
			)
			RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

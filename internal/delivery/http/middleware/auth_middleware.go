package middleware

import (
	"context"
	"net/http"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/utils"
)

// AuthMiddleware requires a valid customer session and stores it in the context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := utils.ExtractCustomerSession(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), domain.CustomerSessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CustomerSessionFromContext returns the session AuthMiddleware stored, or nil.
func CustomerSessionFromContext(ctx context.Context) *domain.CustomerSession {
	session, _ := ctx.Value(domain.CustomerSessionContextKey).(*domain.CustomerSession)
	return session
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/logger"
)

// NewSessionMiddleware assigns every visitor a storefront session id cookie.
// The id keys the visitor's cart, so it outlives the cart session TTL.
func NewSessionMiddleware(maxAge time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(domain.StorefrontSessionCookie); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     domain.StorefrontSessionCookie,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(maxAge.Seconds()),
				})
			}

			ctx := context.WithValue(r.Context(), domain.StorefrontSessionContextKey, sessionID)
			sessionLogger := logger.WithSessionID(*logger.WithContext(ctx), sessionID)
			ctx = logger.NewContext(ctx, &sessionLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the storefront session id, or "".
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(domain.StorefrontSessionContextKey).(string)
	return id
}

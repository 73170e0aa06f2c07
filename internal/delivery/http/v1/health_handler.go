package v1

import (
	"context"
	"net/http"
	"time"

	"fiber-storefront/pkg/utils"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	sessions func() int
}

// NewHealthHandler accepts a nil db when cart slots live in memory.
func NewHealthHandler(db Pinger, sessions func() int) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{"status": "ok", "db": "memory"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["db"] = "unreachable"
		} else {
			body["db"] = "connected"
		}
	}
	if h.sessions != nil {
		body["cartSessions"] = h.sessions()
	}
	utils.WriteJSON(w, status, body)
}

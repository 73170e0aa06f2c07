// Package memory holds process-local repositories used when no database is configured.
package memory

import (
	"context"
	"time"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/cache"
)

type cartSlotRepository struct {
	store cache.CacheService
	ttl   time.Duration
}

// NewCartSlotRepository keeps cart ids for ttl after their last write.
func NewCartSlotRepository(store cache.CacheService, ttl time.Duration) domain.CartSlotRepository {
	return &cartSlotRepository{store: store, ttl: ttl}
}

func slotKey(sessionID string) string {
	return "cart_slot:" + sessionID
}

func (r *cartSlotRepository) GetCartID(_ context.Context, sessionID string) (string, error) {
	if v, ok := r.store.Get(slotKey(sessionID)); ok {
		return v.(string), nil
	}
	return "", nil
}

func (r *cartSlotRepository) SaveCartID(_ context.Context, sessionID, cartID string) error {
	r.store.Set(slotKey(sessionID), cartID, r.ttl)
	return nil
}

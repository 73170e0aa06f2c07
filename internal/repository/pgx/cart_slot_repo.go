package pgxrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/logger"
)

const (
	getCartIDSQL  = `SELECT cart_id FROM storefront_cart_slots WHERE session_id = $1`
	saveCartIDSQL = `INSERT INTO storefront_cart_slots (session_id, cart_id, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (session_id) DO UPDATE SET cart_id = EXCLUDED.cart_id, updated_at = now()`
)

type cartSlotRepository struct {
	db DBTX
}

func NewCartSlotRepository(db DBTX) domain.CartSlotRepository {
	return &cartSlotRepository{db: db}
}

// GetCartID returns "" when the session never created a cart.
func (r *cartSlotRepository) GetCartID(ctx context.Context, sessionID string) (string, error) {
	start := time.Now()
	var cartID string
	err := r.db.QueryRow(ctx, getCartIDSQL, sessionID).Scan(&cartID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
	}
	logger.DBQuery("get_cart_id", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("failed to load cart id: %w", err)
	}
	return cartID, nil
}

func (r *cartSlotRepository) SaveCartID(ctx context.Context, sessionID, cartID string) error {
	start := time.Now()
	_, err := r.db.Exec(ctx, saveCartIDSQL, sessionID, cartID)
	logger.DBQuery("save_cart_id", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save cart id: %w", err)
	}
	return nil
}

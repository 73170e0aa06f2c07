package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fiber-storefront/config"
	"fiber-storefront/internal/cart"
	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/cache"
	"fiber-storefront/pkg/logger"
)

// sessionSlot binds the cart-id repository to one storefront session.
type sessionSlot struct {
	repo      domain.CartSlotRepository
	sessionID string
}

func (s sessionSlot) Load(ctx context.Context) (string, error) {
	return s.repo.GetCartID(ctx, s.sessionID)
}

func (s sessionSlot) Save(ctx context.Context, cartID string) error {
	return s.repo.SaveCartID(ctx, s.sessionID, cartID)
}

// cartSession is a registry entry. ready closes once Init has finished so no
// mutation can race the initial load.
type cartSession struct {
	store *cart.Store
	ready chan struct{}
	// failed is set before ready closes when Init could not read the slot.
	failed bool
}

// CartUsecase keeps one cart.Store per storefront session.
type CartUsecase struct {
	backend     cart.Backend
	slots       domain.CartSlotRepository
	registry    cache.CacheService
	ttl         time.Duration
	timeout     time.Duration
	maxQuantity int
}

func NewCartUsecase(backend cart.Backend, slots domain.CartSlotRepository, registry cache.CacheService, cfg *config.Config) *CartUsecase {
	return &CartUsecase{
		backend:     backend,
		slots:       slots,
		registry:    registry,
		ttl:         cfg.CartSessionTTL,
		timeout:     cfg.CartMutationTimeout,
		maxQuantity: cfg.MaxCartQuantity,
	}
}

func registryKey(sessionID string) string {
	return "cart_session:" + sessionID
}

// session returns the Store for sessionID, creating and initializing it on first use.
// Every access slides the registry expiry.
func (u *CartUsecase) session(ctx context.Context, sessionID string) (*cart.Store, error) {
	if sessionID == "" {
		return nil, domain.NewValidationError("session", "Missing storefront session")
	}
	key := registryKey(sessionID)

	for {
		if v, ok := u.registry.Get(key); ok {
			sess := v.(*cartSession)
			u.registry.Set(key, sess, u.ttl)
			select {
			case <-sess.ready:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if sess.failed {
				// The owner dropped it; start over with a fresh Store.
				continue
			}
			return sess.store, nil
		}

		sess := &cartSession{
			store: cart.NewStore(u.backend, sessionSlot{repo: u.slots, sessionID: sessionID}, cart.Options{MutationTimeout: u.timeout}),
			ready: make(chan struct{}),
		}
		if !u.registry.Add(key, sess, u.ttl) {
			// Lost the race to another request for the same session.
			continue
		}

		err := sess.store.Init(ctx)
		if err != nil && sess.store.CartID() == "" {
			// The persisted id was never read. Serving this Store would let the
			// next add create a cart over the shopper's saved one.
			sess.failed = true
			u.registry.Delete(key)
			close(sess.ready)
			logger.WithContext(ctx).Error().Err(err).Str("session_id", sessionID).Msg("Cart init failed before reading the cart id")
			return nil, err
		}
		close(sess.ready)
		if err != nil {
			logger.WithContext(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("Cart init failed, continuing with held id")
		}
		return sess.store, nil
	}
}

// Get returns the session's current cart view.
func (u *CartUsecase) Get(ctx context.Context, sessionID string) (cart.View, error) {
	store, err := u.session(ctx, sessionID)
	if err != nil {
		return cart.View{}, err
	}
	return store.Snapshot(), nil
}

func (u *CartUsecase) AddLine(ctx context.Context, sessionID, merchandiseID string, quantity int) (cart.View, error) {
	if merchandiseID == "" {
		return cart.View{}, domain.NewValidationError("merchandiseId", "Merchandise is required")
	}
	if quantity < 1 || quantity > u.maxQuantity {
		return cart.View{}, domain.NewValidationError("quantity", fmt.Sprintf("Quantity must be between 1 and %d", u.maxQuantity))
	}

	store, err := u.session(ctx, sessionID)
	if err != nil {
		return cart.View{}, err
	}
	err = store.AddToCart(ctx, merchandiseID, quantity)
	return store.Snapshot(), err
}

// ChangeLineQuantity removes the line when quantity <= 0.
func (u *CartUsecase) ChangeLineQuantity(ctx context.Context, sessionID, lineID string, quantity int) (cart.View, error) {
	if lineID == "" {
		return cart.View{}, domain.NewValidationError("lineId", "Line is required")
	}
	if quantity > u.maxQuantity {
		return cart.View{}, domain.NewValidationError("quantity", fmt.Sprintf("Quantity must be at most %d", u.maxQuantity))
	}

	store, err := u.session(ctx, sessionID)
	if err != nil {
		return cart.View{}, err
	}
	err = store.ChangeLineQuantity(ctx, lineID, quantity)
	return store.Snapshot(), ignoreNoCart(err)
}

func (u *CartUsecase) RemoveLine(ctx context.Context, sessionID, lineID string) (cart.View, error) {
	if lineID == "" {
		return cart.View{}, domain.NewValidationError("lineId", "Line is required")
	}

	store, err := u.session(ctx, sessionID)
	if err != nil {
		return cart.View{}, err
	}
	err = store.RemoveLine(ctx, lineID)
	return store.Snapshot(), ignoreNoCart(err)
}

// SetOpen toggles drawer visibility.
func (u *CartUsecase) SetOpen(ctx context.Context, sessionID string, open bool) (cart.View, error) {
	store, err := u.session(ctx, sessionID)
	if err != nil {
		return cart.View{}, err
	}
	if open {
		store.Open()
	} else {
		store.Close()
	}
	return store.Snapshot(), nil
}

// ActiveSessions is the number of Stores currently held.
func (u *CartUsecase) ActiveSessions() int {
	return u.registry.ItemCount()
}

// Shutdown drops every held Store.
func (u *CartUsecase) Shutdown() {
	u.registry.Flush()
}

// Line mutations without a cart are no-ops.
func ignoreNoCart(err error) error {
	if errors.Is(err, cart.ErrNoCart) {
		return nil
	}
	return err
}

// Package cart holds the per-session Cart Store: the single authoritative
// snapshot of a shopper's cart and the serialized mutations that replace it.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/logger"
)

// Backend is the commerce API surface the Store mutates through.
type Backend interface {
	FetchCart(ctx context.Context, cartID string) (*domain.Cart, error)
	CreateCart(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []domain.CartLineUpdateInput) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
}

// IDSlot is the one persisted key holding the active cart id.
type IDSlot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, cartID string) error
}

type State int

const (
	StateUninitialized State = iota
	StateActive
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return "uninitialized"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const DefaultMutationTimeout = 15 * time.Second

type Options struct {
	// MutationTimeout bounds every upstream call. Zero means DefaultMutationTimeout.
	MutationTimeout time.Duration
}

// View is an immutable copy of the Store at one revision.
type View struct {
	Cart      *domain.Cart `json:"cart"`
	IsOpen    bool         `json:"isOpen"`
	IsLoading bool         `json:"isLoading"`
	State     State        `json:"state"`
	Revision  uint64       `json:"revision"`
}

type Store struct {
	backend Backend
	slot    IDSlot
	timeout time.Duration

	// sem admits one mutation at a time.
	sem     chan struct{}
	pending atomic.Int32

	mu       sync.RWMutex
	cartID   string
	cart     *domain.Cart
	state    State
	open     bool
	revision uint64
}

func NewStore(backend Backend, slot IDSlot, opts Options) *Store {
	timeout := opts.MutationTimeout
	if timeout <= 0 {
		timeout = DefaultMutationTimeout
	}
	return &Store{
		backend: backend,
		slot:    slot,
		timeout: timeout,
		sem:     make(chan struct{}, 1),
	}
}

// Init reads the persisted cart id and materializes the cart behind it.
// A fetch error keeps the id so later adds still target it; a missing cart
// moves the Store to StateExpired.
func (s *Store) Init(ctx context.Context) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	id, err := s.slot.Load(ctx)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Str("operation", "init").Msg("Failed to load cart id")
		return fmt.Errorf("load cart id: %w", err)
	}
	if id == "" {
		return nil
	}

	s.mu.Lock()
	s.cartID = id
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c, err := s.backend.FetchCart(callCtx, id)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Str("cart_id", id).Str("operation", "init").Msg("Failed to fetch cart")
		return fmt.Errorf("fetch cart: %w", err)
	}
	if c == nil {
		logger.WithContext(ctx).Warn().Str("cart_id", id).Msg("Persisted cart no longer exists")
		s.expire()
		return nil
	}
	s.commit(c, false)
	return nil
}

// AddToCart creates a cart when none is held, otherwise adds a line to the held one.
// On success the snapshot is replaced and the cart is opened.
func (s *Store) AddToCart(ctx context.Context, merchandiseID string, quantity int) error {
	return s.mutate(ctx, "add", func(ctx context.Context) error {
		lines := []domain.CartLineInput{{MerchandiseID: merchandiseID, Quantity: quantity}}

		if id := s.CartID(); id != "" {
			c, err := s.backend.AddLines(ctx, id, lines)
			switch {
			case errors.Is(err, ErrCartNotFound):
				logger.WithContext(ctx).Warn().Str("cart_id", id).Msg("Cart expired, creating a new one")
				s.expire()
			case err != nil:
				return err
			case c == nil:
				return ErrEmptyPayload
			default:
				s.commit(c, true)
				return nil
			}
		}

		s.restart()
		c, err := s.backend.CreateCart(ctx, lines)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrEmptyPayload
		}
		s.commit(c, true)

		if err := s.slot.Save(ctx, c.ID); err != nil {
			logger.WithContext(ctx).Error().Err(err).Str("cart_id", c.ID).Msg("Failed to persist cart id")
		}
		return nil
	})
}

// UpdateLine sets a line's quantity. Quantities <= 0 are rejected without a request.
func (s *Store) UpdateLine(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	return s.mutate(ctx, "update", func(ctx context.Context) error {
		id := s.CartID()
		if id == "" {
			return ErrNoCart
		}
		c, err := s.backend.UpdateLines(ctx, id, []domain.CartLineUpdateInput{{ID: lineID, Quantity: quantity}})
		return s.apply(c, err)
	})
}

func (s *Store) RemoveLine(ctx context.Context, lineID string) error {
	return s.mutate(ctx, "remove", func(ctx context.Context) error {
		id := s.CartID()
		if id == "" {
			return ErrNoCart
		}
		c, err := s.backend.RemoveLines(ctx, id, []string{lineID})
		return s.apply(c, err)
	})
}

// ChangeLineQuantity is the quantity stepper entry point: <= 0 removes the line.
func (s *Store) ChangeLineQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveLine(ctx, lineID)
	}
	return s.UpdateLine(ctx, lineID, quantity)
}

func (s *Store) Open() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

func (s *Store) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// IsLoading reports whether any mutation is queued or in flight.
func (s *Store) IsLoading() bool {
	return s.pending.Load() > 0
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CartID is the id mutations currently target; empty when none is held.
func (s *Store) CartID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartID
}

// Cart returns a copy of the current snapshot, nil when there is none.
func (s *Store) Cart() *domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Cart:      s.cart.Clone(),
		IsOpen:    s.open,
		IsLoading: s.pending.Load() > 0,
		State:     s.state,
		Revision:  s.revision,
	}
}

// --- internals ---

func (s *Store) mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	s.pending.Add(1)
	defer s.pending.Add(-1)

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := fn(callCtx); err != nil {
		if !errors.Is(err, ErrNoCart) {
			logger.WithContext(ctx).Error().
				Err(err).
				Str("cart_id", s.CartID()).
				Str("operation", op).
				Msg("Cart mutation failed")
		}
		return err
	}
	return nil
}

// apply commits a line mutation response. A missing cart expires the Store.
func (s *Store) apply(c *domain.Cart, err error) error {
	if errors.Is(err, ErrCartNotFound) {
		s.expire()
		return err
	}
	if err != nil {
		return err
	}
	if c == nil {
		return ErrEmptyPayload
	}
	s.commit(c, false)
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

// commit replaces the snapshot. open is applied in the same critical section
// so no reader sees the new revision with the drawer still closed.
func (s *Store) commit(c *domain.Cart, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c.Clone()
	s.cartID = c.ID
	s.state = StateActive
	s.revision++
	if open {
		s.open = true
	}
}

// restart leaves StateExpired ahead of creating a replacement cart.
func (s *Store) restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateExpired {
		s.state = StateUninitialized
	}
}

// expire drops the in-memory id. The snapshot is kept until a new cart replaces it.
func (s *Store) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartID = ""
	s.state = StateExpired
}

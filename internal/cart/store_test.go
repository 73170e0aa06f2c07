package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"fiber-storefront/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	op     string
	cartID string
}

// fakeBackend keeps carts in memory and records every request.
type fakeBackend struct {
	mu        sync.Mutex
	carts     map[string]*domain.Cart
	calls     []call
	nextID    int
	nextLine  int
	inFlight  int
	maxFlight int

	failWith  error
	createErr error
	gate      chan struct{}
	delay     time.Duration
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{carts: map[string]*domain.Cart{}}
}

func (b *fakeBackend) enter(ctx context.Context, op, cartID string) error {
	b.mu.Lock()
	b.calls = append(b.calls, call{op: op, cartID: cartID})
	b.inFlight++
	if b.inFlight > b.maxFlight {
		b.maxFlight = b.inFlight
	}
	gate, delay := b.gate, b.delay
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			b.leave()
			return ctx.Err()
		}
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			b.leave()
			return ctx.Err()
		}
	}
	return nil
}

func (b *fakeBackend) leave() {
	b.mu.Lock()
	b.inFlight--
	b.mu.Unlock()
}

func (b *fakeBackend) addLinesLocked(c *domain.Cart, lines []domain.CartLineInput) {
	for _, l := range lines {
		b.nextLine++
		c.Lines = append(c.Lines, domain.CartLine{
			ID:          fmt.Sprintf("line-%d", b.nextLine),
			Quantity:    l.Quantity,
			Merchandise: domain.Merchandise{ID: l.MerchandiseID},
		})
		c.TotalQuantity += l.Quantity
	}
}

func (b *fakeBackend) FetchCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	if err := b.enter(ctx, "fetch", cartID); err != nil {
		return nil, err
	}
	defer b.leave()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return nil, b.failWith
	}
	return b.carts[cartID].Clone(), nil
}

func (b *fakeBackend) CreateCart(ctx context.Context, lines []domain.CartLineInput) (*domain.Cart, error) {
	if err := b.enter(ctx, "create", ""); err != nil {
		return nil, err
	}
	defer b.leave()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return nil, b.failWith
	}
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.nextID++
	c := &domain.Cart{ID: fmt.Sprintf("gid://cart/%d", b.nextID), CheckoutURL: "https://checkout.test"}
	b.addLinesLocked(c, lines)
	b.carts[c.ID] = c
	return c.Clone(), nil
}

func (b *fakeBackend) AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (*domain.Cart, error) {
	if err := b.enter(ctx, "add", cartID); err != nil {
		return nil, err
	}
	defer b.leave()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return nil, b.failWith
	}
	c, ok := b.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	b.addLinesLocked(c, lines)
	return c.Clone(), nil
}

func (b *fakeBackend) UpdateLines(ctx context.Context, cartID string, lines []domain.CartLineUpdateInput) (*domain.Cart, error) {
	if err := b.enter(ctx, "update", cartID); err != nil {
		return nil, err
	}
	defer b.leave()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return nil, b.failWith
	}
	c, ok := b.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	for _, u := range lines {
		for i := range c.Lines {
			if c.Lines[i].ID == u.ID {
				c.TotalQuantity += u.Quantity - c.Lines[i].Quantity
				c.Lines[i].Quantity = u.Quantity
			}
		}
	}
	return c.Clone(), nil
}

func (b *fakeBackend) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	if err := b.enter(ctx, "remove", cartID); err != nil {
		return nil, err
	}
	defer b.leave()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return nil, b.failWith
	}
	c, ok := b.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	for _, id := range lineIDs {
		kept := c.Lines[:0]
		for _, l := range c.Lines {
			if l.ID == id {
				c.TotalQuantity -= l.Quantity
				continue
			}
			kept = append(kept, l)
		}
		c.Lines = kept
	}
	return c.Clone(), nil
}

func (b *fakeBackend) recorded() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]call(nil), b.calls...)
}

func (b *fakeBackend) setFailure(err error) {
	b.mu.Lock()
	b.failWith = err
	b.mu.Unlock()
}

type memSlot struct {
	mu      sync.Mutex
	id      string
	saves   int
	loadErr error
}

func (s *memSlot) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.loadErr
}

func (s *memSlot) Save(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.saves++
	return nil
}

func TestStore_AddToCart_CreatesOnceThenAdds(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	slot := &memSlot{}
	store := NewStore(backend, slot, Options{})

	for i := 0; i < 3; i++ {
		require.NoError(t, store.AddToCart(ctx, fmt.Sprintf("variant-%d", i), 1))
	}

	calls := backend.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, "create", calls[0].op)
	for _, c := range calls[1:] {
		assert.Equal(t, "add", c.op)
		assert.Equal(t, slot.id, c.cartID)
	}
	assert.Equal(t, 1, slot.saves)
	assert.Equal(t, "gid://cart/1", slot.id)

	view := store.Snapshot()
	assert.Equal(t, StateActive, view.State)
	assert.True(t, view.IsOpen)
	assert.Equal(t, uint64(3), view.Revision)
	assert.Equal(t, 3, view.Cart.TotalQuantity)
	assert.Len(t, view.Cart.Lines, 3)
}

func TestStore_LineMutationsWithoutCart(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := NewStore(backend, &memSlot{}, Options{})

	assert.ErrorIs(t, store.UpdateLine(ctx, "line-1", 2), ErrNoCart)
	assert.ErrorIs(t, store.RemoveLine(ctx, "line-1"), ErrNoCart)
	assert.ErrorIs(t, store.ChangeLineQuantity(ctx, "line-1", 0), ErrNoCart)

	assert.Empty(t, backend.recorded())
	assert.Nil(t, store.Cart())
	assert.Equal(t, StateUninitialized, store.State())
}

func TestStore_FailedMutationKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := NewStore(backend, &memSlot{}, Options{})

	require.NoError(t, store.AddToCart(ctx, "variant-1", 2))
	before := store.Snapshot()
	lineID := before.Cart.Lines[0].ID

	transport := errors.New("connection reset")
	backend.setFailure(transport)

	tests := []struct {
		name string
		run  func() error
	}{
		{"add", func() error { return store.AddToCart(ctx, "variant-2", 1) }},
		{"update", func() error { return store.UpdateLine(ctx, lineID, 5) }},
		{"remove", func() error { return store.RemoveLine(ctx, lineID) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			assert.ErrorIs(t, err, transport)
			after := store.Snapshot()
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("snapshot changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeBackend(), &memSlot{}, Options{})
	require.NoError(t, store.AddToCart(ctx, "variant-1", 1))

	view := store.Snapshot()
	view.Cart.Lines[0].Quantity = 99
	view.Cart.TotalQuantity = 99

	assert.Equal(t, 1, store.Cart().Lines[0].Quantity)
	assert.Equal(t, 1, store.Cart().TotalQuantity)
}

func TestStore_ChangeLineQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantOp   string
		wantQty  int
		wantLine bool
	}{
		{name: "positive updates", quantity: 3, wantOp: "update", wantQty: 3, wantLine: true},
		{name: "zero removes", quantity: 0, wantOp: "remove"},
		{name: "negative removes", quantity: -2, wantOp: "remove"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := newFakeBackend()
			store := NewStore(backend, &memSlot{}, Options{})
			require.NoError(t, store.AddToCart(ctx, "variant-1", 1))
			lineID := store.Cart().Lines[0].ID

			require.NoError(t, store.ChangeLineQuantity(ctx, lineID, tt.quantity))

			calls := backend.recorded()
			assert.Equal(t, tt.wantOp, calls[len(calls)-1].op)
			line, ok := store.Cart().Line(lineID)
			assert.Equal(t, tt.wantLine, ok)
			if tt.wantLine {
				assert.Equal(t, tt.wantQty, line.Quantity)
			}
		})
	}
}

func TestStore_UpdateLineRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	store := NewStore(backend, &memSlot{}, Options{})
	require.NoError(t, store.AddToCart(ctx, "variant-1", 1))

	assert.ErrorIs(t, store.UpdateLine(ctx, "line-1", 0), ErrNonPositiveQuantity)
	assert.ErrorIs(t, store.UpdateLine(ctx, "line-1", -1), ErrNonPositiveQuantity)
	assert.Len(t, backend.recorded(), 1)
}

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.delay = 2 * time.Millisecond
	slot := &memSlot{}
	store := NewStore(backend, slot, Options{})

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.AddToCart(ctx, fmt.Sprintf("variant-%d", i), 1))
		}(i)
	}
	wg.Wait()

	calls := backend.recorded()
	creates := 0
	for _, c := range calls {
		if c.op == "create" {
			creates++
			continue
		}
		assert.Equal(t, slot.id, c.cartID)
	}
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, backend.maxFlight)

	view := store.Snapshot()
	assert.Equal(t, n, view.Cart.TotalQuantity)
	assert.Equal(t, uint64(n), view.Revision)
	assert.False(t, view.IsLoading)
}

func TestStore_IsLoadingWhileInFlight(t *testing.T) {
	backend := newFakeBackend()
	backend.gate = make(chan struct{})
	store := NewStore(backend, &memSlot{}, Options{})

	done := make(chan error, 1)
	go func() {
		done <- store.AddToCart(context.Background(), "variant-1", 1)
	}()

	require.Eventually(t, store.IsLoading, time.Second, time.Millisecond)
	close(backend.gate)
	require.NoError(t, <-done)
	assert.False(t, store.IsLoading())
}

func TestStore_MutationTimeoutClearsLoading(t *testing.T) {
	backend := newFakeBackend()
	backend.gate = make(chan struct{})
	defer close(backend.gate)
	store := NewStore(backend, &memSlot{}, Options{MutationTimeout: 20 * time.Millisecond})

	err := store.AddToCart(context.Background(), "variant-1", 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, store.IsLoading())
	assert.Nil(t, store.Cart())
}

func TestStore_Init(t *testing.T) {
	t.Run("no persisted id", func(t *testing.T) {
		backend := newFakeBackend()
		store := NewStore(backend, &memSlot{}, Options{})
		require.NoError(t, store.Init(context.Background()))
		assert.Empty(t, backend.recorded())
		assert.Equal(t, StateUninitialized, store.State())
	})

	t.Run("persisted cart is loaded", func(t *testing.T) {
		backend := newFakeBackend()
		backend.carts["gid://cart/9"] = &domain.Cart{ID: "gid://cart/9", TotalQuantity: 4}
		store := NewStore(backend, &memSlot{id: "gid://cart/9"}, Options{})

		require.NoError(t, store.Init(context.Background()))
		assert.Equal(t, StateActive, store.State())
		assert.Equal(t, 4, store.Cart().TotalQuantity)
		assert.False(t, store.IsOpen())
	})

	t.Run("expired cart is recreated on add", func(t *testing.T) {
		ctx := context.Background()
		backend := newFakeBackend()
		slot := &memSlot{id: "gid://cart/stale"}
		store := NewStore(backend, slot, Options{})

		require.NoError(t, store.Init(ctx))
		assert.Equal(t, StateExpired, store.State())
		assert.Empty(t, store.CartID())

		assert.ErrorIs(t, store.RemoveLine(ctx, "line-1"), ErrNoCart)

		require.NoError(t, store.AddToCart(ctx, "variant-1", 1))
		assert.Equal(t, StateActive, store.State())
		assert.Equal(t, "gid://cart/1", slot.id)
		assert.Equal(t, 1, slot.saves)
	})

	t.Run("fetch error keeps the persisted id", func(t *testing.T) {
		ctx := context.Background()
		backend := newFakeBackend()
		backend.carts["gid://cart/9"] = &domain.Cart{ID: "gid://cart/9"}
		backend.setFailure(errors.New("timeout"))
		store := NewStore(backend, &memSlot{id: "gid://cart/9"}, Options{})

		require.Error(t, store.Init(ctx))
		assert.Nil(t, store.Cart())
		assert.Equal(t, "gid://cart/9", store.CartID())

		backend.setFailure(nil)
		require.NoError(t, store.AddToCart(ctx, "variant-1", 1))
		calls := backend.recorded()
		assert.Equal(t, call{op: "add", cartID: "gid://cart/9"}, calls[len(calls)-1])
	})
}

func TestStore_AddToCartRecreatesMissingCart(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	slot := &memSlot{}
	store := NewStore(backend, slot, Options{})
	require.NoError(t, store.AddToCart(ctx, "variant-1", 1))

	backend.mu.Lock()
	delete(backend.carts, slot.id)
	backend.mu.Unlock()

	require.NoError(t, store.AddToCart(ctx, "variant-2", 1))

	calls := backend.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"create", "add", "create"}, []string{calls[0].op, calls[1].op, calls[2].op})
	assert.Equal(t, "gid://cart/2", slot.id)
	assert.Equal(t, 2, slot.saves)
	assert.Equal(t, StateActive, store.State())
	assert.Equal(t, 1, store.Cart().TotalQuantity)
}

func TestStore_ExpiredStoreRestartsOnAdd(t *testing.T) {
	t.Run("failed create leaves the store uninitialized", func(t *testing.T) {
		ctx := context.Background()
		backend := newFakeBackend()
		slot := &memSlot{id: "gid://cart/stale"}
		store := NewStore(backend, slot, Options{})
		require.NoError(t, store.Init(ctx))
		require.Equal(t, StateExpired, store.State())

		backend.setFailure(errors.New("backend unavailable"))
		require.Error(t, store.AddToCart(ctx, "variant-1", 1))
		assert.Equal(t, StateUninitialized, store.State())
		assert.Equal(t, "gid://cart/stale", slot.id)

		backend.setFailure(nil)
		require.NoError(t, store.AddToCart(ctx, "variant-1", 1))
		assert.Equal(t, StateActive, store.State())
		assert.Equal(t, "gid://cart/1", slot.id)
	})

	t.Run("cart lost mid-add restarts before create", func(t *testing.T) {
		ctx := context.Background()
		backend := newFakeBackend()
		slot := &memSlot{}
		store := NewStore(backend, slot, Options{})
		require.NoError(t, store.AddToCart(ctx, "variant-1", 1))

		// The add reports the cart missing; the create behind it fails.
		backend.mu.Lock()
		delete(backend.carts, slot.id)
		backend.createErr = errors.New("backend unavailable")
		backend.mu.Unlock()

		require.Error(t, store.AddToCart(ctx, "variant-2", 1))
		assert.Equal(t, StateUninitialized, store.State())
		assert.Empty(t, store.CartID())
	})
}

func TestStore_SnapshotOpensWithCommit(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeBackend(), &memSlot{}, Options{})

	var (
		wg   sync.WaitGroup
		torn = make(chan View, 1)
		stop = make(chan struct{})
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if v := store.Snapshot(); v.Revision > 0 && !v.IsOpen {
				select {
				case torn <- v:
				default:
				}
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		require.NoError(t, store.AddToCart(ctx, fmt.Sprintf("variant-%d", i), 1))
	}
	close(stop)
	wg.Wait()

	select {
	case v := <-torn:
		t.Fatalf("snapshot at revision %d was not open", v.Revision)
	default:
	}
	view := store.Snapshot()
	assert.True(t, view.IsOpen)
	assert.Equal(t, uint64(50), view.Revision)
}

func TestStore_UpdateOnMissingCartExpires(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	slot := &memSlot{}
	store := NewStore(backend, slot, Options{})
	require.NoError(t, store.AddToCart(ctx, "variant-1", 1))
	before := store.Cart()

	backend.mu.Lock()
	delete(backend.carts, slot.id)
	backend.mu.Unlock()

	assert.ErrorIs(t, store.UpdateLine(ctx, before.Lines[0].ID, 2), ErrCartNotFound)
	assert.Equal(t, StateExpired, store.State())
	assert.Empty(t, cmp.Diff(before, store.Cart()))
}

func TestStore_OpenClose(t *testing.T) {
	store := NewStore(newFakeBackend(), &memSlot{}, Options{})
	assert.False(t, store.IsOpen())
	store.Open()
	assert.True(t, store.IsOpen())
	store.Close()
	assert.False(t, store.IsOpen())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "expired", StateExpired.String())
}

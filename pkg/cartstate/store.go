// Package cartstate owns the client-side copy of the shopping cart.
// The store never edits the cart locally; every mutation round-trips
// to the server and replaces the local copy with the response.
package cartstate

import (
	"context"
	"sync"
	"sync/atomic"

	"storefront/pkg/api"
)

// User-facing failure messages. Transport detail stays in the returned
// errors; the snapshot only ever carries these.
const (
	msgLoadFailed   = "Failed to load cart"
	msgAddFailed    = "Failed to add item to cart"
	msgUpdateFailed = "Failed to update cart"
	msgRemoveFailed = "Failed to remove item from cart"
	msgClearFailed  = "Failed to clear cart"
)

// CartClient is the slice of api.Client the store uses.
type CartClient interface {
	GetCart(ctx context.Context) (*api.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (*api.CartMutation, error)
	UpdateItem(ctx context.Context, productID string, quantity int) (*api.CartMutation, error)
	RemoveItem(ctx context.Context, productID string) (*api.CartRemoval, error)
	ClearCart(ctx context.Context) (*api.Cart, error)
}

// Snapshot is a point-in-time copy of the store's state. Loading is
// true only until the first Refresh settles; Err is empty unless the
// most recent applied operation failed.
type Snapshot struct {
	Cart    api.Cart
	Loading bool
	Err     string
}

// Store serializes state application with a mutex; network calls run
// on the caller's goroutine outside the lock. Each request takes a
// sequence number when it starts, and a response is discarded when a
// later-issued response has already been applied, so the cart reflects
// the last intent rather than the last arrival.
type Store struct {
	client CartClient
	seq    atomic.Uint64

	mu          sync.Mutex
	cart        api.Cart
	loading     bool
	errMsg      string
	lastApplied uint64
}

func New(client CartClient) *Store {
	return &Store{
		client:  client,
		loading: true,
		cart:    api.Cart{Items: []api.CartItem{}, Subtotal: "0.00"},
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]api.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	cart := s.cart
	cart.Items = items
	return Snapshot{Cart: cart, Loading: s.loading, Err: s.errMsg}
}

// Refresh fetches the cart and replaces local state. It reports
// failure only through the snapshot: the prior cart is kept and Err is
// set.
func (s *Store) Refresh(ctx context.Context) {
	seq := s.seq.Add(1)
	cart, err := s.client.GetCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errMsg = msgLoadFailed
		return
	}
	s.applyLocked(seq, *cart)
}

// AddItem adds quantity of a product. On failure the store error is
// set and the error is also returned, so the calling view can react.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	seq := s.seq.Add(1)
	mutation, err := s.client.AddItem(ctx, productID, quantity)
	if err != nil {
		s.setError(msgAddFailed)
		return err
	}
	s.apply(seq, mutation.Cart)
	return nil
}

// UpdateItem sets an absolute quantity. Quantities below 1 are the
// caller's concern; the store forwards them as-is.
func (s *Store) UpdateItem(ctx context.Context, productID string, quantity int) error {
	seq := s.seq.Add(1)
	mutation, err := s.client.UpdateItem(ctx, productID, quantity)
	if err != nil {
		s.setError(msgUpdateFailed)
		return err
	}
	s.apply(seq, mutation.Cart)
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	seq := s.seq.Add(1)
	removal, err := s.client.RemoveItem(ctx, productID)
	if err != nil {
		s.setError(msgRemoveFailed)
		return err
	}
	s.apply(seq, removal.Cart)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	seq := s.seq.Add(1)
	cart, err := s.client.ClearCart(ctx)
	if err != nil {
		s.setError(msgClearFailed)
		return err
	}
	s.apply(seq, *cart)
	return nil
}

func (s *Store) apply(seq uint64, cart api.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(seq, cart)
}

func (s *Store) applyLocked(seq uint64, cart api.Cart) {
	if seq < s.lastApplied {
		// A later-issued request already landed; this response is stale.
		return
	}
	s.lastApplied = seq
	s.cart = cart
	s.errMsg = ""
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

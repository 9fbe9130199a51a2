package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

// ErrProductNotFound is the catalog's not-found sentinel re-exported so
// callers of the cart don't have to import the catalog to classify it.
var ErrProductNotFound = catalog.ErrProductNotFound

// ProductFinder is the slice of the catalog the cart needs: enough to
// snapshot a product into a line item and reject inactive ones.
type ProductFinder interface {
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     Repository
	cache    Cache
	products ProductFinder
	sfg      singleflight.Group // Prevents cache stampede

	mu       sync.Mutex // Serializes cache fills against invalidations
	cacheGen map[string]uint64
}

func NewService(repo Repository, cache Cache, products ProductFinder) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		products: products,
		cacheGen: make(map[string]uint64),
	}
}

// GetCart returns the session's cart, an empty cart when none exists yet.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.WithError(err).Warn("cart cache get failed")
		}

		gen := s.generation(sessionID)
		cart, errGet := s.repo.GetCart(ctx, sessionID)
		if errors.Is(errGet, ErrCartNotFound) {
			return domain.EmptyCart(sessionID), nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go s.fillCache(sessionID, gen, cart)

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem snapshots the product into the cart, incrementing the quantity
// of an existing line. Returns the added/updated line and the full cart.
func (s *Service) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*domain.CartItem, *domain.Cart, error) {
	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			log.WithError(err).WithField("product_id", productID).Error("product lookup failed")
		}
		return nil, nil, err
	}

	item := domain.CartItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Name:      product.Name,
		Price:     product.Price.StringFixed(2),
	}
	if img := product.PrimaryImage(); img != nil {
		url := img.ImageURL
		item.ImageURL = &url
	}

	if err := s.repo.AddItem(ctx, sessionID, item); err != nil {
		log.WithError(err).Error("repo add item failed")
		return nil, nil, err
	}

	s.invalidateCache(sessionID)

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return cart.Item(productID), cart, nil
}

// UpdateQuantity sets the absolute quantity of a line item. A quantity of
// zero or less removes the line instead of keeping a non-positive count;
// the removed line's last snapshot is returned so callers can still render
// it. The item is nil only when the line was already absent.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.CartItem, *domain.Cart, error) {
	if quantity <= 0 {
		removed, cart, err := s.RemoveItem(ctx, sessionID, productID)
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrCartNotFound) {
			// Nothing to remove: settle on the current cart.
			cart, errGet := s.GetCart(ctx, sessionID)
			return nil, cart, errGet
		}
		return removed, cart, err
	}

	if err := s.repo.UpdateItemQuantity(ctx, sessionID, productID, quantity); err != nil {
		if !errors.Is(err, ErrItemNotFound) {
			log.WithError(err).Error("repo update quantity failed")
		}
		return nil, nil, err
	}

	s.invalidateCache(sessionID)

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return cart.Item(productID), cart, nil
}

// RemoveItem deletes a line item, returning the removed snapshot and the
// remaining cart.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.CartItem, *domain.Cart, error) {
	before, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	removed := before.Item(productID)
	if removed == nil {
		return nil, nil, ErrItemNotFound
	}

	if err := s.repo.RemoveItem(ctx, sessionID, productID); err != nil {
		if !errors.Is(err, ErrItemNotFound) {
			log.WithError(err).Error("repo remove item failed")
		}
		return nil, nil, err
	}

	s.invalidateCache(sessionID)

	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return removed, cart, nil
}

// Clear empties the cart. Clearing an absent cart is a no-op, not an error.
func (s *Service) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if err := s.repo.DeleteCart(ctx, sessionID); err != nil && !errors.Is(err, ErrCartNotFound) {
		log.WithError(err).Error("repo delete cart failed")
		return nil, err
	}

	s.invalidateCache(sessionID)
	return domain.EmptyCart(sessionID), nil
}

func (s *Service) generation(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cacheGen[sessionID]
}

// fillCache writes a read-through snapshot back to the cache. The write is
// skipped when the session was invalidated after the snapshot was taken, so
// a slow fill can never resurrect a pre-mutation cart.
func (s *Service) fillCache(sessionID string, gen uint64, cart *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cacheGen[sessionID] != gen {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, sessionID, cart); err != nil {
		log.WithError(err).Warn("cart cache set failed")
	}
}

func (s *Service) invalidateCache(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheGen[sessionID]++
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.WithError(err).Warn("cart cache invalidate failed")
	}
}

package httpapi

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/orders"
)

// Stub services shared by the handler tests. Zero values behave like an
// empty store; tests override the fields they care about.

type stubCatalog struct {
	categories []domain.Category
	category   *domain.Category
	products   []domain.Product
	total      int
	product    *domain.Product
	err        error

	lastFilter catalog.ProductFilter
}

func (s *stubCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

func (s *stubCatalog) GetCategory(_ context.Context, slug string) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.category == nil {
		return nil, catalog.ErrCategoryNotFound
	}
	return s.category, nil
}

func (s *stubCatalog) ListProducts(_ context.Context, filter catalog.ProductFilter) ([]domain.Product, int, error) {
	s.lastFilter = filter
	return s.products, s.total, s.err
}

func (s *stubCatalog) GetProduct(_ context.Context, slug string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.product == nil {
		return nil, catalog.ErrProductNotFound
	}
	return s.product, nil
}

type stubCarts struct {
	cart *domain.Cart
	item *domain.CartItem
	err  error

	lastSession string
	lastProduct string
	lastQty     int
	cleared     bool
}

func (s *stubCarts) GetCart(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.lastSession = sessionID
	if s.err != nil {
		return nil, s.err
	}
	if s.cart == nil {
		return domain.EmptyCart(sessionID), nil
	}
	return s.cart, nil
}

func (s *stubCarts) AddItem(_ context.Context, sessionID, productID string, quantity int) (*domain.CartItem, *domain.Cart, error) {
	s.lastSession, s.lastProduct, s.lastQty = sessionID, productID, quantity
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.item, s.cart, nil
}

func (s *stubCarts) UpdateQuantity(_ context.Context, sessionID, productID string, quantity int) (*domain.CartItem, *domain.Cart, error) {
	s.lastSession, s.lastProduct, s.lastQty = sessionID, productID, quantity
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.item, s.cart, nil
}

func (s *stubCarts) RemoveItem(_ context.Context, sessionID, productID string) (*domain.CartItem, *domain.Cart, error) {
	s.lastSession, s.lastProduct = sessionID, productID
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.item, s.cart, nil
}

func (s *stubCarts) Clear(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.lastSession = sessionID
	s.cleared = true
	if s.err != nil {
		return nil, s.err
	}
	return domain.EmptyCart(sessionID), nil
}

type stubOrders struct {
	order *domain.Order
	list  []*domain.Order
	total int
	err   error

	lastSession string
	lastReq     orders.CheckoutRequest
}

func (s *stubOrders) Checkout(_ context.Context, sessionID string, req orders.CheckoutRequest) (*domain.Order, error) {
	s.lastSession, s.lastReq = sessionID, req
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrders) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.order == nil || s.order.ID.String() != id {
		return nil, orders.ErrOrderNotFound
	}
	return s.order, nil
}

func (s *stubOrders) ListOrders(_ context.Context, sessionID string, limit, offset int) ([]*domain.Order, int, error) {
	s.lastSession = sessionID
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.list, s.total, nil
}

func newTestRouter(cat *stubCatalog, carts *stubCarts, ord *stubOrders) http.Handler {
	if cat == nil {
		cat = &stubCatalog{}
	}
	if carts == nil {
		carts = &stubCarts{}
	}
	if ord == nil {
		ord = &stubOrders{}
	}
	return NewRouter(RouterConfig{
		Catalog:        cat,
		Carts:          carts,
		Orders:         ord,
		PageSize:       DefaultPageSize,
		RequestTimeout: 5 * time.Second,
	})
}

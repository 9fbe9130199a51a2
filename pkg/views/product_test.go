package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/api"
)

type fakeProductGetter struct {
	product *api.ProductDetail
	err     error
}

func (f *fakeProductGetter) GetProduct(context.Context, string) (*api.ProductDetail, error) {
	return f.product, f.err
}

type fakeCartAdder struct {
	productID string
	quantity  int
	err       error
}

func (f *fakeCartAdder) AddItem(_ context.Context, productID string, quantity int) error {
	f.productID, f.quantity = productID, quantity
	return f.err
}

func fedora(stock int) *api.ProductDetail {
	return &api.ProductDetail{
		Product: api.Product{ID: "p1", Name: "Fedora", Slug: "fedora", Price: "120.00", Stock: stock, InStock: stock > 0},
	}
}

func TestQuantitySelector_ClampAtStockBounds(t *testing.T) {
	s := NewQuantitySelector(5)

	assert.Equal(t, 1, s.Change(-1)) // floor: 1-1 stays 1

	for i := 0; i < 10; i++ {
		s.Change(1)
	}
	assert.Equal(t, 5, s.Quantity()) // ceiling: stock

	assert.Equal(t, 5, s.Change(1))
	assert.Equal(t, 4, s.Change(-1))
}

func TestQuantitySelector_UnknownStockFallsBack(t *testing.T) {
	s := NewQuantitySelector(0)
	for i := 0; i < 200; i++ {
		s.Change(1)
	}
	assert.Equal(t, 99, s.Quantity())
}

func TestProductController_LoadReady(t *testing.T) {
	ctrl := NewProductController(&fakeProductGetter{product: fedora(5)}, &fakeCartAdder{})

	assert.Equal(t, StateLoading, ctrl.Page().State)

	ctrl.Load(context.Background(), "fedora")

	page := ctrl.Page()
	assert.Equal(t, StateReady, page.State)
	assert.Equal(t, "Fedora", page.Product.Name)
	assert.Equal(t, 1, page.Quantity)
}

func TestProductController_LoadNotFound(t *testing.T) {
	ctrl := NewProductController(&fakeProductGetter{err: api.ErrNotFound}, &fakeCartAdder{})

	ctrl.Load(context.Background(), "ghost")

	assert.Equal(t, StateNotFound, ctrl.Page().State)
}

func TestProductController_AddToCartResetsSelector(t *testing.T) {
	adder := &fakeCartAdder{}
	ctrl := NewProductController(&fakeProductGetter{product: fedora(5)}, adder)
	ctrl.Load(context.Background(), "fedora")

	ctrl.ChangeQuantity(1)
	ctrl.ChangeQuantity(1)
	require.Equal(t, 3, ctrl.Page().Quantity)

	require.NoError(t, ctrl.AddToCart(context.Background()))

	assert.Equal(t, "p1", adder.productID)
	assert.Equal(t, 3, adder.quantity)
	assert.Equal(t, 1, ctrl.Page().Quantity)
}

func TestProductController_AddToCartFailureKeepsSelection(t *testing.T) {
	adder := &fakeCartAdder{err: errors.New("boom")}
	ctrl := NewProductController(&fakeProductGetter{product: fedora(5)}, adder)
	ctrl.Load(context.Background(), "fedora")
	ctrl.ChangeQuantity(1)

	err := ctrl.AddToCart(context.Background())

	require.Error(t, err)
	assert.Equal(t, 2, ctrl.Page().Quantity)
}

func TestProductController_AddToCartBeforeLoadIsNoop(t *testing.T) {
	adder := &fakeCartAdder{}
	ctrl := NewProductController(&fakeProductGetter{product: fedora(5)}, adder)

	require.NoError(t, ctrl.AddToCart(context.Background()))
	assert.Empty(t, adder.productID)
}

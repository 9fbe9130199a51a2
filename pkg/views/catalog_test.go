package views

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/api"
)

type fakeCatalog struct {
	categories    *api.Page[api.Category]
	categoriesErr error
	products      *api.Page[api.Product]
	productsErr   error

	lastCategory string
	lastPage     int
	productCalls int
}

func (f *fakeCatalog) ListCategories(context.Context, int) (*api.Page[api.Category], error) {
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return f.categories, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, category string, page int) (*api.Page[api.Product], error) {
	f.lastCategory, f.lastPage = category, page
	f.productCalls++
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func catalogFixture() *fakeCatalog {
	next := "/api/products/?page=2"
	return &fakeCatalog{
		categories: &api.Page[api.Category]{
			Count:   1,
			Results: []api.Category{{Slug: "hats", Name: "Hats"}},
		},
		products: &api.Page[api.Product]{
			Count:   30,
			Next:    &next,
			Results: []api.Product{{Slug: "fedora", Name: "Fedora", Price: "120.00"}},
		},
	}
}

func TestListing_LoadAll(t *testing.T) {
	client := catalogFixture()
	ctrl := NewListingController(client)

	ctrl.Load(context.Background(), "all", 1)

	page := ctrl.Page()
	assert.Equal(t, StateReady, page.State)
	assert.Equal(t, "", client.lastCategory) // "all" means unfiltered
	require.Len(t, page.Products, 1)
	assert.Len(t, page.Categories, 1)
	assert.Equal(t, 30, page.TotalCount)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestListing_CategoryFilterPassedThrough(t *testing.T) {
	client := catalogFixture()
	ctrl := NewListingController(client)

	ctrl.Load(context.Background(), "hats", 2)

	assert.Equal(t, "hats", client.lastCategory)
	assert.Equal(t, 2, client.lastPage)
}

func TestListing_EmptyCategory(t *testing.T) {
	client := catalogFixture()
	client.products = &api.Page[api.Product]{Count: 0, Results: []api.Product{}}
	ctrl := NewListingController(client)

	ctrl.Load(context.Background(), "scarves", 1)

	assert.Equal(t, StateEmpty, ctrl.Page().State)
}

func TestListing_ProductFailureIsPageError(t *testing.T) {
	client := catalogFixture()
	client.productsErr = errors.New("boom")
	ctrl := NewListingController(client)

	ctrl.Load(context.Background(), "all", 1)

	page := ctrl.Page()
	assert.Equal(t, StateError, page.State)
	assert.Equal(t, "Failed to load products", page.Err)
}

func TestListing_CategoryFailureTolerated(t *testing.T) {
	client := catalogFixture()
	client.categoriesErr = errors.New("boom")
	ctrl := NewListingController(client)

	ctrl.Load(context.Background(), "all", 1)

	page := ctrl.Page()
	assert.Equal(t, StateReady, page.State)
	assert.Empty(t, page.Categories)
}

func TestListing_RetryRepeatsLastRequest(t *testing.T) {
	client := catalogFixture()
	client.productsErr = errors.New("boom")
	ctrl := NewListingController(client)

	ctrl.Load(context.Background(), "hats", 3)
	require.Equal(t, StateError, ctrl.Page().State)

	client.productsErr = nil
	ctrl.Retry(context.Background())

	assert.Equal(t, StateReady, ctrl.Page().State)
	assert.Equal(t, "hats", client.lastCategory)
	assert.Equal(t, 3, client.lastPage)
	assert.Equal(t, 2, client.productCalls)
}

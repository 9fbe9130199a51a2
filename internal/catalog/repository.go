package catalog

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	CategorySlug string
	Limit        int
	Offset       int
}

type Repository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*domain.Category, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	Close() error
}

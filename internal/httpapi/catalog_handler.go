package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

// CatalogService is the read-only slice of the catalog repository the
// HTTP layer consumes.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*domain.Category, error)
	ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]domain.Product, int, error)
	GetProduct(ctx context.Context, slug string) (*domain.Product, error)
}

type CatalogHandler struct {
	catalog  CatalogService
	pageSize int
	timeout  time.Duration
}

func NewCatalogHandler(svc CatalogService, pageSize int, timeout time.Duration) *CatalogHandler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &CatalogHandler{catalog: svc, pageSize: pageSize, timeout: timeout}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, err := pageParam(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Invalid page.")
		return
	}

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		log.WithError(err).Error("failed to list categories")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// The category set is small; the envelope is kept for contract
	// uniformity and sliced in memory.
	count := len(categories)
	offset := (page - 1) * h.pageSize
	if offset > 0 && offset >= count {
		respondError(w, http.StatusNotFound, "Invalid page.")
		return
	}
	end := offset + h.pageSize
	if end > count {
		end = count
	}

	results := make([]CategoryDTO, 0, end-offset)
	for _, c := range categories[offset:end] {
		results = append(results, toCategoryDTO(c))
	}

	respondJSON(w, http.StatusOK, newPage(r, count, page, h.pageSize, results))
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	category, err := h.catalog.GetCategory(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		log.WithError(err).WithField("slug", slug).Error("failed to get category")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toCategoryDTO(*category))
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, err := pageParam(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Invalid page.")
		return
	}

	filter := catalog.ProductFilter{
		CategorySlug: r.URL.Query().Get("category"),
		Limit:        h.pageSize,
		Offset:       (page - 1) * h.pageSize,
	}

	products, count, err := h.catalog.ListProducts(ctx, filter)
	if err != nil {
		log.WithError(err).Error("failed to list products")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if filter.Offset > 0 && filter.Offset >= count {
		respondError(w, http.StatusNotFound, "Invalid page.")
		return
	}

	results := make([]ProductDTO, 0, len(products))
	for i := range products {
		results = append(results, toProductDTO(&products[i]))
	}

	respondJSON(w, http.StatusOK, newPage(r, count, page, h.pageSize, results))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	product, err := h.catalog.GetProduct(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.WithError(err).WithField("slug", slug).Error("failed to get product")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toProductDetailDTO(product))
}

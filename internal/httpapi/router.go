// Package httpapi exposes the storefront REST contract over chi.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	Catalog        CatalogService
	Carts          CartService
	Orders         OrderService
	PageSize       int
	RequestTimeout time.Duration
}

// NewRouter assembles the full API surface. Trailing slashes are part
// of the contract, so slash redirection stays off.
func NewRouter(cfg RouterConfig) http.Handler {
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.PageSize, cfg.RequestTimeout)
	cartHandler := NewCartHandler(cfg.Carts, cfg.RequestTimeout)
	ordersHandler := NewOrdersHandler(cfg.Orders, cfg.PageSize, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories/", catalogHandler.ListCategories)
		r.Get("/categories/{slug}/", catalogHandler.GetCategory)
		r.Get("/products/", catalogHandler.ListProducts)
		r.Get("/products/{slug}/", catalogHandler.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items/", cartHandler.AddItem)
			r.Patch("/items/{product_id}/", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}/", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Post("/checkout/", ordersHandler.Checkout)
			r.Get("/{id}/", ordersHandler.GetOrder)
		})
	})

	return otelhttp.NewHandler(r, "storefront-api")
}

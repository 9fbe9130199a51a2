package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

// CartService is the cart operations slice consumed over HTTP.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID, productID string, quantity int) (*domain.CartItem, *domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.CartItem, *domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*domain.CartItem, *domain.Cart, error)
	Clear(ctx context.Context, sessionID string) (*domain.Cart, error)
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{carts: carts, timeout: timeout}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.GetCart(ctx, getSessionID(r.Context()))
	if err != nil {
		log.WithError(err).Error("failed to get cart")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	item, c, err := h.carts.AddItem(ctx, getSessionID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		h.handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CartMutationDTO{Item: itemDTO(item), Cart: toCartDTO(c)})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	// quantity <= 0 removes the line; the service is tolerant of a
	// missing line in that case, so the 404 below only fires for a
	// positive-quantity update of an absent item.
	item, c, err := h.carts.UpdateQuantity(ctx, getSessionID(r.Context()), productID, *req.Quantity)
	if err != nil {
		h.handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartMutationDTO{Item: itemDTO(item), Cart: toCartDTO(c)})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	removed, c, err := h.carts.RemoveItem(ctx, getSessionID(r.Context()), productID)
	if err != nil {
		h.handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartRemovalDTO{Removed: itemDTO(removed), Cart: toCartDTO(c)})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.Clear(ctx, getSessionID(r.Context()))
	if err != nil {
		log.WithError(err).Error("failed to clear cart")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "Item not found in cart")
	default:
		log.WithError(err).Error("cart operation failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func itemDTO(item *domain.CartItem) *CartItemDTO {
	if item == nil {
		return nil
	}
	dto := toCartItemDTO(*item)
	return &dto
}

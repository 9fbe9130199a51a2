package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/internal/orders"
)

// OrderService is the checkout/orders slice consumed over HTTP.
type OrderService interface {
	Checkout(ctx context.Context, sessionID string, req orders.CheckoutRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, sessionID string, limit, offset int) ([]*domain.Order, int, error)
}

type OrdersHandler struct {
	orders   OrderService
	pageSize int
	timeout  time.Duration
}

func NewOrdersHandler(svc OrderService, pageSize int, timeout time.Duration) *OrdersHandler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &OrdersHandler{orders: svc, pageSize: pageSize, timeout: timeout}
}

type CheckoutRequestDTO struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateCheckout evaluates every rule so the response carries the
// full set of field errors, not just the first.
func validateCheckout(req CheckoutRequestDTO) map[string]string {
	errs := make(map[string]string)
	switch {
	case req.Email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(req.Email):
		errs["email"] = "Please enter a valid email"
	}
	if req.Name == "" {
		errs["name"] = "Name is required"
	}
	if req.AddressLine1 == "" {
		errs["address_line_1"] = "Address is required"
	}
	if req.City == "" {
		errs["city"] = "City is required"
	}
	if req.State == "" {
		errs["state"] = "State is required"
	}
	if req.PostalCode == "" {
		errs["postal_code"] = "Postal code is required"
	}
	return errs
}

func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if errs := validateCheckout(req); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: errs})
		return
	}

	order, err := h.orders.Checkout(ctx, getSessionID(r.Context()), orders.CheckoutRequest{
		Email:        req.Email,
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
	})
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		log.WithError(err).Error("checkout failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, toOrderDTO(order))
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	order, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.WithError(err).WithField("order_id", id).Error("failed to get order")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, err := pageParam(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Invalid page.")
		return
	}
	offset := (page - 1) * h.pageSize

	list, count, err := h.orders.ListOrders(ctx, getSessionID(r.Context()), h.pageSize, offset)
	if err != nil {
		log.WithError(err).Error("failed to list orders")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if offset > 0 && offset >= count {
		respondError(w, http.StatusNotFound, "Invalid page.")
		return
	}

	results := make([]OrderListItemDTO, 0, len(list))
	for _, order := range list {
		results = append(results, toOrderListItemDTO(order))
	}

	respondJSON(w, http.StatusOK, newPage(r, count, page, h.pageSize, results))
}

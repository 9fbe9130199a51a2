package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/orders"
)

func sampleOrder() *domain.Order {
	now := time.Now()
	productID := "prod-1"
	return &domain.Order{
		ID:         uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000000"),
		SessionID:  "s1",
		Email:      "jane@example.com",
		Status:     domain.OrderStatusPending,
		TotalPrice: decimal.RequireFromString("299.00"),
		Items: []domain.OrderItem{
			{ID: uuid.New(), ProductID: &productID, ProductName: "Fedora", Quantity: 2, PriceAtPurchase: decimal.RequireFromString("120.00")},
			{ID: uuid.New(), ProductName: "Beanie", Quantity: 1, PriceAtPurchase: decimal.RequireFromString("59.00")},
		},
		ShippingAddress: domain.ShippingAddress{
			Name:         "Jane Doe",
			AddressLine1: "1 Main St",
			City:         "Springfield",
			State:        "IL",
			PostalCode:   "62704",
			Country:      "United States",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

const validCheckoutBody = `{
	"email": "jane@example.com",
	"name": "Jane Doe",
	"address_line_1": "1 Main St",
	"city": "Springfield",
	"state": "IL",
	"postal_code": "62704"
}`

func TestCheckout_CreatesOrder(t *testing.T) {
	ord := &stubOrders{order: sampleOrder()}
	router := newTestRouter(nil, nil, ord)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout/", bytes.NewBufferString(validCheckoutBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp OrderDTO
	decodeBody(t, rec, &resp)
	assert.Equal(t, "a1b2c3d4-0000-4000-8000-000000000000", resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "299.00", resp.TotalPrice)
	assert.Equal(t, 3, resp.ItemCount)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "240.00", resp.Items[0].Subtotal)
	assert.Nil(t, resp.Items[1].ProductID)
	assert.Equal(t, "United States", resp.ShippingAddress.Country)
	assert.Equal(t, "jane@example.com", ord.lastReq.Email)
}

func TestCheckout_ValidationErrors(t *testing.T) {
	router := newTestRouter(nil, nil, &stubOrders{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout/", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Len(t, resp.Fields, 6)
	assert.Equal(t, "Email is required", resp.Fields["email"])
	assert.Equal(t, "Name is required", resp.Fields["name"])
	assert.Equal(t, "Address is required", resp.Fields["address_line_1"])
	assert.Equal(t, "City is required", resp.Fields["city"])
	assert.Equal(t, "State is required", resp.Fields["state"])
	assert.Equal(t, "Postal code is required", resp.Fields["postal_code"])
}

func TestCheckout_InvalidEmailOnly(t *testing.T) {
	router := newTestRouter(nil, nil, &stubOrders{})

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(validCheckoutBody), &body))
	body["email"] = "not-an-email"
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout/", bytes.NewBuffer(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "Please enter a valid email", resp.Fields["email"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	ord := &stubOrders{err: orders.ErrEmptyCart}
	router := newTestRouter(nil, nil, ord)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout/", bytes.NewBufferString(validCheckoutBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Cart is empty", resp.Error)
}

func TestGetOrder_OK(t *testing.T) {
	order := sampleOrder()
	router := newTestRouter(nil, nil, &stubOrders{order: order})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID.String()+"/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp OrderDTO
	decodeBody(t, rec, &resp)
	assert.Equal(t, order.ID.String(), resp.ID)
}

func TestGetOrder_NotFound(t *testing.T) {
	router := newTestRouter(nil, nil, &stubOrders{})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/00000000-0000-0000-0000-000000000000/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Order not found", resp.Error)
}

func TestListOrders(t *testing.T) {
	ord := &stubOrders{list: []*domain.Order{sampleOrder()}, total: 1}
	router := newTestRouter(nil, nil, ord)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", ord.lastSession)

	var page Page
	decodeBody(t, rec, &page)
	assert.Equal(t, 1, page.Count)
	raw, err := json.Marshal(page.Results)
	require.NoError(t, err)
	var results []OrderListItemDTO
	require.NoError(t, json.Unmarshal(raw, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "299.00", results[0].TotalPrice)
	assert.Equal(t, 3, results[0].ItemCount)
}

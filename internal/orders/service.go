package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

var ErrEmptyCart = errors.New("cannot create order from empty cart")

const DefaultCountry = "United States"

// CheckoutRequest carries already-validated checkout fields.
type CheckoutRequest struct {
	Email        string
	Name         string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// CartOps is the slice of the cart service checkout needs.
type CartOps interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) (*domain.Cart, error)
}

type Service struct {
	repo  Repository
	carts CartOps
}

func NewService(repo Repository, carts CartOps) *Service {
	return &Service{repo: repo, carts: carts}
}

// orderCreatedEvent is the outbox payload consumed by the notifier.
type orderCreatedEvent struct {
	OrderID    string        `json:"order_id"`
	Email      string        `json:"email"`
	TotalPrice string        `json:"total_price"`
	ItemCount  int           `json:"item_count"`
	Items      []eventItem   `json:"items"`
	Shipping   eventShipping `json:"shipping_address"`
	CreatedAt  time.Time     `json:"created_at"`
}

type eventItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type eventShipping struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// Checkout converts the session's cart into an immutable order, clears the
// cart, and queues an order-created event. The cart must be non-empty.
func (s *Service) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*domain.Order, error) {
	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	country := req.Country
	if country == "" {
		country = DefaultCountry
	}

	now := time.Now()
	order := &domain.Order{
		ID:        uuid.New(),
		SessionID: sessionID,
		Email:     req.Email,
		Status:    domain.OrderStatusPending,
		ShippingAddress: domain.ShippingAddress{
			ID:           uuid.New(),
			Name:         req.Name,
			AddressLine1: req.AddressLine1,
			AddressLine2: req.AddressLine2,
			City:         req.City,
			State:        req.State,
			PostalCode:   req.PostalCode,
			Country:      country,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, line := range cart.Items {
		price, err := decimal.NewFromString(line.Price)
		if err != nil {
			return nil, fmt.Errorf("bad price snapshot for product %s: %w", line.ProductID, err)
		}
		productID := line.ProductID
		order.Items = append(order.Items, domain.OrderItem{
			ID:              uuid.New(),
			ProductID:       &productID,
			ProductName:     line.Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: price,
		})
	}
	order.TotalPrice = order.CalculateTotal()

	event, err := json.Marshal(s.buildEvent(order))
	if err != nil {
		return nil, fmt.Errorf("marshal order event: %w", err)
	}

	if err := s.repo.CreateOrder(ctx, order, event); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if _, err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order exists; a lingering cart is recoverable, so don't fail
		// the checkout over it.
		log.WithError(err).WithField("order_id", order.ID).Warn("failed to clear cart after checkout")
	}

	return order, nil
}

func (s *Service) buildEvent(order *domain.Order) orderCreatedEvent {
	items := make([]eventItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = eventItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.PriceAtPurchase.StringFixed(2),
		}
	}
	addr := order.ShippingAddress
	return orderCreatedEvent{
		OrderID:    order.ID.String(),
		Email:      order.Email,
		TotalPrice: order.TotalPrice.StringFixed(2),
		ItemCount:  order.ItemCount(),
		Items:      items,
		Shipping: eventShipping{
			Name:         addr.Name,
			AddressLine1: addr.AddressLine1,
			AddressLine2: addr.AddressLine2,
			City:         addr.City,
			State:        addr.State,
			PostalCode:   addr.PostalCode,
			Country:      addr.Country,
		},
		CreatedAt: order.CreatedAt,
	}
}

// GetOrder looks an order up by its string id. Unparseable ids are treated
// as not found rather than bad requests, matching the public contract.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return s.repo.GetOrder(ctx, orderID)
}

func (s *Service) ListOrders(ctx context.Context, sessionID string, limit, offset int) ([]*domain.Order, int, error) {
	return s.repo.ListOrders(ctx, sessionID, limit, offset)
}

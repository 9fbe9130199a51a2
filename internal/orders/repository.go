package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// OutboxEvent is a pending domain event written in the same transaction
// as the order it describes.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type Repository interface {
	CreateOrder(ctx context.Context, order *domain.Order, event []byte) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, sessionID string, limit, offset int) ([]*domain.Order, int, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventProcessed(ctx context.Context, id int64) error
}

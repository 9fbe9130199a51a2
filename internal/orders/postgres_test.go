package orders

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:        uuid.New(),
		SessionID: "sess-1",
		Email:     "buyer@example.com",
		Status:    domain.OrderStatusPending,
		TotalPrice: decimal.RequireFromString("299.00"),
		Items: []domain.OrderItem{
			{ID: uuid.New(), ProductName: "Top Hat", Quantity: 2, PriceAtPurchase: decimal.RequireFromString("120.00")},
		},
		ShippingAddress: domain.ShippingAddress{
			ID: uuid.New(), Name: "Jane Buyer", AddressLine1: "1 Hat Lane",
			City: "Hatsville", State: "CA", PostalCode: "90001", Country: "United States",
		},
	}
}

func TestCreateOrder_SingleTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO shipping_addresses`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_outbox`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateOrder(context.Background(), order, []byte(`{"order_id":"x"}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_RollsBackOnItemFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO shipping_addresses`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_items`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateOrder(context.Background(), order, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func orderRows(order *domain.Order, now time.Time) *sqlmock.Rows {
	a := order.ShippingAddress
	return sqlmock.NewRows([]string{
		"id", "session_id", "email", "status", "total_price", "created_at", "updated_at",
		"a_id", "a_name", "a_line1", "a_line2", "a_city", "a_state", "a_postal", "a_country",
	}).AddRow(
		order.ID.String(), order.SessionID, order.Email, string(order.Status), "299.00", now, now,
		a.ID.String(), a.Name, a.AddressLine1, a.AddressLine2, a.City, a.State, a.PostalCode, a.Country,
	)
}

func TestGetOrder_LoadsItems(t *testing.T) {
	repo, mock := newMockRepo(t)
	order := sampleOrder()
	now := time.Now()

	mock.ExpectQuery(`FROM orders o JOIN shipping_addresses a`).
		WithArgs(order.ID).
		WillReturnRows(orderRows(order, now))
	mock.ExpectQuery(`FROM order_items`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "product_name", "quantity", "price_at_purchase"}).
			AddRow(uuid.NewString(), nil, "Top Hat", 2, "120.00"))

	got, err := repo.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", got.Email)
	require.Len(t, got.Items, 1)
	assert.Nil(t, got.Items[0].ProductID)
	assert.Equal(t, "240.00", got.Items[0].Subtotal().StringFixed(2))
}

func TestGetOrder_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM orders o JOIN shipping_addresses a`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetOrder(context.Background(), id)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOutboxRoundTrip(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`FROM order_outbox WHERE NOT processed`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "aggregate_id", "event_type", "payload", "created_at"}).
			AddRow(int64(7), "order-1", "order.created", []byte(`{}`), now))

	events, err := repo.GetUnprocessedEvents(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(7), events[0].ID)

	mock.ExpectExec(`UPDATE order_outbox SET processed`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkEventProcessed(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

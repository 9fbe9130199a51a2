// Package consumer turns order-created events into owner notifications.
// The original store emailed these; here they go to the structured log,
// which is where a mail sender would slot in.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"storefront/internal/orders/publisher"
)

type OrderCreatedEvent struct {
	OrderID    string      `json:"order_id"`
	Email      string      `json:"email"`
	TotalPrice string      `json:"total_price"`
	ItemCount  int         `json:"item_count"`
	Items      []EventItem `json:"items"`
	Shipping   Shipping    `json:"shipping_address"`
}

type EventItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type Shipping struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    publisher.Topic,
		GroupID:  "order-notifier",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.WithError(err).Error("error closing kafka reader")
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.WithError(err).Error("error reading message")
		return
	}

	var event OrderCreatedEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.WithError(err).Error("error parsing message")
		return
	}

	log.WithFields(log.Fields{
		"order_id": event.OrderID,
		"email":    event.Email,
		"total":    event.TotalPrice,
	}).Info(NotificationMessage(event))
}

// NotificationMessage renders the store-owner notification body.
func NotificationMessage(event OrderCreatedEvent) string {
	shortID := event.OrderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New Order #%s\n\n", shortID)
	fmt.Fprintf(&b, "Order ID: %s\n", event.OrderID)
	fmt.Fprintf(&b, "Customer Email: %s\n", event.Email)
	fmt.Fprintf(&b, "Total: $%s\n", event.TotalPrice)
	fmt.Fprintf(&b, "Items: %d\n\n", event.ItemCount)

	fmt.Fprintf(&b, "Shipping Address:\n%s\n%s\n", event.Shipping.Name, event.Shipping.AddressLine1)
	if event.Shipping.AddressLine2 != "" {
		fmt.Fprintf(&b, "%s\n", event.Shipping.AddressLine2)
	}
	fmt.Fprintf(&b, "%s, %s %s\n%s\n\n", event.Shipping.City, event.Shipping.State,
		event.Shipping.PostalCode, event.Shipping.Country)

	b.WriteString("Order Items:\n")
	for _, item := range event.Items {
		fmt.Fprintf(&b, "- %s x %d @ $%s\n", item.ProductName, item.Quantity, item.UnitPrice)
	}
	return b.String()
}

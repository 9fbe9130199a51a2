package views

import (
	"context"

	"storefront/pkg/api"
)

// OrderPage is the /order/:orderId confirmation view model. The order
// is read-only; a missing or failed fetch collapses into a not-found
// state pointing home.
type OrderPage struct {
	State   State
	Order   api.Order
	HomeURL string
}

// OrderGetter is the orders slice of api.Client.
type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (*api.Order, error)
}

type OrderController struct {
	client OrderGetter

	state State
	order api.Order
}

func NewOrderController(client OrderGetter) *OrderController {
	return &OrderController{client: client, state: StateLoading}
}

// Load fetches the order once on entry; there is no polling and no
// retry surface on this page.
func (c *OrderController) Load(ctx context.Context, orderID string) {
	order, err := c.client.GetOrder(ctx, orderID)
	if err != nil {
		c.state = StateNotFound
		return
	}
	c.order = *order
	c.state = StateReady
}

func (c *OrderController) Page() OrderPage {
	return OrderPage{
		State:   c.state,
		Order:   c.order,
		HomeURL: HomePath,
	}
}

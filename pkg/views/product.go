package views

import (
	"context"

	"storefront/pkg/api"
)

// fallbackStockCeiling bounds the selector when the product's stock is
// unknown or nonsensical.
const fallbackStockCeiling = 99

// QuantitySelector is the purely local counter on the product page; it
// talks to nobody until add-to-cart fires.
type QuantitySelector struct {
	quantity int
	stock    int
}

func NewQuantitySelector(stock int) *QuantitySelector {
	return &QuantitySelector{quantity: 1, stock: stock}
}

func (s *QuantitySelector) Quantity() int {
	return s.quantity
}

// Change adjusts by delta, clamped into [1, stock].
func (s *QuantitySelector) Change(delta int) int {
	ceiling := s.stock
	if ceiling < 1 {
		ceiling = fallbackStockCeiling
	}
	q := s.quantity + delta
	if q < 1 {
		q = 1
	}
	if q > ceiling {
		q = ceiling
	}
	s.quantity = q
	return q
}

func (s *QuantitySelector) Reset() {
	s.quantity = 1
}

// ProductPage is the /product/:slug view model.
type ProductPage struct {
	State    State
	Product  api.ProductDetail
	Quantity int
	Err      string
}

// ProductGetter is the catalog slice of api.Client the product page
// uses.
type ProductGetter interface {
	GetProduct(ctx context.Context, slug string) (*api.ProductDetail, error)
}

// CartAdder is satisfied by cartstate.Store.
type CartAdder interface {
	AddItem(ctx context.Context, productID string, quantity int) error
}

// ProductController drives one product detail page.
type ProductController struct {
	client   ProductGetter
	cart     CartAdder
	selector *QuantitySelector

	state   State
	product api.ProductDetail
	errMsg  string
}

func NewProductController(client ProductGetter, cart CartAdder) *ProductController {
	return &ProductController{
		client:   client,
		cart:     cart,
		selector: NewQuantitySelector(0),
		state:    StateLoading,
	}
}

// Load fetches the product once on entry.
func (c *ProductController) Load(ctx context.Context, slug string) {
	product, err := c.client.GetProduct(ctx, slug)
	if err != nil {
		c.state = StateNotFound
		return
	}
	c.product = *product
	c.selector = NewQuantitySelector(product.Stock)
	c.state = StateReady
}

func (c *ProductController) Page() ProductPage {
	return ProductPage{
		State:    c.state,
		Product:  c.product,
		Quantity: c.selector.Quantity(),
		Err:      c.errMsg,
	}
}

func (c *ProductController) ChangeQuantity(delta int) int {
	return c.selector.Change(delta)
}

// AddToCart submits the selected quantity and resets the selector to
// one on success.
func (c *ProductController) AddToCart(ctx context.Context) error {
	if c.state != StateReady {
		return nil
	}
	if err := c.cart.AddItem(ctx, c.product.ID, c.selector.Quantity()); err != nil {
		return err
	}
	c.selector.Reset()
	return nil
}

package views

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/pkg/api"
	"storefront/pkg/cartstate"
)

// CartRow is one line of the cart table.
type CartRow struct {
	Item      api.CartItem
	LineTotal string
}

// CartPage is the /cart view model. CheckoutURL is only set when the
// cart has items; the empty state offers BrowseURL instead.
type CartPage struct {
	State       State
	Rows        []CartRow
	TotalItems  int
	Subtotal    string
	Err         string
	BrowseURL   string
	CheckoutURL string
}

// CartStore is the slice of cartstate.Store the cart page needs.
type CartStore interface {
	Snapshot() cartstate.Snapshot
	Refresh(ctx context.Context)
	UpdateItem(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
}

// CartController drives the cart page against the shared store.
type CartController struct {
	store CartStore
}

func NewCartController(store CartStore) *CartController {
	return &CartController{store: store}
}

func (c *CartController) Load(ctx context.Context) {
	c.store.Refresh(ctx)
}

func (c *CartController) Page() CartPage {
	return BuildCartPage(c.store.Snapshot())
}

// ChangeQuantity adjusts a line by delta. Dropping below one removes
// the line outright, so quantity zero never reaches the server as an
// update.
func (c *CartController) ChangeQuantity(ctx context.Context, productID string, delta int) error {
	item := findItem(c.store.Snapshot().Cart.Items, productID)
	if item == nil {
		return nil
	}
	newQuantity := item.Quantity + delta
	if newQuantity < 1 {
		return c.store.RemoveItem(ctx, productID)
	}
	return c.store.UpdateItem(ctx, productID, newQuantity)
}

func (c *CartController) RemoveLine(ctx context.Context, productID string) error {
	return c.store.RemoveItem(ctx, productID)
}

func (c *CartController) ClearCart(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// BuildCartPage derives the cart view model from a store snapshot.
func BuildCartPage(snap cartstate.Snapshot) CartPage {
	page := CartPage{
		Subtotal:  snap.Cart.Subtotal,
		BrowseURL: BrowseAllPath,
		Err:       snap.Err,
	}

	switch {
	case snap.Loading:
		page.State = StateLoading
	case len(snap.Cart.Items) == 0:
		page.State = StateEmpty
	default:
		page.State = StateReady
		page.TotalItems = snap.Cart.TotalItems
		page.CheckoutURL = CheckoutPath
		page.Rows = make([]CartRow, 0, len(snap.Cart.Items))
		for _, item := range snap.Cart.Items {
			page.Rows = append(page.Rows, CartRow{Item: item, LineTotal: lineTotal(item)})
		}
	}
	return page
}

func lineTotal(item api.CartItem) string {
	price, err := decimal.NewFromString(item.Price)
	if err != nil {
		return item.Price
	}
	return price.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2)
}

func findItem(items []api.CartItem, productID string) *api.CartItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}

package api

import "time"

// Wire types mirroring the storefront REST contract. Money fields are
// decimal strings and must not be parsed into floats.

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductImage struct {
	ID           string `json:"id"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

type Product struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Description  string        `json:"description"`
	Price        string        `json:"price"`
	Category     CategoryRef   `json:"category"`
	Stock        int           `json:"stock"`
	InStock      bool          `json:"in_stock"`
	PrimaryImage *ProductImage `json:"primary_image"`
	CreatedAt    time.Time     `json:"created_at"`
}

type ProductDetail struct {
	Product
	Images    []ProductImage `json:"images"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type CartItem struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	ImageURL  *string   `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   string     `json:"subtotal"`
}

// CartMutation is the response shape of add and update calls. Item is
// nil when the mutation removed the line.
type CartMutation struct {
	Item *CartItem `json:"item"`
	Cart Cart      `json:"cart"`
}

type CartRemoval struct {
	Removed *CartItem `json:"removed"`
	Cart    Cart      `json:"cart"`
}

type ShippingAddress struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

type OrderItem struct {
	ID              string  `json:"id"`
	ProductID       *string `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase string  `json:"price_at_purchase"`
	Subtotal        string  `json:"subtotal"`
}

type Order struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Status          string          `json:"status"`
	TotalPrice      string          `json:"total_price"`
	ItemCount       int             `json:"item_count"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderListItem struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"total_price"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Page is the list envelope; Next/Previous are relative URLs, nil at
// either end of the list.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type CheckoutRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country,omitempty"`
}

package httpapi

import (
	"time"

	"storefront/internal/domain"
)

// Wire shapes. Money is always a decimal string with two places.

type CategoryDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type CategoryRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductImageDTO struct {
	ID           string `json:"id"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

type ProductDTO struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Price        string           `json:"price"`
	Category     CategoryRefDTO   `json:"category"`
	Stock        int              `json:"stock"`
	InStock      bool             `json:"in_stock"`
	PrimaryImage *ProductImageDTO `json:"primary_image"`
	CreatedAt    time.Time        `json:"created_at"`
}

type ProductDetailDTO struct {
	ProductDTO
	Images    []ProductImageDTO `json:"images"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type CartItemDTO struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	ImageURL  *string   `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

type CartDTO struct {
	Items      []CartItemDTO `json:"items"`
	TotalItems int           `json:"total_items"`
	Subtotal   string        `json:"subtotal"`
}

type CartMutationDTO struct {
	Item *CartItemDTO `json:"item"`
	Cart CartDTO      `json:"cart"`
}

type CartRemovalDTO struct {
	Removed *CartItemDTO `json:"removed"`
	Cart    CartDTO      `json:"cart"`
}

type ShippingAddressDTO struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

type OrderItemDTO struct {
	ID              string  `json:"id"`
	ProductID       *string `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase string  `json:"price_at_purchase"`
	Subtotal        string  `json:"subtotal"`
}

type OrderDTO struct {
	ID              string             `json:"id"`
	Email           string             `json:"email"`
	Status          string             `json:"status"`
	TotalPrice      string             `json:"total_price"`
	ItemCount       int                `json:"item_count"`
	Items           []OrderItemDTO     `json:"items"`
	ShippingAddress ShippingAddressDTO `json:"shipping_address"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type OrderListItemDTO struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"total_price"`
	ItemCount  int       `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCategoryDTO(c domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ProductCount: c.ProductCount,
		CreatedAt:    c.CreatedAt,
	}
}

func toProductImageDTO(img domain.ProductImage) ProductImageDTO {
	return ProductImageDTO{
		ID:           img.ID,
		ImageURL:     img.ImageURL,
		DisplayOrder: img.DisplayOrder,
		IsPrimary:    img.IsPrimary,
	}
}

func toProductDTO(p *domain.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Category: CategoryRefDTO{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		},
		Stock:     p.Stock,
		InStock:   p.InStock(),
		CreatedAt: p.CreatedAt,
	}
	if img := p.PrimaryImage(); img != nil {
		primary := toProductImageDTO(*img)
		dto.PrimaryImage = &primary
	}
	return dto
}

func toProductDetailDTO(p *domain.Product) ProductDetailDTO {
	images := make([]ProductImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, toProductImageDTO(img))
	}
	return ProductDetailDTO{
		ProductDTO: toProductDTO(p),
		Images:     images,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toCartItemDTO(item domain.CartItem) CartItemDTO {
	return CartItemDTO{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Name:      item.Name,
		Price:     item.Price,
		ImageURL:  item.ImageURL,
		AddedAt:   item.AddedAt,
	}
}

func toCartDTO(cart *domain.Cart) CartDTO {
	items := make([]CartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, toCartItemDTO(item))
	}
	return CartDTO{
		Items:      items,
		TotalItems: cart.TotalItems(),
		Subtotal:   cart.Subtotal().StringFixed(2),
	}
}

func toOrderDTO(o *domain.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:              item.ID.String(),
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase.StringFixed(2),
			Subtotal:        item.Subtotal().StringFixed(2),
		})
	}
	return OrderDTO{
		ID:         o.ID.String(),
		Email:      o.Email,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice.StringFixed(2),
		ItemCount:  o.ItemCount(),
		Items:      items,
		ShippingAddress: ShippingAddressDTO{
			Name:         o.ShippingAddress.Name,
			AddressLine1: o.ShippingAddress.AddressLine1,
			AddressLine2: o.ShippingAddress.AddressLine2,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			PostalCode:   o.ShippingAddress.PostalCode,
			Country:      o.ShippingAddress.Country,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOrderListItemDTO(o *domain.Order) OrderListItemDTO {
	return OrderListItemDTO{
		ID:         o.ID.String(),
		Email:      o.Email,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice.StringFixed(2),
		ItemCount:  o.ItemCount(),
		CreatedAt:  o.CreatedAt,
	}
}

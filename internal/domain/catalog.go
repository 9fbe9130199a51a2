package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID           string
	Name         string
	Slug         string
	Description  string
	ProductCount int
	CreatedAt    time.Time
}

type Product struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Category    Category
	Stock       int
	IsActive    bool
	Images      []ProductImage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductImage struct {
	ID           string
	ImageURL     string
	DisplayOrder int
	IsPrimary    bool
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// PrimaryImage returns the image flagged primary, falling back to the
// first image in display order. Nil when the product has no images.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

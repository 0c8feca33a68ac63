package models

import "time"

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductDraft    ProductStatus = "draft"
	ProductArchived ProductStatus = "archived"
)

type Product struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Price       float64       `json:"price"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Description string        `json:"description"`
	Sizes       StringList    `json:"sizes"`
	Stock       int           `json:"stock"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Version is the storage version, surfaced over HTTP as an ETag.
	Version int64 `json:"-"`
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name        string        `json:"name" binding:"required"`
	Price       float64       `json:"price" binding:"required,gt=0"`
	Category    string        `json:"category" binding:"required"`
	Image       string        `json:"image"`
	Description string        `json:"description"`
	Sizes       StringList    `json:"sizes"`
	Stock       int           `json:"stock" binding:"gte=0"`
	Status      ProductStatus `json:"status" binding:"omitempty,oneof=active draft archived"`
}

// ProductPatch carries optional fields; nil means unchanged.
type ProductPatch struct {
	Name        *string        `json:"name" binding:"omitempty,min=1"`
	Price       *float64       `json:"price" binding:"omitempty,gt=0"`
	Category    *string        `json:"category"`
	Image       *string        `json:"image"`
	Description *string        `json:"description"`
	Sizes       *StringList    `json:"sizes"`
	Stock       *int           `json:"stock"`
	Status      *ProductStatus `json:"status" binding:"omitempty,oneof=active draft archived"`
}

// Apply copies the set fields onto p and reports whether anything was set.
func (patch ProductPatch) Apply(p *Product) bool {
	changed := false
	if patch.Name != nil {
		p.Name = *patch.Name
		changed = true
	}
	if patch.Price != nil {
		p.Price = *patch.Price
		changed = true
	}
	if patch.Category != nil {
		p.Category = *patch.Category
		changed = true
	}
	if patch.Image != nil {
		p.Image = *patch.Image
		changed = true
	}
	if patch.Description != nil {
		p.Description = *patch.Description
		changed = true
	}
	if patch.Sizes != nil {
		p.Sizes = *patch.Sizes
		changed = true
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
		changed = true
	}
	if patch.Status != nil {
		p.Status = *patch.Status
		changed = true
	}
	return changed
}

type ProductFilters struct {
	Search    string
	Category  string
	Status    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string // name | price | createdAt | stock
	SortOrder string // asc | desc
	Page      int
	Limit     int
}

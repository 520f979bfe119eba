// internal/domain/models/product.go
package models

import "time"

// Product is a catalog entry as reported by the upstream API.
type Product struct {
	ID                 int         `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description,omitempty"`
	Category           string      `json:"category"`
	Brand              string      `json:"brand,omitempty"`
	SKU                string      `json:"sku,omitempty"`
	Price              float64     `json:"price"`
	DiscountPercentage float64     `json:"discountPercentage"`
	Rating             float64     `json:"rating"`
	Stock              int         `json:"stock"`
	Thumbnail          string      `json:"thumbnail,omitempty"`
	Tags               []string    `json:"tags,omitempty"`
	Meta               ProductMeta `json:"meta"`
}

// ProductMeta holds upstream bookkeeping timestamps.
type ProductMeta struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordID implements the identity used for de-duplication.
func (p Product) RecordID() int { return p.ID }

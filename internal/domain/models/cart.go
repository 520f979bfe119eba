// internal/domain/models/cart.go
package models

// Cart is a customer's order as reported by the upstream API. The dashboard
// treats every cart as a completed sale.
type Cart struct {
	ID              int        `json:"id"`
	UserID          int        `json:"userId"`
	Products        []CartItem `json:"products"`
	Total           float64    `json:"total"`
	DiscountedTotal float64    `json:"discountedTotal"`
	TotalProducts   int        `json:"totalProducts"`
	TotalQuantity   int        `json:"totalQuantity"`
}

// CartItem is one product line within a Cart.
type CartItem struct {
	ID                 int     `json:"id"`
	Title              string  `json:"title"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	Total              float64 `json:"total"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscountedTotal    float64 `json:"discountedTotal"`
	Thumbnail          string  `json:"thumbnail,omitempty"`
}

// RecordID implements the identity used for de-duplication.
func (c Cart) RecordID() int { return c.ID }

// Discount is the amount taken off the cart's list total.
func (c Cart) Discount() float64 {
	return c.Total - c.DiscountedTotal
}

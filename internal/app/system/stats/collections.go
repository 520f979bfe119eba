package stats

import (
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/domain/models"
)

// ProductStats summarizes a product collection.
type ProductStats struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	LowStock       int     `json:"lowStock"`
	OutOfStock     int     `json:"outOfStock"`
	New            int     `json:"new"`
	Categories     int     `json:"categories"`
	AveragePrice   float64 `json:"averagePrice"`
	AverageRating  float64 `json:"averageRating"`
	InventoryValue float64 `json:"inventoryValue"`
	Sampled        bool    `json:"sampled"` // counts were scaled from a partial page
}

// Products computes ProductStats for a page. Counts are scaled to the
// page's Total when the page is a sample; averages are sample averages.
func Products(page paging.Page[models.Product], cfg Config) ProductStats {
	now := cfg.now()
	n := len(page.Items)

	var active, low, out, fresh int
	var priceSum, ratingSum, value float64
	cats := make(map[string]struct{})
	for _, p := range page.Items {
		if IsActive(p) {
			active++
		}
		if IsLowStock(p, cfg.lowStock()) {
			low++
		}
		if IsOutOfStock(p) {
			out++
		}
		if Within(p.Meta.CreatedAt, cfg.newWindow(), now) {
			fresh++
		}
		if p.Category != "" {
			cats[p.Category] = struct{}{}
		}
		priceSum += p.Price
		ratingSum += p.Rating
		value += p.Price * float64(p.Stock)
	}

	total := page.Total
	if total < n {
		total = n
	}
	return ProductStats{
		Total:          total,
		Active:         Scale(active, n, total),
		LowStock:       Scale(low, n, total),
		OutOfStock:     Scale(out, n, total),
		New:            Scale(fresh, n, total),
		Categories:     len(cats),
		AveragePrice:   round2(mean(priceSum, n)),
		AverageRating:  round2(mean(ratingSum, n)),
		InventoryValue: round2(scaleFloat(value, n, total)),
		Sampled:        n < total,
	}
}

// UserStats summarizes a user collection.
type UserStats struct {
	Total      int     `json:"total"`
	Admins     int     `json:"admins"`
	Moderators int     `json:"moderators"`
	New        int     `json:"new"`
	Active     int     `json:"active"`
	AverageAge float64 `json:"averageAge"`
	Sampled    bool    `json:"sampled"`
}

// Users computes UserStats for a page. "New" and "active" are evaluated
// against the user's birth date, the only timestamp the upstream carries.
func Users(page paging.Page[models.User], cfg Config) UserStats {
	now := cfg.now()
	n := len(page.Items)

	var admins, mods, fresh, active int
	var ageSum float64
	for _, u := range page.Items {
		if IsAdmin(u) {
			admins++
		}
		if IsModerator(u) {
			mods++
		}
		if born, ok := u.Born(); ok {
			if Within(born, cfg.newWindow(), now) {
				fresh++
			}
			if Within(born, cfg.activeWindow(), now) {
				active++
			}
		}
		ageSum += float64(u.Age)
	}

	total := page.Total
	if total < n {
		total = n
	}
	return UserStats{
		Total:      total,
		Admins:     Scale(admins, n, total),
		Moderators: Scale(mods, n, total),
		New:        Scale(fresh, n, total),
		Active:     Scale(active, n, total),
		AverageAge: round2(mean(ageSum, n)),
		Sampled:    n < total,
	}
}

// CartStats summarizes a cart (order) collection.
type CartStats struct {
	TotalCarts        int     `json:"totalCarts"`
	SampleSales       float64 `json:"sampleSales"`
	EstimatedSales    float64 `json:"estimatedSales"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	TotalQuantity     int     `json:"totalQuantity"`
	TotalDiscount     float64 `json:"totalDiscount"`
	Sampled           bool    `json:"sampled"`
}

// Carts computes CartStats for a page. Sales use discounted totals, i.e.
// what customers actually paid.
func Carts(page paging.Page[models.Cart]) CartStats {
	n := len(page.Items)

	var sales, discount float64
	var qty int
	for _, c := range page.Items {
		sales += c.DiscountedTotal
		discount += c.Discount()
		qty += c.TotalQuantity
	}

	total := page.Total
	if total < n {
		total = n
	}
	return CartStats{
		TotalCarts:        total,
		SampleSales:       round2(sales),
		EstimatedSales:    round2(scaleFloat(sales, n, total)),
		AverageOrderValue: round2(mean(sales, n)),
		TotalQuantity:     Scale(qty, n, total),
		TotalDiscount:     round2(scaleFloat(discount, n, total)),
		Sampled:           n < total,
	}
}

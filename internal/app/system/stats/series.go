package stats

import (
	"math"
	"sort"

	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/domain/models"
)

// SeriesLength is the number of points in a sales series.
const SeriesLength = 12

var seriesLabels = [SeriesLength]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// SalesPoint is one bucket of the sales series.
type SalesPoint struct {
	Label  string  `json:"label"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}

// EmptySalesSeries returns SeriesLength labelled zero points.
func EmptySalesSeries() []SalesPoint {
	out := make([]SalesPoint, SeriesLength)
	for i := range out {
		out[i] = SalesPoint{Label: seriesLabels[i]}
	}
	return out
}

// SalesSeries spreads carts over SeriesLength buckets. The upstream carries
// no order dates, so carts are ordered by ID (creation order) and cart i of
// n lands in bucket i*SeriesLength/n. Each point sums discounted totals.
func SalesSeries(carts []models.Cart) []SalesPoint {
	out := EmptySalesSeries()
	if len(carts) == 0 {
		return out
	}
	sorted := byID(carts)
	for i, c := range sorted {
		b := i * SeriesLength / len(sorted)
		out[b].Sales += c.DiscountedTotal
		out[b].Orders++
	}
	for i := range out {
		out[i].Sales = round2(out[i].Sales)
	}
	return out
}

// Trend returns the percentage change between the newer and older halves of
// an ordered sample: 100 * (sum(newer) - sum(older)) / sum(older). With an
// odd length the middle value is left out. It returns 0 when there is
// nothing to compare against.
func Trend(values []float64) float64 {
	half := len(values) / 2
	if half == 0 {
		return 0
	}
	var older, newer float64
	for _, v := range values[:half] {
		older += v
	}
	for _, v := range values[len(values)-half:] {
		newer += v
	}
	if older == 0 {
		return 0
	}
	return math.Round((newer-older)/older*1000) / 10
}

// Estimation constants for QuickStats. The upstream exposes no order status
// or order dates, so these two figures are documented approximations.
const (
	// PendingPercent is the share of all carts counted as pending: the
	// newest tenth by ID, rounded up.
	PendingPercent = 10

	// RevenueWindowDays spreads estimated sales evenly over a trailing
	// month to give a daily revenue figure.
	RevenueWindowDays = 30
)

// QuickStats are the small counters shown beside the main dashboard figures.
type QuickStats struct {
	ActiveProducts     int     `json:"activeProducts"`
	LowStockProducts   int     `json:"lowStockProducts"`
	OutOfStockProducts int     `json:"outOfStockProducts"`
	NewProducts        int     `json:"newProducts"`
	AdminUsers         int     `json:"adminUsers"`
	NewUsers           int     `json:"newUsers"`
	ActiveUsers        int     `json:"activeUsers"`
	AverageOrderValue  float64 `json:"averageOrderValue"`
	AverageRating      float64 `json:"averageRating"`
	PendingOrders      int     `json:"pendingOrders"`
	TodayRevenue       float64 `json:"todayRevenue"`
	SalesTrend         float64 `json:"salesTrend"`   // percent, newer half vs older half of the cart sample
	ProductTrend       float64 `json:"productTrend"` // percent, same comparison over product stock
}

// Quick computes QuickStats from the three sample pages.
func Quick(products paging.Page[models.Product], users paging.Page[models.User], carts paging.Page[models.Cart], cfg Config) QuickStats {
	ps := Products(products, cfg)
	us := Users(users, cfg)
	cs := Carts(carts)

	sortedCarts := byID(carts.Items)
	sales := make([]float64, len(sortedCarts))
	for i, c := range sortedCarts {
		sales[i] = c.DiscountedTotal
	}
	sortedProducts := byID(products.Items)
	stock := make([]float64, len(sortedProducts))
	for i, p := range sortedProducts {
		stock[i] = float64(p.Stock)
	}

	return QuickStats{
		ActiveProducts:     ps.Active,
		LowStockProducts:   ps.LowStock,
		OutOfStockProducts: ps.OutOfStock,
		NewProducts:        ps.New,
		AdminUsers:         us.Admins,
		NewUsers:           us.New,
		ActiveUsers:        us.Active,
		AverageOrderValue:  cs.AverageOrderValue,
		AverageRating:      ps.AverageRating,
		PendingOrders:      (cs.TotalCarts*PendingPercent + 99) / 100,
		TodayRevenue:       round2(cs.EstimatedSales / RevenueWindowDays),
		SalesTrend:         Trend(sales),
		ProductTrend:       Trend(stock),
	}
}

type identified interface {
	RecordID() int
}

// byID returns a copy of items ordered by ascending RecordID.
func byID[T identified](items []T) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordID() < out[j].RecordID() })
	return out
}

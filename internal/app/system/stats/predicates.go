// Package stats turns already-fetched collections into summary numbers and a
// ranked recent-activity feed. Nothing here performs I/O.
//
// Several figures are estimates. When a statistic is computed from a sample
// page that is smaller than the collection's reported total, counts are
// scaled by total/len(sample) (see Scale). Callers receive raw numbers;
// currency and thousands formatting belong to the presentation layer.
package stats

import (
	"math"
	"time"

	"github.com/dalemusser/shopadmin/internal/domain/models"
)

// Defaults for Config.
const (
	DefaultLowStockThreshold = 10
	DefaultNewWindow         = 7 * 24 * time.Hour
	DefaultActiveWindow      = 30 * 24 * time.Hour
)

// Config holds the thresholds the named predicates use.
type Config struct {
	// LowStockThreshold is the exclusive upper bound for "low stock".
	LowStockThreshold int

	// NewWindow is the trailing window for "new" records.
	NewWindow time.Duration

	// ActiveWindow is the trailing window for "active" users.
	ActiveWindow time.Duration

	// Now is the reference time. Nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		LowStockThreshold: DefaultLowStockThreshold,
		NewWindow:         DefaultNewWindow,
		ActiveWindow:      DefaultActiveWindow,
	}
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Config) lowStock() int {
	if c.LowStockThreshold > 0 {
		return c.LowStockThreshold
	}
	return DefaultLowStockThreshold
}

func (c Config) newWindow() time.Duration {
	if c.NewWindow > 0 {
		return c.NewWindow
	}
	return DefaultNewWindow
}

func (c Config) activeWindow() time.Duration {
	if c.ActiveWindow > 0 {
		return c.ActiveWindow
	}
	return DefaultActiveWindow
}

// IsActive reports whether a product can be sold.
func IsActive(p models.Product) bool { return p.Stock > 0 }

// IsLowStock reports whether a product is in stock but below threshold.
func IsLowStock(p models.Product, threshold int) bool {
	return p.Stock > 0 && p.Stock < threshold
}

// IsOutOfStock reports whether a product has no stock left.
func IsOutOfStock(p models.Product) bool { return p.Stock == 0 }

// IsAdmin reports whether a user holds the admin role.
func IsAdmin(u models.User) bool { return u.Role == models.RoleAdmin }

// IsModerator reports whether a user holds the moderator role.
func IsModerator(u models.User) bool { return u.Role == models.RoleModerator }

// Within reports whether t falls in the trailing window ending at now.
// Zero times and times in the future are never within.
func Within(t time.Time, window time.Duration, now time.Time) bool {
	if t.IsZero() || t.After(now) {
		return false
	}
	return now.Sub(t) < window
}

// Scale estimates a population count from a sample count. When the sample
// covers the whole population (total <= sampleSize) the count is returned
// unchanged.
func Scale(count, sampleSize, total int) int {
	if sampleSize <= 0 || count <= 0 {
		return 0
	}
	if total <= sampleSize {
		return count
	}
	return int(math.Round(float64(count) * float64(total) / float64(sampleSize)))
}

func scaleFloat(v float64, sampleSize, total int) float64 {
	if sampleSize <= 0 {
		return 0
	}
	if total <= sampleSize {
		return v
	}
	return v * float64(total) / float64(sampleSize)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// round2 rounds to two decimals so estimates do not carry float noise.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

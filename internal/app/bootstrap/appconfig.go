// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to ShopAdmin lives: where the
// upstream commerce API is, how hard we may call it, how long reference
// data is cached, and the thresholds behind the dashboard figures.
type AppConfig struct {
	// Upstream API
	APIBaseURL   string // e.g. https://dummyjson.com
	APIRateLimit int    // outbound requests per second (0 = unpaced)
	APIBurst     int    // outbound burst size

	// Caching
	CategoryCacheTTL   time.Duration // lifetime of the cached category list
	CacheSweepInterval time.Duration // how often expired cache entries are purged

	// Search
	CombineFetchSize int           // records fetched per filter in multi-filter searches
	SearchRateLimit  int           // searches allowed per client per window
	SearchRateWindow time.Duration // window for SearchRateLimit

	// Derived metrics
	LowStockThreshold int           // stock below this (and above zero) is "low"
	NewWindow         time.Duration // records created within this window are "new"
	ActiveWindow      time.Duration // users seen within this window are "active"

	// Deadlines
	UpstreamTimeout  time.Duration // per upstream request
	AggregateTimeout time.Duration // whole dashboard
}

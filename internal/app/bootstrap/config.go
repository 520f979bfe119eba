// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/shopadmin/internal/app/store/queries/searchqueries"
	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/app/system/stats"
	"github.com/dalemusser/shopadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ShopAdmin.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, category_cache_ttl, etc.
//   - Environment variables: SHOPADMIN_API_BASE_URL, SHOPADMIN_CATEGORY_CACHE_TTL, etc.
//   - Command-line flags: --api_base_url, --category_cache_ttl, etc.
var appConfigKeys = []config.AppKey{
	// Upstream API
	{Name: "api_base_url", Default: remotestore.DefaultBaseURL, Desc: "Base URL of the upstream commerce API"},
	{Name: "api_rate_limit", Default: 20, Desc: "Outbound requests per second to the upstream API (0 disables pacing)"},
	{Name: "api_burst", Default: 10, Desc: "Outbound request burst size"},

	// Caching
	{Name: "category_cache_ttl", Default: "60m", Desc: "How long the product category list is cached (e.g., 60m, 2h)"},
	{Name: "cache_sweep_interval", Default: "5m", Desc: "How often expired cache entries are purged"},

	// Search
	{Name: "combine_fetch_size", Default: paging.MaxPageSize, Desc: "Records fetched per filter in multi-filter searches (1-100)"},
	{Name: "search_rate_limit", Default: 30, Desc: "Searches allowed per client per window (0 disables)"},
	{Name: "search_rate_window", Default: "1m", Desc: "Window for search_rate_limit"},

	// Derived metrics
	{Name: "low_stock_threshold", Default: stats.DefaultLowStockThreshold, Desc: "Stock below this is reported as low"},
	{Name: "new_window", Default: "168h", Desc: "Records created within this window count as new"},
	{Name: "active_window", Default: "720h", Desc: "Users seen within this window count as active"},

	// Deadlines
	{Name: "timeout_upstream", Default: "5s", Desc: "Deadline for one upstream request"},
	{Name: "timeout_aggregate", Default: "10s", Desc: "Deadline for assembling the dashboard"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SHOPADMIN_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SHOPADMIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL:   appValues.String("api_base_url"),
		APIRateLimit: appValues.Int("api_rate_limit"),
		APIBurst:     appValues.Int("api_burst"),

		CategoryCacheTTL:   appValues.Duration("category_cache_ttl", searchqueries.DefaultCategoryTTL),
		CacheSweepInterval: appValues.Duration("cache_sweep_interval", 5*time.Minute),

		CombineFetchSize: appValues.Int("combine_fetch_size"),
		SearchRateLimit:  appValues.Int("search_rate_limit"),
		SearchRateWindow: appValues.Duration("search_rate_window", time.Minute),

		LowStockThreshold: appValues.Int("low_stock_threshold"),
		NewWindow:         appValues.Duration("new_window", stats.DefaultNewWindow),
		ActiveWindow:      appValues.Duration("active_window", stats.DefaultActiveWindow),

		UpstreamTimeout:  appValues.Duration("timeout_upstream", timeouts.DefaultUpstream),
		AggregateTimeout: appValues.Duration("timeout_aggregate", timeouts.DefaultAggregate),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// ShopAdmin checks the upstream URL and numeric ranges so that a typo
// fails at boot rather than as a stream of degraded dashboards.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if _, err := remotestore.New(appCfg.APIBaseURL); err != nil {
		logger.Error("invalid upstream API URL", zap.Error(err))
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if appCfg.APIRateLimit < 0 || appCfg.APIBurst < 0 {
		return fmt.Errorf("api_rate_limit and api_burst must not be negative")
	}
	if appCfg.CombineFetchSize < 1 || appCfg.CombineFetchSize > paging.MaxPageSize {
		return fmt.Errorf("combine_fetch_size must be between 1 and %d, got %d", paging.MaxPageSize, appCfg.CombineFetchSize)
	}
	if appCfg.SearchRateLimit < 0 {
		return fmt.Errorf("search_rate_limit must not be negative")
	}
	if appCfg.LowStockThreshold < 1 {
		return fmt.Errorf("low_stock_threshold must be at least 1")
	}
	for name, d := range map[string]time.Duration{
		"category_cache_ttl":   appCfg.CategoryCacheTTL,
		"cache_sweep_interval": appCfg.CacheSweepInterval,
		"search_rate_window":   appCfg.SearchRateWindow,
		"new_window":           appCfg.NewWindow,
		"active_window":        appCfg.ActiveWindow,
		"timeout_upstream":     appCfg.UpstreamTimeout,
		"timeout_aggregate":    appCfg.AggregateTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if appCfg.AggregateTimeout < appCfg.UpstreamTimeout {
		logger.Warn("timeout_aggregate is shorter than timeout_upstream; slow dashboard parts will always fall back",
			zap.Duration("timeout_aggregate", appCfg.AggregateTimeout),
			zap.Duration("timeout_upstream", appCfg.UpstreamTimeout))
	}
	return nil
}

// statsConfig maps the metric thresholds onto stats.Config.
func statsConfig(appCfg AppConfig) stats.Config {
	return stats.Config{
		LowStockThreshold: appCfg.LowStockThreshold,
		NewWindow:         appCfg.NewWindow,
		ActiveWindow:      appCfg.ActiveWindow,
	}
}

// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/shopadmin/internal/app/store/queries/searchqueries"
	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/shopadmin/internal/app/system/ttlcache"
	"github.com/dalemusser/shopadmin/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectDB builds the upstream API client and the in-memory stores that
// outlive a request: the TTL cache, the search rate limiter, and the worker
// that sweeps both.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := remotestore.New(appCfg.APIBaseURL,
		remotestore.WithRateLimit(float64(appCfg.APIRateLimit), appCfg.APIBurst),
		remotestore.WithLogger(logger.Named("upstream")),
	)
	if err != nil {
		return DBDeps{}, err
	}

	deps := DBDeps{
		API:     client,
		Cache:   ttlcache.New(),
		Sweeper: workers.NewSweeper(logger, appCfg.CacheSweepInterval),
	}
	deps.Sweeper.Add("cache", deps.Cache)

	if appCfg.SearchRateLimit > 0 {
		deps.SearchLimiter = ratelimit.New(appCfg.SearchRateLimit, appCfg.SearchRateWindow)
		deps.Sweeper.Add("search_limiter", deps.SearchLimiter)
	}

	logger.Info("upstream API client ready",
		zap.String("base_url", appCfg.APIBaseURL),
		zap.Int("rate_limit", appCfg.APIRateLimit),
		zap.Int("burst", appCfg.APIBurst))
	return deps, nil
}

// EnsureSchema has no schema to create. It warms the category cache so the
// first catalog page does not wait on the upstream; failure is logged and
// tolerated.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	svc := newSearchService(appCfg, deps, logger)
	if err := svc.RefreshCategories(ctx); err != nil {
		logger.Warn("category cache warm-up failed", zap.Error(err))
		return nil
	}
	logger.Info("category cache warmed", zap.Duration("ttl", appCfg.CategoryCacheTTL))
	return nil
}

func newSearchService(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *searchqueries.Service {
	return searchqueries.New(deps.API, deps.Cache, searchqueries.Options{
		FetchSize:   appCfg.CombineFetchSize,
		CategoryTTL: appCfg.CategoryCacheTTL,
		Stats:       statsConfig(appCfg),
		Log:         logger,
	})
}

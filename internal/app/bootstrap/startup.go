// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/shopadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the backends are
// built, but before the HTTP handler is built: it applies the configured
// deadlines and starts the sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Upstream:  appCfg.UpstreamTimeout,
		Aggregate: appCfg.AggregateTimeout,
	})
	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("upstream", cur.Upstream),
		zap.Duration("search", cur.Search),
		zap.Duration("aggregate", cur.Aggregate))

	if deps.Sweeper != nil {
		deps.Sweeper.Start()
	}
	return nil
}

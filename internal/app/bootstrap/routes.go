// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/dalemusser/shopadmin/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/shopadmin/internal/app/features/errors"
	healthfeature "github.com/dalemusser/shopadmin/internal/app/features/health"
	productsfeature "github.com/dalemusser/shopadmin/internal/app/features/products"
	usersfeature "github.com/dalemusser/shopadmin/internal/app/features/users"
	metricsstore "github.com/dalemusser/shopadmin/internal/app/store/metrics"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, backend construction, schema setup,
// and Startup have completed. ShopAdmin is a JSON API: every feature mounts
// a chi subrouter and unknown routes answer with a JSON 404.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	errLog := errorsfeature.NewErrorLogger(logger)
	search := newSearchService(appCfg, deps, logger)

	r := chi.NewRouter()
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.API, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	dashboardHandler := dashboardfeature.NewHandler(deps.API, metricsstore.Options{
		SampleSize: paging.MaxPageSize,
		Stats:      statsConfig(appCfg),
		Log:        logger,
	}, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	productsHandler := productsfeature.NewHandler(search, errLog, logger)
	r.Mount("/products", productsfeature.Routes(productsHandler, deps.SearchLimiter))

	usersHandler := usersfeature.NewHandler(search, errLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, deps.SearchLimiter))

	return r, nil
}

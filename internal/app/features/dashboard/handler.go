// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	uierrors "github.com/dalemusser/shopadmin/internal/app/features/errors"
	metricsstore "github.com/dalemusser/shopadmin/internal/app/store/metrics"
	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"go.uber.org/zap"
)

// Handler serves the aggregate dashboard endpoint.
type Handler struct {
	API  remotestore.API
	Opts metricsstore.Options
	Log  *zap.Logger
}

// NewHandler constructs a dashboard Handler. The aggregator logs through
// logger unless opts carries its own.
func NewHandler(api remotestore.API, opts metricsstore.Options, logger *zap.Logger) *Handler {
	if opts.Log == nil {
		opts.Log = logger
	}
	return &Handler{
		API:  api,
		Opts: opts,
		Log:  logger,
	}
}

// ServeDashboard handles GET /dashboard. It always answers 200; parts that
// could not be loaded carry their fallback values and are listed under
// "degraded".
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	d := metricsstore.FetchDashboard(r.Context(), h.API, h.Opts)
	if len(d.Degraded) > 0 {
		h.Log.Info("dashboard served with fallbacks", zap.Strings("degraded", d.Degraded))
	}
	uierrors.WriteJSON(w, http.StatusOK, d)
}

// internal/app/features/products/routes.go
package products

import (
	"github.com/dalemusser/shopadmin/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the product endpoints. When limiter is non-nil the search
// endpoint, which fans out to several upstream requests, is rate limited
// per client.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/stats", h.ServeStats)
	r.Get("/categories", h.ServeCategories)

	r.Group(func(sr chi.Router) {
		if limiter != nil {
			sr.Use(limiter.Middleware(h.Log))
		}
		sr.Get("/search", h.ServeSearch)
	})
	return r
}

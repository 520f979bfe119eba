// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/shopadmin/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user endpoints; search is rate limited when limiter is
// non-nil.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/stats", h.ServeStats)

	r.Group(func(sr chi.Router) {
		if limiter != nil {
			sr.Use(limiter.Middleware(h.Log))
		}
		sr.Get("/search", h.ServeSearch)
	})
	return r
}

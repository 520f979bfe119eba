// internal/app/features/users/handler.go
package users

import (
	"net/http"

	uierrors "github.com/dalemusser/shopadmin/internal/app/features/errors"
	"github.com/dalemusser/shopadmin/internal/app/features/shared/params"
	"github.com/dalemusser/shopadmin/internal/app/store/queries/searchqueries"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"go.uber.org/zap"
)

// Handler serves the customer account endpoints.
type Handler struct {
	Svc    *searchqueries.Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(svc *searchqueries.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:    svc,
		ErrLog: errLog,
		Log:    logger,
	}
}

// ServeList handles GET /users (q or key/value narrow the list).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := params.Query(r)
	page, err := h.Svc.ListUsers(r.Context(), q)
	if err != nil {
		h.ErrLog.HandleQueryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, params.NewPage(page, q.Page, q.PageSize))
}

// ServeSearch handles GET /users/search?filter=key:value&filter=...
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	set, err := params.Filters(r)
	if err != nil {
		h.ErrLog.HandleQueryError(w, r, err)
		return
	}
	pageNum, size := paging.ParsePage(r), paging.ParsePageSize(r)
	page, err := h.Svc.SearchUsers(r.Context(), set, pageNum, size)
	if err != nil {
		h.ErrLog.HandleQueryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, params.NewPage(page, pageNum, size))
}

// ServeStats handles GET /users/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.UserStats(r.Context(), params.Query(r))
	if err != nil {
		h.ErrLog.HandleQueryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, st)
}

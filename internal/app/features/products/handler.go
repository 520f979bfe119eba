// internal/app/features/products/handler.go
package products

import (
	"net/http"

	uierrors "github.com/dalemusser/shopadmin/internal/app/features/errors"
	"github.com/dalemusser/shopadmin/internal/app/features/shared/params"
	"github.com/dalemusser/shopadmin/internal/app/store/queries/searchqueries"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"go.uber.org/zap"
)

// Handler serves the product catalog endpoints.
type Handler struct {
	Svc    *searchqueries.Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a products Handler.
func NewHandler(svc *searchqueries.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:    svc,
		ErrLog: errLog,
		Log:    logger,
	}
}

// ServeList handles GET /products with at most one criterion
// (q, category, or key/value).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := params.Query(r)
	page, err := h.Svc.ListProducts(r.Context(), q)
	if err != nil {
		h.ErrLog.HandleQueryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, params.NewPage(page, q.Page, q.PageSize))
}

// ServeSearch handles GET /products/search?filter=key:value&filter=...
// Products matching any filter are returned once each.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	set, err := params.Filters(r)
	if err != nil {
		h.ErrLog.HandleQueryError(w, r, err)
		return
	}
	pageNum, size := paging.ParsePage(r), paging.ParsePageSize(r)
	page, err := h.Svc.SearchProducts(r.Context(), set, pageNum, size)
	if err != nil {
		h.ErrLog.HandleQueryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, params.NewPage(page, pageNum, size))
}

// ServeStats handles GET /products/stats, optionally narrowed by the same
// criterion ServeList accepts.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.ProductStats(r.Context(), params.Query(r))
	if err != nil {
		h.ErrLog.HandleQueryError(w, r, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, st)
}

// ServeCategories handles GET /products/categories.
func (h *Handler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, map[string][]string{
		"categories": h.Svc.Categories(r.Context()),
	})
}

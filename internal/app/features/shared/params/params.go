// Package params reads listing and search parameters from requests and
// shapes the paged JSON responses the listing features share.
package params

import (
	"net/http"
	"strings"

	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/combine"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
)

// Query reads a single-criterion listing query:
//
//	?page=2&size=20&q=phone
//	?category=laptops
//	?key=brand&value=Apple
//
// Validation is left to the service.
func Query(r *http.Request) remotestore.Query {
	return remotestore.Query{
		Page:        paging.ParsePage(r),
		PageSize:    paging.ParsePageSize(r),
		Search:      strings.TrimSpace(query.Get(r, "q")),
		Category:    strings.TrimSpace(query.Get(r, "category")),
		FilterKey:   strings.TrimSpace(query.Get(r, "key")),
		FilterValue: strings.TrimSpace(query.Get(r, "value")),
	}
}

// Filters reads repeated filter=key:value parameters, in order.
func Filters(r *http.Request) (combine.Set, error) {
	raw := r.URL.Query()["filter"]
	vals := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			vals = append(vals, v)
		}
	}
	return combine.ParseSet(vals)
}

// Page is a paged JSON response.
type Page[T any] struct {
	Items []T          `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
	Range paging.Range `json:"range"`
}

// NewPage wraps p for page number page of size items.
func NewPage[T any](p paging.Page[T], page, size int) Page[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: p.Total,
		Page:  page,
		Size:  size,
		Range: paging.ComputeRange(page, size, len(items), p.Total),
	}
}

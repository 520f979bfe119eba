// Package remotestore is the client for the upstream commerce API that
// serves users, products and carts as paginated JSON collections.
//
// Services depend on the API interface; Client is the HTTP implementation.
package remotestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/domain/models"
)

// Collection names, as used in upstream paths and response envelopes.
const (
	Users    = "users"
	Products = "products"
	Carts    = "carts"
)

// ErrUnsupportedQuery is returned when a Query asks for a lookup the
// upstream does not offer for that collection.
var ErrUnsupportedQuery = errors.New("unsupported query")

// API is the set of remote lookups the services need.
type API interface {
	Users(ctx context.Context, q Query) (paging.Page[models.User], error)
	Products(ctx context.Context, q Query) (paging.Page[models.Product], error)
	Carts(ctx context.Context, q Query) (paging.Page[models.Cart], error)

	// Categories returns the product category reference list.
	Categories(ctx context.Context) ([]string, error)
}

// Query selects one page of a collection. At most one of Search, Category
// or FilterKey is honored, in that order of precedence. Category applies to
// products only.
type Query struct {
	Page     int // 1-based
	PageSize int

	Search      string
	Category    string
	FilterKey   string
	FilterValue string
}

// Validate rejects out-of-range pagination with paging.ErrInvalidPage.
func (q Query) Validate() error {
	return paging.Validate(q.Page, q.PageSize)
}

// Check reports whether collection can serve q. Category lookups exist for
// products only, and the category must be a single path segment.
func (q Query) Check(collection string) error {
	if q.Search != "" || q.Category == "" {
		return nil
	}
	if collection != Products {
		return fmt.Errorf("%w: category lookup on %s", ErrUnsupportedQuery, collection)
	}
	if q.Category == "." || q.Category == ".." || strings.ContainsAny(q.Category, `/\`) {
		return fmt.Errorf("%w: category %q is not a single path segment", ErrUnsupportedQuery, q.Category)
	}
	return nil
}

// FirstPage is a Query for the first pageSize records of a collection.
func FirstPage(pageSize int) Query {
	return Query{Page: 1, PageSize: pageSize}
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: upstream returned %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows shown in paged lists when the
// caller does not ask for a size.
const DefaultPageSize = 10

// MaxPageSize is the largest page any caller may request. It is also the
// upstream API's practical ceiling for a single request.
const MaxPageSize = 100

// ErrInvalidPage is returned when caller-supplied pagination parameters are
// out of range. It is the only error in the search and listing paths that is
// meant to reach the caller; everything else degrades to empty results.
var ErrInvalidPage = errors.New("invalid pagination parameters")

// Page is one page of a remote collection. Total is the count reported by
// the source, which may exceed len(Items).
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Empty returns a page with a non-nil, zero-length Items slice so that
// JSON encodes it as [] rather than null.
func Empty[T any]() Page[T] {
	return Page[T]{Items: []T{}, Total: 0}
}

// Validate checks a 1-based page number and a page size.
func Validate(page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("%w: page %d must be >= 1", ErrInvalidPage, page)
	}
	if pageSize <= 0 {
		return fmt.Errorf("%w: page size %d must be > 0", ErrInvalidPage, pageSize)
	}
	if pageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d exceeds %d", ErrInvalidPage, pageSize, MaxPageSize)
	}
	return nil
}

// Skip converts a 1-based page number into an item offset.
func Skip(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// Paginate returns the pageIndex'th window of items, where pageIndex is
// zero-based. It returns an empty slice (never nil) for a negative index, a
// non-positive size, or a window that starts at or past the end.
//
// The returned slice shares its backing array with items.
func Paginate[T any](items []T, pageIndex, pageSize int) []T {
	if pageIndex < 0 || pageSize <= 0 {
		return []T{}
	}
	start := pageIndex * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Clamp trims items to at most pageSize entries.
func Clamp[T any](items []T, pageSize int) []T {
	if pageSize >= 0 && len(items) > pageSize {
		return items[:pageSize]
	}
	return items
}

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present. Returns -1 for a value that does not parse,
// so that Validate rejects it instead of silently serving page one.
func ParsePage(r *http.Request) int {
	return parseInt(r, "page", 1)
}

// ParsePageSize extracts the "size" query parameter, defaulting to
// DefaultPageSize.
func ParsePageSize(r *http.Request) int {
	return parseInt(r, "size", DefaultPageSize)
}

func parseInt(r *http.Request, key string, def int) int {
	s := query.Get(r, key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start    int `json:"start"` // 1-based start index (0 if no results)
	End      int `json:"end"`   // 1-based end index (0 if no results)
	PrevPage int `json:"prevPage"`
	NextPage int `json:"nextPage"` // 0 when there is no next page
}

// ComputeRange calculates display range values for a 1-based page that
// shows `shown` rows out of `total`.
func ComputeRange(page, pageSize, shown, total int) Range {
	if shown == 0 {
		return Range{PrevPage: 1}
	}

	start := Skip(page, pageSize) + 1
	prev := page - 1
	if prev < 1 {
		prev = 1
	}
	next := 0
	if start+shown-1 < total {
		next = page + 1
	}

	return Range{
		Start:    start,
		End:      start + shown - 1,
		PrevPage: prev,
		NextPage: next,
	}
}

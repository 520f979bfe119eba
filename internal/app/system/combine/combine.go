// Package combine answers "match any of these filters" against an upstream
// that accepts only one filter per request.
//
// Run issues one request per filter in parallel, concatenates the results in
// filter order, drops repeated records (first occurrence wins), and cuts the
// requested page out of the merged list. The reported total is the size of
// the merged list, i.e. what was fetched, not the true size of the union
// upstream.
package combine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchSize is how many records are requested per filter. It is kept
// large so that the merged list is rarely truncated.
const DefaultFetchSize = paging.MaxPageSize

// ErrNoFilters is returned when Run is given an empty filter set.
var ErrNoFilters = errors.New("at least one search filter is required")

// ErrBadFilter is returned by ParseSet for an entry that is not key:value.
var ErrBadFilter = errors.New("malformed filter")

// Filter is one field/value criterion.
type Filter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// String renders the filter as key:value.
func (f Filter) String() string { return f.Key + ":" + f.Value }

// ParseFilter parses "key:value". The value may itself contain colons.
func ParseFilter(s string) (Filter, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(s), ":")
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return Filter{}, false
	}
	return Filter{Key: key, Value: value}, true
}

// Set is an ordered list of independent filters combined with logical OR.
// Order only decides which copy of a duplicate record is kept.
type Set []Filter

// ParseSet parses every raw "key:value" string, rejecting the whole set on
// the first malformed entry.
func ParseSet(raw []string) (Set, error) {
	out := make(Set, 0, len(raw))
	for _, s := range raw {
		f, ok := ParseFilter(s)
		if !ok {
			return nil, fmt.Errorf("%w %q, want key:value", ErrBadFilter, s)
		}
		out = append(out, f)
	}
	return out, nil
}

// Options binds Run to a record type and a fetch capability.
type Options[T any] struct {
	// FetchSize is the page size requested per filter. Zero means
	// DefaultFetchSize.
	FetchSize int

	// ID returns a record's stable identity.
	ID func(T) int

	// Fetch performs one filtered request.
	Fetch func(ctx context.Context, f Filter, size int) (paging.Page[T], error)
}

// Run executes one Fetch per filter concurrently and returns the requested
// 1-based page of the de-duplicated union.
//
// Validation errors (empty set, bad page or size) are returned before any
// request is made and wrap ErrNoFilters or paging.ErrInvalidPage. If any
// single request fails, the remaining requests are cancelled and Run
// returns that error; partial results are not used.
func Run[T any](ctx context.Context, set Set, page, pageSize int, opts Options[T]) (paging.Page[T], error) {
	if len(set) == 0 {
		return paging.Empty[T](), ErrNoFilters
	}
	if err := paging.Validate(page, pageSize); err != nil {
		return paging.Empty[T](), err
	}
	if opts.Fetch == nil || opts.ID == nil {
		return paging.Empty[T](), errors.New("combine: Options.Fetch and Options.ID are required")
	}
	size := opts.FetchSize
	if size <= 0 {
		size = DefaultFetchSize
	}

	results := make([][]T, len(set))
	eg, ectx := errgroup.WithContext(ctx)
	for i, f := range set {
		eg.Go(func() error {
			res, err := opts.Fetch(ectx, f, size)
			if err != nil {
				return fmt.Errorf("filter %s: %w", f, err)
			}
			results[i] = res.Items
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return paging.Empty[T](), err
	}

	merged := Dedupe(results, opts.ID)
	return paging.Page[T]{
		Items: paging.Paginate(merged, page-1, pageSize),
		Total: len(merged),
	}, nil
}

// Dedupe concatenates lists in order and keeps the first record seen for
// each identity.
func Dedupe[T any](lists [][]T, id func(T) int) []T {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	seen := make(map[int]struct{}, n)
	out := make([]T, 0, n)
	for _, l := range lists {
		for _, item := range l {
			k := id(item)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

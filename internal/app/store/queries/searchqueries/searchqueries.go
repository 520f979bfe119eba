// Package searchqueries serves product and user listings: single-criterion
// pages, multi-filter OR searches, the cached category list and derived
// statistics.
//
// Only validation errors (paging.ErrInvalidPage, combine.ErrNoFilters) are
// returned to callers. Upstream failures are logged and degrade to empty
// results.
package searchqueries

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/combine"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/app/system/stats"
	"github.com/dalemusser/shopadmin/internal/app/system/timeouts"
	"github.com/dalemusser/shopadmin/internal/app/system/ttlcache"
	"github.com/dalemusser/shopadmin/internal/domain/models"
	"go.uber.org/zap"
)

// CategoriesKey is the cache key for the product category list.
const CategoriesKey = "products:categories"

// DefaultCategoryTTL is how long the category list is cached.
const DefaultCategoryTTL = 60 * time.Minute

// Filter keys with special routing. Any other key is sent to the upstream
// field filter.
const (
	KeyCategory = "category"
	KeySearch   = "search"
	KeyQ        = "q"
)

// Options configure a Service. The zero value is usable.
type Options struct {
	// FetchSize is the per-filter page size for combined searches and the
	// sample size for statistics.
	FetchSize int

	CategoryTTL time.Duration
	Stats       stats.Config
	Log         *zap.Logger
}

// Service answers listing and search requests against the upstream API.
type Service struct {
	api         remotestore.API
	cache       *ttlcache.Cache
	fetchSize   int
	categoryTTL time.Duration
	stats       stats.Config
	log         *zap.Logger
}

// New creates a Service. cache may be shared with other services.
func New(api remotestore.API, cache *ttlcache.Cache, opts Options) *Service {
	s := &Service{
		api:         api,
		cache:       cache,
		fetchSize:   opts.FetchSize,
		categoryTTL: opts.CategoryTTL,
		stats:       opts.Stats,
		log:         opts.Log,
	}
	if s.fetchSize <= 0 || s.fetchSize > paging.MaxPageSize {
		s.fetchSize = combine.DefaultFetchSize
	}
	if s.categoryTTL <= 0 {
		s.categoryTTL = DefaultCategoryTTL
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.cache == nil {
		s.cache = ttlcache.New()
	}
	return s
}

// QueryFor maps one search filter onto an upstream query for the first
// size records.
func QueryFor(f combine.Filter, size int) remotestore.Query {
	q := remotestore.FirstPage(size)
	switch f.Key {
	case KeyCategory:
		q.Category = f.Value
	case KeySearch, KeyQ:
		q.Search = f.Value
	default:
		q.FilterKey = f.Key
		q.FilterValue = f.Value
	}
	return q
}

// ListProducts returns one page of products matching a single criterion.
func (s *Service) ListProducts(ctx context.Context, q remotestore.Query) (paging.Page[models.Product], error) {
	return list(ctx, s, remotestore.Products, q, s.api.Products)
}

// ListUsers returns one page of users matching a single criterion.
func (s *Service) ListUsers(ctx context.Context, q remotestore.Query) (paging.Page[models.User], error) {
	return list(ctx, s, remotestore.Users, q, s.api.Users)
}

func list[T any](ctx context.Context, s *Service, what string, q remotestore.Query,
	fetch func(context.Context, remotestore.Query) (paging.Page[T], error)) (paging.Page[T], error) {
	if err := q.Validate(); err != nil {
		return paging.Empty[T](), err
	}
	page, err := fetch(ctx, q)
	if err != nil {
		if isValidation(err) {
			return paging.Empty[T](), err
		}
		s.log.Warn("listing failed, returning empty page",
			zap.String("collection", what),
			zap.Int("page", q.Page),
			zap.Error(err))
		return paging.Empty[T](), nil
	}
	return page, nil
}

// SearchProducts returns page of the union of products matching any filter
// in set, without duplicates.
func (s *Service) SearchProducts(ctx context.Context, set combine.Set, page, pageSize int) (paging.Page[models.Product], error) {
	return search(ctx, s, remotestore.Products, set, page, pageSize, models.Product.RecordID, s.api.Products)
}

// SearchUsers returns page of the union of users matching any filter in
// set, without duplicates.
func (s *Service) SearchUsers(ctx context.Context, set combine.Set, page, pageSize int) (paging.Page[models.User], error) {
	return search(ctx, s, remotestore.Users, set, page, pageSize, models.User.RecordID, s.api.Users)
}

func search[T any](ctx context.Context, s *Service, what string, set combine.Set, page, pageSize int,
	id func(T) int, fetch func(context.Context, remotestore.Query) (paging.Page[T], error)) (paging.Page[T], error) {
	for _, f := range set {
		if err := QueryFor(f, s.fetchSize).Check(what); err != nil {
			return paging.Empty[T](), err
		}
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Search(), s.log, what+" search")
	defer cancel()

	res, err := combine.Run(ctx, set, page, pageSize, combine.Options[T]{
		FetchSize: s.fetchSize,
		ID:        id,
		Fetch: func(ctx context.Context, f combine.Filter, size int) (paging.Page[T], error) {
			return fetch(ctx, QueryFor(f, size))
		},
	})
	if err != nil {
		if isValidation(err) {
			return paging.Empty[T](), err
		}
		s.log.Warn("search failed, returning empty result",
			zap.String("collection", what),
			zap.Stringers("filters", []combine.Filter(set)),
			zap.Error(err))
		return paging.Empty[T](), nil
	}
	return res, nil
}

// isValidation reports caller mistakes, which propagate instead of
// degrading to an empty result.
func isValidation(err error) bool {
	return errors.Is(err, paging.ErrInvalidPage) ||
		errors.Is(err, combine.ErrNoFilters) ||
		errors.Is(err, remotestore.ErrUnsupportedQuery)
}

// Categories returns the product category list, cached for the configured
// TTL. A failed load is not cached and yields an empty list.
func (s *Service) Categories(ctx context.Context) []string {
	cats, err := ttlcache.Remember(ctx, s.cache, CategoriesKey, s.categoryTTL, s.loadCategories)
	if err != nil {
		s.log.Warn("category list unavailable", zap.Error(err))
		return []string{}
	}
	return cats
}

// RefreshCategories reloads the category list into the cache, replacing
// any cached copy.
func (s *Service) RefreshCategories(ctx context.Context) error {
	cats, err := s.loadCategories(ctx)
	if err != nil {
		return err
	}
	s.cache.Set(CategoriesKey, cats, s.categoryTTL)
	return nil
}

func (s *Service) loadCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Upstream(), s.log, "categories")
	defer cancel()
	return s.api.Categories(ctx)
}

// ProductStats derives statistics from a sample of the products matching q.
// q's page and size are replaced by the first FetchSize records.
func (s *Service) ProductStats(ctx context.Context, q remotestore.Query) (stats.ProductStats, error) {
	page, err := s.ListProducts(ctx, s.sample(q))
	if err != nil {
		return stats.ProductStats{}, err
	}
	return stats.Products(page, s.stats), nil
}

// UserStats derives statistics from a sample of the users matching q.
func (s *Service) UserStats(ctx context.Context, q remotestore.Query) (stats.UserStats, error) {
	page, err := s.ListUsers(ctx, s.sample(q))
	if err != nil {
		return stats.UserStats{}, err
	}
	return stats.Users(page, s.stats), nil
}

func (s *Service) sample(q remotestore.Query) remotestore.Query {
	q.Page = 1
	q.PageSize = s.fetchSize
	return q
}

package searchqueries_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/shopadmin/internal/app/store/queries/searchqueries"
	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/combine"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/app/system/ttlcache"
	"github.com/dalemusser/shopadmin/internal/domain/models"
	"github.com/dalemusser/shopadmin/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var errUpstream = errors.New("upstream unavailable")

func catalog() *testutil.FakeAPI {
	api := testutil.NewFakeAPI(6, 0, 0)
	api.ProductData = []models.Product{
		{ID: 1, Title: "iPhone 9", Category: "smartphones", Stock: 10},
		{ID: 2, Title: "Pixel Pro", Category: "smartphones", Stock: 4},
		{ID: 3, Title: "MacBook Pro", Category: "laptops", Stock: 0},
	}
	return api
}

func ids(items []models.Product) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestSearchProducts_UnionWithoutDuplicates(t *testing.T) {
	svc := searchqueries.New(catalog(), nil, searchqueries.Options{})
	set := combine.Set{{Key: "category", Value: "smartphones"}, {Key: "title", Value: "Pro"}}

	got, err := svc.SearchProducts(context.Background(), set, 1, 10)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(ids(got.Items), want) {
		t.Errorf("ids: got %v, want %v", ids(got.Items), want)
	}
	if got.Total != 3 {
		t.Errorf("Total: got %d, want 3", got.Total)
	}
}

func TestSearchProducts_Pages(t *testing.T) {
	svc := searchqueries.New(catalog(), nil, searchqueries.Options{})
	set := combine.Set{{Key: "category", Value: "smartphones"}, {Key: "title", Value: "Pro"}}

	got, err := svc.SearchProducts(context.Background(), set, 2, 2)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if want := []int{3}; !reflect.DeepEqual(ids(got.Items), want) {
		t.Errorf("ids: got %v, want %v", ids(got.Items), want)
	}
}

func TestSearchProducts_FailureDegradesToEmpty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	api := catalog()
	api.FailQuery = func(_ string, q remotestore.Query) error {
		if q.FilterKey == "title" {
			return errUpstream
		}
		return nil
	}
	svc := searchqueries.New(api, nil, searchqueries.Options{Log: zap.New(core)})
	set := combine.Set{{Key: "category", Value: "smartphones"}, {Key: "title", Value: "Pro"}}

	got, err := svc.SearchProducts(context.Background(), set, 1, 10)
	if err != nil {
		t.Fatalf("err: got %v, want nil", err)
	}
	if got.Items == nil || len(got.Items) != 0 || got.Total != 0 {
		t.Errorf("got %+v, want empty page", got)
	}
	if n := logs.FilterMessage("search failed, returning empty result").Len(); n != 1 {
		t.Errorf("warn entries: got %d, want 1", n)
	}
}

func TestSearch_ValidationPropagates(t *testing.T) {
	api := catalog()
	svc := searchqueries.New(api, nil, searchqueries.Options{})
	set := combine.Set{{Key: "q", Value: "phone"}}

	if _, err := svc.SearchProducts(context.Background(), set, 0, 10); !errors.Is(err, paging.ErrInvalidPage) {
		t.Errorf("page 0: got %v, want ErrInvalidPage", err)
	}
	if _, err := svc.SearchUsers(context.Background(), set, 1, 1000); !errors.Is(err, paging.ErrInvalidPage) {
		t.Errorf("size 1000: got %v, want ErrInvalidPage", err)
	}
	if _, err := svc.SearchUsers(context.Background(), nil, 1, 10); !errors.Is(err, combine.ErrNoFilters) {
		t.Errorf("no filters: got %v, want ErrNoFilters", err)
	}
	if n := api.Calls(remotestore.Products) + api.Calls(remotestore.Users); n != 0 {
		t.Errorf("upstream calls: got %d, want 0", n)
	}
}

func TestSearchUsers(t *testing.T) {
	api := catalog()
	svc := searchqueries.New(api, nil, searchqueries.Options{FetchSize: 50})
	// Fixture users 1 and 4 are admins; user 4 also matches the search.
	set := combine.Set{{Key: "role", Value: "admin"}, {Key: "search", Value: "user4"}}

	got, err := svc.SearchUsers(context.Background(), set, 1, 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if got.Total != 2 {
		t.Errorf("Total: got %d, want 2", got.Total)
	}
	for _, q := range api.Queries() {
		if q.PageSize != 50 {
			t.Errorf("fetch size: got %d, want 50", q.PageSize)
		}
	}
}

func TestUnsupportedCategoryPropagates(t *testing.T) {
	tests := []struct {
		name string
		run  func(svc *searchqueries.Service) error
	}{
		{"list users by category", func(svc *searchqueries.Service) error {
			_, err := svc.ListUsers(context.Background(), remotestore.Query{Page: 1, PageSize: 10, Category: "smartphones"})
			return err
		}},
		{"search users by category", func(svc *searchqueries.Service) error {
			_, err := svc.SearchUsers(context.Background(), combine.Set{{Key: "role", Value: "admin"}, {Key: "category", Value: "smartphones"}}, 1, 10)
			return err
		}},
		{"search products by path-like category", func(svc *searchqueries.Service) error {
			_, err := svc.SearchProducts(context.Background(), combine.Set{{Key: "category", Value: "../../users"}}, 1, 10)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := catalog()
			svc := searchqueries.New(api, nil, searchqueries.Options{FetchSize: 50, Log: zap.NewNop()})
			if err := tt.run(svc); !errors.Is(err, remotestore.ErrUnsupportedQuery) {
				t.Errorf("got %v, want ErrUnsupportedQuery", err)
			}
		})
	}
}

func TestSearchUsers_CategoryFetchesNothing(t *testing.T) {
	api := catalog()
	svc := searchqueries.New(api, nil, searchqueries.Options{FetchSize: 50})

	set := combine.Set{{Key: "role", Value: "admin"}, {Key: "category", Value: "smartphones"}}
	if _, err := svc.SearchUsers(context.Background(), set, 1, 10); err == nil {
		t.Fatal("SearchUsers: got nil error")
	}
	if n := api.Calls(remotestore.Users); n != 0 {
		t.Errorf("users calls: got %d, want 0", n)
	}
}

func TestQueryFor(t *testing.T) {
	tests := []struct {
		filter combine.Filter
		want   remotestore.Query
	}{
		{combine.Filter{Key: "category", Value: "laptops"}, remotestore.Query{Page: 1, PageSize: 100, Category: "laptops"}},
		{combine.Filter{Key: "q", Value: "phone"}, remotestore.Query{Page: 1, PageSize: 100, Search: "phone"}},
		{combine.Filter{Key: "search", Value: "phone"}, remotestore.Query{Page: 1, PageSize: 100, Search: "phone"}},
		{combine.Filter{Key: "brand", Value: "Apple"}, remotestore.Query{Page: 1, PageSize: 100, FilterKey: "brand", FilterValue: "Apple"}},
	}
	for _, tt := range tests {
		if got := searchqueries.QueryFor(tt.filter, 100); got != tt.want {
			t.Errorf("QueryFor(%s): got %+v, want %+v", tt.filter, got, tt.want)
		}
	}
}

func TestListProducts(t *testing.T) {
	svc := searchqueries.New(catalog(), nil, searchqueries.Options{})

	got, err := svc.ListProducts(context.Background(), remotestore.Query{Page: 1, PageSize: 10, Category: "smartphones"})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(ids(got.Items), want) {
		t.Errorf("ids: got %v, want %v", ids(got.Items), want)
	}
}

func TestListProducts_FailureDegradesToEmpty(t *testing.T) {
	api := catalog()
	api.ProductsErr = errUpstream
	svc := searchqueries.New(api, nil, searchqueries.Options{})

	got, err := svc.ListProducts(context.Background(), remotestore.FirstPage(10))
	if err != nil {
		t.Fatalf("err: got %v, want nil", err)
	}
	if len(got.Items) != 0 || got.Total != 0 {
		t.Errorf("got %+v, want empty page", got)
	}

	if _, err := svc.ListProducts(context.Background(), remotestore.Query{Page: -1, PageSize: 10}); !errors.Is(err, paging.ErrInvalidPage) {
		t.Errorf("page -1: got %v, want ErrInvalidPage", err)
	}
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCategories_CachedForTTL(t *testing.T) {
	clk := &clock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	api := catalog()
	svc := searchqueries.New(api, ttlcache.New(ttlcache.WithClock(clk.Now)), searchqueries.Options{CategoryTTL: 60 * time.Minute})
	ctx := context.Background()

	first := svc.Categories(ctx)
	second := svc.Categories(ctx)
	if !reflect.DeepEqual(first, second) || len(first) == 0 {
		t.Errorf("cached list: got %v then %v", first, second)
	}
	if n := api.Calls("categories"); n != 1 {
		t.Errorf("calls before expiry: got %d, want 1", n)
	}

	clk.Advance(61 * time.Minute)
	svc.Categories(ctx)
	if n := api.Calls("categories"); n != 2 {
		t.Errorf("calls after expiry: got %d, want 2", n)
	}
}

func TestCategories_FailureNotCached(t *testing.T) {
	api := catalog()
	api.CategoriesErr = errUpstream
	svc := searchqueries.New(api, ttlcache.New(), searchqueries.Options{})
	ctx := context.Background()

	if got := svc.Categories(ctx); got == nil || len(got) != 0 {
		t.Errorf("failed load: got %v, want empty list", got)
	}
	api.CategoriesErr = nil
	if got := svc.Categories(ctx); len(got) == 0 {
		t.Error("recovered load: got empty list")
	}
	if n := api.Calls("categories"); n != 2 {
		t.Errorf("calls: got %d, want 2", n)
	}
}

func TestRefreshCategories(t *testing.T) {
	api := catalog()
	cache := ttlcache.New()
	svc := searchqueries.New(api, cache, searchqueries.Options{})

	if err := svc.RefreshCategories(context.Background()); err != nil {
		t.Fatalf("RefreshCategories: %v", err)
	}
	if _, ok := cache.Get(searchqueries.CategoriesKey); !ok {
		t.Error("category list not cached")
	}
	svc.Categories(context.Background())
	if n := api.Calls("categories"); n != 1 {
		t.Errorf("calls: got %d, want 1", n)
	}
}

func TestProductStats(t *testing.T) {
	svc := searchqueries.New(catalog(), nil, searchqueries.Options{})

	got, err := svc.ProductStats(context.Background(), remotestore.Query{Page: 3, PageSize: 1})
	if err != nil {
		t.Fatalf("ProductStats: %v", err)
	}
	if got.Total != 3 || got.OutOfStock != 1 || got.LowStock != 1 || got.Categories != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestUserStats(t *testing.T) {
	svc := searchqueries.New(catalog(), nil, searchqueries.Options{})

	got, err := svc.UserStats(context.Background(), remotestore.FirstPage(10))
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if got.Total != 6 || got.Admins != 2 {
		t.Errorf("got %+v, want 6 users with 2 admins", got)
	}
}

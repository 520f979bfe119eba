package products_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/shopadmin/internal/app/features/errors"
	"github.com/dalemusser/shopadmin/internal/app/features/products"
	"github.com/dalemusser/shopadmin/internal/app/features/shared/params"
	"github.com/dalemusser/shopadmin/internal/app/store/queries/searchqueries"
	"github.com/dalemusser/shopadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/shopadmin/internal/domain/models"
	"github.com/dalemusser/shopadmin/internal/testutil"
	"go.uber.org/zap"
)

func newRouter(api *testutil.FakeAPI, limiter *ratelimit.Limiter) http.Handler {
	logger := zap.NewNop()
	svc := searchqueries.New(api, nil, searchqueries.Options{Log: logger})
	h := products.NewHandler(svc, uierrors.NewErrorLogger(logger), logger)
	return products.Routes(h, limiter)
}

func get(h http.Handler, target string) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewRequest("GET", target))
	return rec
}

func TestServeList(t *testing.T) {
	h := newRouter(testutil.NewFakeAPI(0, 25, 0), nil)

	rec := get(h, "/?page=3&size=10")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertJSON(t)

	var body params.Page[models.Product]
	rec.Decode(t, &body)
	if body.Total != 25 || len(body.Items) != 5 || body.Items[0].ID != 21 {
		t.Errorf("page: got total=%d len=%d", body.Total, len(body.Items))
	}
	if body.Range.Start != 21 || body.Range.End != 25 {
		t.Errorf("Range: got %+v", body.Range)
	}
}

func TestServeList_Category(t *testing.T) {
	h := newRouter(testutil.NewFakeAPI(0, 8, 0), nil)

	var body params.Page[models.Product]
	rec := get(h, "/?category=laptops")
	rec.AssertStatus(t, http.StatusOK)
	rec.Decode(t, &body)
	for _, p := range body.Items {
		if p.Category != "laptops" {
			t.Errorf("item %d: category %q", p.ID, p.Category)
		}
	}
	if body.Total != 2 {
		t.Errorf("Total: got %d, want 2", body.Total)
	}
}

func TestServeList_BadPage(t *testing.T) {
	h := newRouter(testutil.NewFakeAPI(0, 5, 0), nil)

	for _, target := range []string{"/?page=0", "/?size=101", "/?page=abc"} {
		get(h, target).AssertStatus(t, http.StatusBadRequest)
	}
}

func TestServeSearch(t *testing.T) {
	api := testutil.NewFakeAPI(0, 8, 0)
	h := newRouter(api, nil)

	// Category "smartphones" holds products 1 and 5; title "Product 1"
	// matches product 1 again, so the union has two products.
	rec := get(h, "/search?filter=category:smartphones&filter=title:Product%201")
	rec.AssertStatus(t, http.StatusOK)

	var body params.Page[models.Product]
	rec.Decode(t, &body)
	if body.Total != 2 {
		t.Errorf("Total: got %d, want 2", body.Total)
	}
}

func TestServeSearch_Errors(t *testing.T) {
	api := testutil.NewFakeAPI(0, 8, 0)
	h := newRouter(api, nil)

	get(h, "/search").AssertStatus(t, http.StatusBadRequest)
	get(h, "/search?filter=broken").AssertStatus(t, http.StatusBadRequest)

	api.ProductsErr = errors.New("down")
	rec := get(h, "/search?filter=category:laptops")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"items":[]`)
}

func TestServeSearch_RateLimited(t *testing.T) {
	h := newRouter(testutil.NewFakeAPI(0, 8, 0), ratelimit.New(2, time.Minute))

	get(h, "/search?filter=category:laptops").AssertStatus(t, http.StatusOK)
	get(h, "/search?filter=category:laptops").AssertStatus(t, http.StatusOK)
	get(h, "/search?filter=category:laptops").AssertStatus(t, http.StatusTooManyRequests)
	// Listing is not limited.
	get(h, "/").AssertStatus(t, http.StatusOK)
}

func TestServeStats(t *testing.T) {
	h := newRouter(testutil.NewFakeAPI(0, 8, 0), nil)

	rec := get(h, "/stats")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"total":8`)
	rec.AssertContains(t, `"outOfStock":2`)
}

func TestServeCategories(t *testing.T) {
	h := newRouter(testutil.NewFakeAPI(0, 0, 0), nil)

	rec := get(h, "/categories")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"categories":["smartphones"`)
}

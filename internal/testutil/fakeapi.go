package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/domain/models"
)

// FakeAPI is an in-memory remotestore.API. It serves the configured records
// with upstream-like search, category and field filtering, counts calls per
// collection and can be told to fail.
//
// Configure the exported fields before use; they are not guarded.
type FakeAPI struct {
	UserData     []models.User
	ProductData  []models.Product
	CartData     []models.Cart
	CategoryData []string

	UsersErr      error
	ProductsErr   error
	CartsErr      error
	CategoriesErr error

	// FailQuery, when set, is consulted per call; a non-nil return fails
	// that call only.
	FailQuery func(collection string, q remotestore.Query) error

	// Block, when set, makes every call wait until it is closed or the
	// context ends.
	Block chan struct{}

	mu      sync.Mutex
	calls   map[string]int
	queries []remotestore.Query
}

var _ remotestore.API = (*FakeAPI)(nil)

// NewFakeAPI returns a FakeAPI serving the standard fixtures.
func NewFakeAPI(users, products, carts int) *FakeAPI {
	return &FakeAPI{
		UserData:     Users(users),
		ProductData:  Products(products),
		CartData:     Carts(carts),
		CategoryData: append([]string(nil), fixtureCategories...),
	}
}

// Calls returns how many times a collection ("users", "products", "carts",
// "categories") was requested.
func (f *FakeAPI) Calls(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[collection]
}

// Queries returns every page query received, in arrival order.
func (f *FakeAPI) Queries() []remotestore.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remotestore.Query(nil), f.queries...)
}

func (f *FakeAPI) record(collection string, q *remotestore.Query) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[collection]++
	if q != nil {
		f.queries = append(f.queries, *q)
	}
}

func (f *FakeAPI) wait(ctx context.Context) error {
	if f.Block == nil {
		return ctx.Err()
	}
	select {
	case <-f.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FakeAPI) Users(ctx context.Context, q remotestore.Query) (paging.Page[models.User], error) {
	f.record(remotestore.Users, &q)
	if err := f.precheck(ctx, remotestore.Users, q, f.UsersErr); err != nil {
		return paging.Empty[models.User](), err
	}
	return serve(f.UserData, q, matchUser), nil
}

func (f *FakeAPI) Products(ctx context.Context, q remotestore.Query) (paging.Page[models.Product], error) {
	f.record(remotestore.Products, &q)
	if err := f.precheck(ctx, remotestore.Products, q, f.ProductsErr); err != nil {
		return paging.Empty[models.Product](), err
	}
	return serve(f.ProductData, q, matchProduct), nil
}

func (f *FakeAPI) Carts(ctx context.Context, q remotestore.Query) (paging.Page[models.Cart], error) {
	f.record(remotestore.Carts, &q)
	if err := f.precheck(ctx, remotestore.Carts, q, f.CartsErr); err != nil {
		return paging.Empty[models.Cart](), err
	}
	return serve(f.CartData, q, func(models.Cart, remotestore.Query) bool { return true }), nil
}

func (f *FakeAPI) Categories(ctx context.Context) ([]string, error) {
	f.record("categories", nil)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.CategoriesErr != nil {
		return nil, f.CategoriesErr
	}
	return append([]string{}, f.CategoryData...), nil
}

func (f *FakeAPI) precheck(ctx context.Context, collection string, q remotestore.Query, err error) error {
	if verr := q.Validate(); verr != nil {
		return verr
	}
	if cerr := q.Check(collection); cerr != nil {
		return cerr
	}
	if werr := f.wait(ctx); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	if f.FailQuery != nil {
		return f.FailQuery(collection, q)
	}
	return nil
}

func serve[T any](data []T, q remotestore.Query, match func(T, remotestore.Query) bool) paging.Page[T] {
	matched := make([]T, 0, len(data))
	for _, rec := range data {
		if match(rec, q) {
			matched = append(matched, rec)
		}
	}
	return paging.Page[T]{
		Items: paging.Paginate(matched, q.Page-1, q.PageSize),
		Total: len(matched),
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func matchProduct(p models.Product, q remotestore.Query) bool {
	switch {
	case q.Search != "":
		return containsFold(p.Title, q.Search) || containsFold(p.Description, q.Search)
	case q.Category != "":
		return p.Category == q.Category
	case q.FilterKey != "":
		switch q.FilterKey {
		case "title":
			return containsFold(p.Title, q.FilterValue)
		case "brand":
			return strings.EqualFold(p.Brand, q.FilterValue)
		case "category":
			return p.Category == q.FilterValue
		}
		return false
	}
	return true
}

func matchUser(u models.User, q remotestore.Query) bool {
	switch {
	case q.Search != "":
		return containsFold(u.FirstName, q.Search) || containsFold(u.LastName, q.Search) || containsFold(u.Username, q.Search)
	case q.FilterKey != "":
		switch q.FilterKey {
		case "role":
			return u.Role == q.FilterValue
		case "gender":
			return u.Gender == q.FilterValue
		case "firstName":
			return strings.EqualFold(u.FirstName, q.FilterValue)
		case "lastName":
			return strings.EqualFold(u.LastName, q.FilterValue)
		}
		return false
	}
	return true
}

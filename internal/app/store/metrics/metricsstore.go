// Package metricsstore assembles the admin dashboard from several
// independent upstream queries.
//
// FetchDashboard never fails. Each part of the dashboard is computed by its
// own task and falls back to a fixed empty value when its queries fail, so
// callers always receive a fully shaped Dashboard.
package metricsstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/shopadmin/internal/app/store/remote"
	"github.com/dalemusser/shopadmin/internal/app/system/gather"
	"github.com/dalemusser/shopadmin/internal/app/system/paging"
	"github.com/dalemusser/shopadmin/internal/app/system/stats"
	"github.com/dalemusser/shopadmin/internal/app/system/timeouts"
	"github.com/dalemusser/shopadmin/internal/domain/models"
	"go.uber.org/zap"
)

// Task names, as they appear in logs and Dashboard.Degraded.
const (
	TaskStats            = "stats"
	TaskSalesSeries      = "salesSeries"
	TaskRecentActivities = "recentActivities"
	TaskQuickStats       = "quickStats"
)

// Stats are the headline counters.
type Stats struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalProducts int     `json:"totalProducts"`
	TotalSales    float64 `json:"totalSales"`
	TotalOrders   int     `json:"totalOrders"`
}

// Dashboard is the composite dashboard payload. Every field is always
// populated; failed parts carry their fallback value.
type Dashboard struct {
	Stats            Stats              `json:"stats"`
	SalesSeries      []stats.SalesPoint `json:"salesSeries"`
	RecentActivities []stats.Activity   `json:"recentActivities"`
	QuickStats       stats.QuickStats   `json:"quickStats"`

	// Degraded names every query that fell back, e.g. "stats.users".
	Degraded []string `json:"degraded,omitempty"`
}

// FallbackDashboard returns the dashboard shown when nothing could be
// fetched. It is also the source of each part's individual fallback.
func FallbackDashboard() Dashboard {
	return Dashboard{
		Stats:            Stats{},
		SalesSeries:      stats.EmptySalesSeries(),
		RecentActivities: []stats.Activity{},
		QuickStats:       stats.QuickStats{},
	}
}

// Options tune FetchDashboard. The zero value is usable.
type Options struct {
	// SampleSize is the page size used for sampled statistics.
	SampleSize int

	// Stats carries the thresholds for derived metrics.
	Stats stats.Config

	// TaskTimeout bounds each upstream query. Zero uses timeouts.Upstream().
	TaskTimeout time.Duration

	Log *zap.Logger
}

func (o Options) sampleSize() int {
	if o.SampleSize > 0 && o.SampleSize <= paging.MaxPageSize {
		return o.SampleSize
	}
	return paging.MaxPageSize
}

func (o Options) logger() *zap.Logger {
	if o.Log != nil {
		return o.Log
	}
	return zap.NewNop()
}

func (o Options) taskTimeout() time.Duration {
	if o.TaskTimeout > 0 {
		return o.TaskTimeout
	}
	return timeouts.Upstream()
}

// Activity feed sample sizes, one page each.
const (
	activityUsers    = 3
	activityProducts = 2
	activityCarts    = 5
)

// degraded collects the names of failed queries across nested groups.
type degraded struct {
	mu    sync.Mutex
	names []string
}

func (d *degraded) add(prefix string, g *gather.Group) {
	failed := g.Failed()
	if len(failed) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range failed {
		if prefix != "" {
			name = prefix + "." + name
		}
		d.names = append(d.names, name)
	}
}

func (d *degraded) list() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.names) == 0 {
		return nil
	}
	out := append([]string(nil), d.names...)
	sort.Strings(out)
	return out
}

// FetchDashboard builds the dashboard. The four parts are computed
// concurrently under timeouts.Aggregate(); parts that need several queries
// fall back per query, so one failing query only zeroes its own
// contribution.
func FetchDashboard(ctx context.Context, api remotestore.API, opts Options) (out Dashboard) {
	log := opts.logger()
	defer func() {
		if p := recover(); p != nil {
			log.Error("dashboard assembly panicked, serving fallback", zap.Any("panic", p))
			out = FallbackDashboard()
		}
	}()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Aggregate(), log, "dashboard")
	defer cancel()

	fb := FallbackDashboard()
	deg := &degraded{}

	g := gather.New(ctx, gather.WithLogger(log))
	st := gather.Go(g, TaskStats, fb.Stats, func(ctx context.Context) (Stats, error) {
		return fetchStats(ctx, api, opts, deg), nil
	})
	series := gather.Go(g, TaskSalesSeries, fb.SalesSeries, func(ctx context.Context) ([]stats.SalesPoint, error) {
		ctx, cancel := context.WithTimeout(ctx, opts.taskTimeout())
		defer cancel()
		carts, err := api.Carts(ctx, remotestore.FirstPage(opts.sampleSize()))
		if err != nil {
			return nil, err
		}
		return stats.SalesSeries(carts.Items), nil
	})
	feed := gather.Go(g, TaskRecentActivities, fb.RecentActivities, func(ctx context.Context) ([]stats.Activity, error) {
		return fetchActivities(ctx, api, opts, deg), nil
	})
	quick := gather.Go(g, TaskQuickStats, fb.QuickStats, func(ctx context.Context) (stats.QuickStats, error) {
		return fetchQuickStats(ctx, api, opts, deg), nil
	})
	g.Wait()

	deg.add("", g)

	return Dashboard{
		Stats:            st.Value(),
		SalesSeries:      series.Value(),
		RecentActivities: feed.Value(),
		QuickStats:       quick.Value(),
		Degraded:         deg.list(),
	}
}

func fetchStats(ctx context.Context, api remotestore.API, opts Options, deg *degraded) Stats {
	g := gather.New(ctx, gather.WithLogger(opts.logger()), gather.WithTaskTimeout(opts.taskTimeout()))
	users := gather.Go(g, "users", 0, func(ctx context.Context) (int, error) {
		p, err := api.Users(ctx, remotestore.FirstPage(1))
		return p.Total, err
	})
	products := gather.Go(g, "products", 0, func(ctx context.Context) (int, error) {
		p, err := api.Products(ctx, remotestore.FirstPage(1))
		return p.Total, err
	})
	sales := gather.Go(g, "sales", stats.CartStats{}, func(ctx context.Context) (stats.CartStats, error) {
		p, err := api.Carts(ctx, remotestore.FirstPage(opts.sampleSize()))
		if err != nil {
			return stats.CartStats{}, err
		}
		return stats.Carts(p), nil
	})
	g.Wait()
	deg.add(TaskStats, g)

	return Stats{
		TotalUsers:    users.Value(),
		TotalProducts: products.Value(),
		TotalSales:    sales.Value().EstimatedSales,
		TotalOrders:   sales.Value().TotalCarts,
	}
}

func fetchActivities(ctx context.Context, api remotestore.API, opts Options, deg *degraded) []stats.Activity {
	g := gather.New(ctx, gather.WithLogger(opts.logger()), gather.WithTaskTimeout(opts.taskTimeout()))
	users := gather.Go(g, "users", []models.User(nil), func(ctx context.Context) ([]models.User, error) {
		p, err := api.Users(ctx, remotestore.FirstPage(activityUsers))
		return p.Items, err
	})
	products := gather.Go(g, "products", []models.Product(nil), func(ctx context.Context) ([]models.Product, error) {
		p, err := api.Products(ctx, remotestore.FirstPage(activityProducts))
		return p.Items, err
	})
	carts := gather.Go(g, "carts", []models.Cart(nil), func(ctx context.Context) ([]models.Cart, error) {
		p, err := api.Carts(ctx, remotestore.FirstPage(activityCarts))
		return p.Items, err
	})
	g.Wait()
	deg.add(TaskRecentActivities, g)

	return stats.RecentActivities(users.Value(), products.Value(), carts.Value())
}

func fetchQuickStats(ctx context.Context, api remotestore.API, opts Options, deg *degraded) stats.QuickStats {
	size := opts.sampleSize()
	g := gather.New(ctx, gather.WithLogger(opts.logger()), gather.WithTaskTimeout(opts.taskTimeout()))
	products := gather.Go(g, "products", paging.Empty[models.Product](), func(ctx context.Context) (paging.Page[models.Product], error) {
		return api.Products(ctx, remotestore.FirstPage(size))
	})
	users := gather.Go(g, "users", paging.Empty[models.User](), func(ctx context.Context) (paging.Page[models.User], error) {
		return api.Users(ctx, remotestore.FirstPage(size))
	})
	carts := gather.Go(g, "carts", paging.Empty[models.Cart](), func(ctx context.Context) (paging.Page[models.Cart], error) {
		return api.Carts(ctx, remotestore.FirstPage(size))
	})
	g.Wait()
	deg.add(TaskQuickStats, g)

	return stats.Quick(products.Value(), users.Value(), carts.Value(), opts.Stats)
}

package stats

import (
	"fmt"
	"sort"

	"github.com/dalemusser/shopadmin/internal/domain/models"
	"github.com/google/uuid"
)

// Feed bounds.
const (
	MaxActivities = 10
	MinActivities = 5

	maxUserActivities    = 3
	maxProductActivities = 2
	maxCartActivities    = 5
)

// ActivityKind classifies a feed entry.
type ActivityKind string

const (
	KindUser    ActivityKind = "user"
	KindProduct ActivityKind = "product"
	KindOrder   ActivityKind = "order"
	KindSystem  ActivityKind = "system"
)

// Activity is one entry of the recent-activity feed. MinutesAgo is
// synthetic: the upstream has no event log, so each source is assigned a
// fixed cadence (see RecentActivities).
type Activity struct {
	ID          string       `json:"id"`
	Kind        ActivityKind `json:"kind"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	MinutesAgo  int          `json:"minutesAgo"`
	Amount      float64      `json:"amount,omitempty"`
	RefID       int          `json:"refId,omitempty"`
}

var activityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("shopadmin/activity"))

func activityID(kind ActivityKind, ref string) string {
	return uuid.NewSHA1(activityNamespace, []byte(string(kind)+":"+ref)).String()
}

// placeholders pad short feeds. They are fixed so the feed is reproducible.
var placeholders = []struct {
	title, desc string
}{
	{"Inventory sync completed", "Stock levels refreshed from the catalog"},
	{"Daily sales report generated", "Yesterday's orders were summarized"},
	{"Price rules refreshed", "Discount rules were re-applied to the catalog"},
	{"Search index rebuilt", "Product search results are up to date"},
	{"Backup completed", "Store data snapshot finished successfully"},
}

// RecentActivities builds the dashboard feed from up to 3 users, 2 products
// and 5 carts, taken in the order given.
//
// Synthetic recency per source: user i signed up 2+15i minutes ago, product
// i was added 10+30i minutes ago, cart i was placed 5+20i minutes ago. The
// feed is sorted by MinutesAgo ascending (ties keep source order) and cut to
// MaxActivities. When there is at least one real entry but fewer than
// MinActivities, fixed system entries are appended until the feed reaches
// MinActivities. With no source data at all the feed is empty.
func RecentActivities(users []models.User, products []models.Product, carts []models.Cart) []Activity {
	feed := make([]Activity, 0, MaxActivities)

	for i, u := range capped(users, maxUserActivities) {
		feed = append(feed, Activity{
			ID:          activityID(KindUser, fmt.Sprint(u.ID)),
			Kind:        KindUser,
			Title:       "New user registered",
			Description: fmt.Sprintf("%s joined the store", displayName(u)),
			MinutesAgo:  2 + 15*i,
			RefID:       u.ID,
		})
	}
	for i, p := range capped(products, maxProductActivities) {
		feed = append(feed, Activity{
			ID:          activityID(KindProduct, fmt.Sprint(p.ID)),
			Kind:        KindProduct,
			Title:       "Product added",
			Description: fmt.Sprintf("%s was added to %s", p.Title, p.Category),
			MinutesAgo:  10 + 30*i,
			Amount:      p.Price,
			RefID:       p.ID,
		})
	}
	for i, c := range capped(carts, maxCartActivities) {
		feed = append(feed, Activity{
			ID:          activityID(KindOrder, fmt.Sprint(c.ID)),
			Kind:        KindOrder,
			Title:       "New order placed",
			Description: fmt.Sprintf("Order #%d with %d items", c.ID, c.TotalQuantity),
			MinutesAgo:  5 + 20*i,
			Amount:      c.DiscountedTotal,
			RefID:       c.ID,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].MinutesAgo < feed[j].MinutesAgo })
	if len(feed) > MaxActivities {
		feed = feed[:MaxActivities]
	}

	if len(feed) == 0 {
		return feed
	}
	for i := 0; len(feed) < MinActivities; i++ {
		ph := placeholders[i%len(placeholders)]
		feed = append(feed, Activity{
			ID:          activityID(KindSystem, fmt.Sprint(i)),
			Kind:        KindSystem,
			Title:       ph.title,
			Description: ph.desc,
			MinutesAgo:  120 + 60*i,
		})
	}
	return feed
}

func capped[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func displayName(u models.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("User #%d", u.ID)
}

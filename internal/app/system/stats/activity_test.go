package stats_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dalemusser/shopadmin/internal/app/system/stats"
	"github.com/dalemusser/shopadmin/internal/domain/models"
)

func makeUsers(n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		out[i] = models.User{ID: i + 1, FirstName: "User", LastName: fmt.Sprint(i + 1)}
	}
	return out
}

func makeProducts(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{ID: i + 1, Title: fmt.Sprintf("Product %d", i+1), Category: "misc", Price: 9.99}
	}
	return out
}

func makeCarts(n int) []models.Cart {
	out := make([]models.Cart, n)
	for i := range out {
		out[i] = models.Cart{ID: i + 1, DiscountedTotal: 50, TotalQuantity: 2}
	}
	return out
}

func assertSorted(t *testing.T, feed []stats.Activity) {
	t.Helper()
	for i := 1; i < len(feed); i++ {
		if feed[i].MinutesAgo < feed[i-1].MinutesAgo {
			t.Fatalf("feed not sorted at %d: %d < %d", i, feed[i].MinutesAgo, feed[i-1].MinutesAgo)
		}
	}
}

func TestRecentActivities_Full(t *testing.T) {
	feed := stats.RecentActivities(makeUsers(10), makeProducts(10), makeCarts(10))

	if len(feed) != stats.MaxActivities {
		t.Fatalf("len: got %d, want %d", len(feed), stats.MaxActivities)
	}
	assertSorted(t, feed)

	counts := map[stats.ActivityKind]int{}
	for _, a := range feed {
		counts[a.Kind]++
	}
	want := map[stats.ActivityKind]int{stats.KindUser: 3, stats.KindProduct: 2, stats.KindOrder: 5}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("kinds: got %v, want %v", counts, want)
	}
	if feed[0].Kind != stats.KindUser || feed[0].MinutesAgo != 2 {
		t.Errorf("first entry: got %+v", feed[0])
	}
}

func TestRecentActivities_PadsToMinimum(t *testing.T) {
	feed := stats.RecentActivities(makeUsers(1), nil, makeCarts(1))

	if len(feed) != stats.MinActivities {
		t.Fatalf("len: got %d, want %d", len(feed), stats.MinActivities)
	}
	assertSorted(t, feed)
	system := 0
	for _, a := range feed {
		if a.Kind == stats.KindSystem {
			system++
		}
	}
	if system != 3 {
		t.Errorf("placeholders: got %d, want 3", system)
	}
}

func TestRecentActivities_CapsPerSource(t *testing.T) {
	// Six users alone yield only three real entries, so the feed is padded.
	feed := stats.RecentActivities(makeUsers(6), nil, nil)
	if len(feed) != stats.MinActivities {
		t.Fatalf("len: got %d, want %d", len(feed), stats.MinActivities)
	}
	if feed[3].Kind != stats.KindSystem {
		t.Errorf("entry 3: got kind %q, want system", feed[3].Kind)
	}
}

func TestRecentActivities_EmptyWithoutSources(t *testing.T) {
	feed := stats.RecentActivities(nil, nil, nil)
	if feed == nil || len(feed) != 0 {
		t.Errorf("got %v, want empty non-nil feed", feed)
	}
}

// With at least MinActivities source records in any mix, the feed holds
// between MinActivities and MaxActivities entries in ascending order.
func TestRecentActivities_Bounds(t *testing.T) {
	for u := 0; u <= 6; u++ {
		for p := 0; p <= 4; p++ {
			for c := 0; c <= 7; c++ {
				if u+p+c < stats.MinActivities {
					continue
				}
				feed := stats.RecentActivities(makeUsers(u), makeProducts(p), makeCarts(c))
				if len(feed) < stats.MinActivities || len(feed) > stats.MaxActivities {
					t.Fatalf("u=%d p=%d c=%d: len %d out of bounds", u, p, c, len(feed))
				}
				assertSorted(t, feed)
			}
		}
	}
}

func TestRecentActivities_Deterministic(t *testing.T) {
	a := stats.RecentActivities(makeUsers(2), makeProducts(1), nil)
	b := stats.RecentActivities(makeUsers(2), makeProducts(1), nil)
	if !reflect.DeepEqual(a, b) {
		t.Error("feeds differ between identical calls")
	}
	seen := map[string]bool{}
	for _, act := range a {
		if seen[act.ID] {
			t.Errorf("duplicate activity id %s", act.ID)
		}
		seen[act.ID] = true
	}
}

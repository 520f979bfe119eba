package testutil

import (
	"fmt"

	"github.com/dalemusser/shopadmin/internal/domain/models"
)

var fixtureCategories = []string{"smartphones", "laptops", "beauty", "groceries"}

// Products returns n products with ids 1..n. Categories rotate through a
// fixed list and stock counts cover in-stock, low-stock and sold-out values.
func Products(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		id := i + 1
		out[i] = models.Product{
			ID:       id,
			Title:    fmt.Sprintf("Product %d", id),
			Category: fixtureCategories[i%len(fixtureCategories)],
			Brand:    "Acme",
			Price:    float64(10 * id),
			Rating:   4,
			Stock:    (i % 4) * 5, // 0, 5, 10, 15
		}
	}
	return out
}

// Users returns n users with ids 1..n. Every third user is an admin.
func Users(n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		id := i + 1
		role := models.RoleUser
		if i%3 == 0 {
			role = models.RoleAdmin
		}
		out[i] = models.User{
			ID:        id,
			FirstName: "User",
			LastName:  fmt.Sprint(id),
			Username:  fmt.Sprintf("user%d", id),
			Email:     fmt.Sprintf("user%d@example.com", id),
			Age:       20 + i%40,
			Role:      role,
		}
	}
	return out
}

// Carts returns n carts with ids 1..n, each with a discounted total of
// 100 and a list total of 110.
func Carts(n int) []models.Cart {
	out := make([]models.Cart, n)
	for i := range out {
		id := i + 1
		out[i] = models.Cart{
			ID:              id,
			UserID:          id,
			Total:           110,
			DiscountedTotal: 100,
			TotalProducts:   1,
			TotalQuantity:   2,
			Products: []models.CartItem{{
				ID: id, Title: fmt.Sprintf("Product %d", id), Price: 55, Quantity: 2, Total: 110, DiscountedTotal: 100,
			}},
		}
	}
	return out
}

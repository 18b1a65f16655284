package cart

import (
	"time"

	"nutrimart-be/internal/product"
)

// Item is one stored cart row: a product reference and its quantity.
// Rows are keyed (user_id, product_id); quantity is always >= 1.
type Item struct {
	UserID    uint   `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolvedItem is a cart row joined with the live catalog entry. Unlike
// order lines, these always reflect the product's current price and stock.
type ResolvedItem struct {
	Product  *product.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

// Cart is the resolved view handed to the API. An absent cart is simply a
// Cart with no items.
type Cart struct {
	Items []ResolvedItem `json:"cartItems"`
}

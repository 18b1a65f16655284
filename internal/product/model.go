package product

import "time"

// Product is a live catalog entry. Weight stays a raw descriptor string
// ("500g", "1kg"); the pricing package owns its interpretation.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ImageURL     string  `json:"imageUrl"`
	Flavor       string  `json:"flavor"`
	Category     string  `json:"category"`
	Weight       string  `json:"weight"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
	Rating       float64 `json:"rating"`
	NumReviews   int     `json:"numReviews"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type NewProductInput struct {
	Name         string
	ImageURL     string
	Flavor       string
	Category     string
	Weight       string
	Description  string
	Price        float64
	CountInStock int
}

type UpdateProductInput struct {
	Name         *string
	ImageURL     *string
	Flavor       *string
	Category     *string
	Weight       *string
	Description  *string
	Price        *float64
	CountInStock *int
}

type QueryOptions struct {
	Search   *string
	Category *string
	InStock  *bool

	SortField string // "price" | "name" | "rating" | default created_at
	SortDesc  bool

	Limit uint16
	Page  uint16
}

package order

import "time"

// OrderItem is a frozen copy of a product at order time. Later catalog
// edits or deletions never touch these rows.
type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

// ShippingAddress is captured by value at order creation, never a
// reference into the user's saved addresses.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Complete reports whether the client supplied enough of an address to use
// it directly instead of falling back to a saved one.
func (a *ShippingAddress) Complete() bool {
	return a != nil && a.Address != ""
}

// PaymentResult records what the gateway reported when the order was paid.
type PaymentResult struct {
	TransactionID string `json:"id"`
	Status        string `json:"status"`
	UpdateTime    string `json:"update_time"`
	EmailAddress  string `json:"email_address"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          uint            `json:"user"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`

	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TotalPrice    float64 `json:"totalPrice"`

	IsPaid        bool           `json:"isPaid"`
	PaidAt        *time.Time     `json:"paidAt,omitempty"`
	PaymentResult *PaymentResult `json:"paymentResult,omitempty"`

	IsDelivered bool       `json:"isDelivered"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RequestedLine is what the client asks to order. Any price fields it sends
// alongside are discarded; pricing is always re-derived server-side.
type RequestedLine struct {
	ProductID string
	Quantity  int
}

type CreateOrderParams struct {
	UserID          uint
	Lines           []RequestedLine
	PaymentMethod   string
	ShippingAddress ShippingAddress
}

// ListOptions filters the admin order listing.
type ListOptions struct {
	IsPaid      *bool
	IsDelivered *bool

	Limit uint16
	Page  uint16
}

// GatewayResult is the payment confirmation reaching MarkPaid, either from
// the client-reported completion event or the verified server callback.
type GatewayResult struct {
	TransactionID string
	Status        string
	PayerEmail    string
}

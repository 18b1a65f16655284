package order

import "errors"

var (
	// -- Validation & Input --
	ErrNoOrderItems            = errors.New("no order items")
	ErrInvalidQuantity         = errors.New("order line quantity must be positive")
	ErrShippingAddressRequired = errors.New("shipping address required")

	// -- Resource State --
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderAlreadyPaid = errors.New("order is already paid")

	// -- Authorization --
	ErrUnauthorized = errors.New("unauthorized")
)

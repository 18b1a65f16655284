package address

import (
	"github.com/google/uuid"
)

// Address is a saved delivery destination on a user's profile. Orders copy
// the fields they need instead of referencing these rows.
type Address struct {
	ID     uuid.UUID `json:"id"`
	UserID uint      `json:"userId"`

	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`

	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`

	IsDefault bool `json:"isDefault"`
}

type CreateAddressInput struct {
	Name         *string
	Phone        *string
	Address      string
	City         string
	PostalCode   string
	Country      string
	SetAsDefault bool
}

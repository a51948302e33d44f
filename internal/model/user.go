package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a customer account, uniquely identified by phone number.
type User struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Email         string          `json:"email,omitempty" db:"email"`
	Phone         string          `json:"phone" db:"phone"`
	JoinedAt      time.Time       `json:"joined" db:"joined_at"`
	LastLogin     *time.Time      `json:"lastLogin,omitempty" db:"last_login"`
	LoyaltyPoints int64           `json:"loyaltyPoints" db:"loyalty_points"`
	TotalOrders   int             `json:"totalOrders" db:"total_orders"`
	TotalSpent    decimal.Decimal `json:"totalSpent" db:"total_spent"`
	Addresses     []Address       `json:"addresses" db:"addresses"`
	OrderIDs      []uuid.UUID     `json:"orders" db:"order_ids"`
}

// Address is a delivery address, optionally saved on the account.
type Address struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Line     string    `json:"address"`
	Landmark string    `json:"landmark,omitempty"`
	City     string    `json:"city"`
	State    string    `json:"state"`
	Pincode  string    `json:"pincode"`
}

// AddressInput is the delivery address form submitted at checkout.
type AddressInput struct {
	Address
	SaveAddress bool `json:"saveAddress"`
}

// OrderAccrual is the account mutation applied when an order completes.
type OrderAccrual struct {
	OrderID uuid.UUID
	Total   decimal.Decimal
	Points  int64
}

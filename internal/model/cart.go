package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a product and quantity held in a cart.
type CartLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Cart is the current basket of a browsing session.
// Totals are always derived from the lines and the live catalogue.
type Cart struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Phone         *string         `json:"-" db:"phone"`
	Lines         []CartLine      `json:"items" db:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"deliveryCharge" db:"delivery_fee"`
	Discount      decimal.Decimal `json:"discount" db:"discount"`
	Total         decimal.Decimal `json:"total" db:"total"`
	LastMutatedAt time.Time       `json:"lastUpdated" db:"last_mutated_at"`
}

// NewCart returns an empty cart in its initial state.
func NewCart(id uuid.UUID, now time.Time) *Cart {
	return &Cart{
		ID:            id,
		Lines:         []CartLine{},
		Subtotal:      decimal.Zero,
		DeliveryFee:   decimal.Zero,
		Discount:      decimal.Zero,
		Total:         decimal.Zero,
		LastMutatedAt: now,
	}
}

// Empty reports whether the cart holds no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the sum of all line quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Line returns the index of the line for productID, or -1.
func (c *Cart) Line(productID int64) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// CartLineRequest represents the payload for adding or changing a cart line.
type CartLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CartView is a cart with the catalogue details needed to display it.
type CartView struct {
	*Cart
	ItemCount int            `json:"itemCount"`
	Details   []CartLineView `json:"details"`
}

// CartLineView is a priced cart line.
type CartLineView struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

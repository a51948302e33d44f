package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer settles an order.
type PaymentMethod string

const (
	PaymentWhatsApp PaymentMethod = "whatsapp"
	PaymentOnline   PaymentMethod = "online"
	PaymentCOD      PaymentMethod = "cod"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentWhatsApp, PaymentOnline, PaymentCOD:
		return true
	}
	return false
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPaid      OrderStatus = "paid"
)

// InitialStatus returns the status a freshly placed order gets for m.
func (m PaymentMethod) InitialStatus() OrderStatus {
	if m == PaymentCOD {
		return OrderStatusConfirmed
	}
	return OrderStatusPaid
}

// Order represents a placed customer order. Everything except Status is
// fixed at creation.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Phone         string          `json:"phone" db:"phone"`
	Lines         []OrderLine     `json:"items" db:"-"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"deliveryCharge" db:"delivery_fee"`
	Discount      decimal.Decimal `json:"discount" db:"discount"`
	Total         decimal.Decimal `json:"total" db:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	PaymentRef    *string         `json:"paymentRef,omitempty" db:"payment_ref"`
	Status        OrderStatus     `json:"status" db:"status"`
	Address       *Address        `json:"address,omitempty" db:"address"`
	TrackingID    *string         `json:"trackingId,omitempty" db:"tracking_id"`
	CreatedAt     time.Time       `json:"date" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderLine is the snapshot of a cart line taken when the order is placed.
type OrderLine struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"price" db:"unit_price"`
}

// LineTotal returns UnitPrice × Quantity.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderRequest represents the request payload for placing an order.
type OrderRequest struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Address       *AddressInput `json:"address,omitempty"`
}

// OrderResponse represents the response payload for a placed order.
type OrderResponse struct {
	Order         *Order   `json:"order"`
	Invoice       *Invoice `json:"invoice,omitempty"`
	PointsEarned  int64    `json:"pointsEarned"`
	LoyaltyPoints int64    `json:"loyaltyPoints"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is derived from exactly one order and can be recomputed at any time.
// Tax is additive: GrandTotal = Total + Tax.
type Invoice struct {
	OrderID       uuid.UUID       `json:"id" db:"order_id"`
	Date          time.Time       `json:"date" db:"date"`
	Customer      string          `json:"customer" db:"customer"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	Items         []InvoiceItem   `json:"items" db:"items"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	Delivery      decimal.Decimal `json:"delivery" db:"delivery"`
	Discount      decimal.Decimal `json:"discount" db:"discount"`
	Total         decimal.Decimal `json:"total" db:"total"`
	TaxRate       decimal.Decimal `json:"taxRate" db:"tax_rate"`
	Tax           decimal.Decimal `json:"gst" db:"tax"`
	GrandTotal    decimal.Decimal `json:"grandTotal" db:"grand_total"`
}

// InvoiceItem is one dated line of an invoice.
type InvoiceItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

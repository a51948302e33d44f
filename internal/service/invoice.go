package service

import (
	"context"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/model"
)

const (
	fallbackItemName = "Product"
	fallbackCustomer = "Customer"
)

// InvoiceGenerator derives invoices from orders. It reads nothing but the
// order and the catalogue, so the same order always yields the same invoice.
type InvoiceGenerator struct {
	products catalog.Catalog
	pricing  Pricing
}

// NewInvoiceGenerator creates a new invoice generator.
func NewInvoiceGenerator(products catalog.Catalog, pricing Pricing) *InvoiceGenerator {
	return &InvoiceGenerator{products: products, pricing: pricing}
}

// Generate builds the invoice of order for customer.
func (g *InvoiceGenerator) Generate(ctx context.Context, order *model.Order, customer string) *model.Invoice {
	if customer == "" {
		customer = fallbackCustomer
	}

	items := make([]model.InvoiceItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		name := fallbackItemName
		if product, err := g.products.Get(ctx, line.ProductID); err == nil {
			name = product.Name
		}
		items = append(items, model.InvoiceItem{
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     line.LineTotal(),
		})
	}

	tax := g.pricing.TaxOn(order.Total)

	return &model.Invoice{
		OrderID:       order.ID,
		Date:          order.CreatedAt,
		Customer:      customer,
		PaymentMethod: order.PaymentMethod,
		Items:         items,
		Subtotal:      order.Subtotal,
		Delivery:      order.DeliveryFee,
		Discount:      order.Discount,
		Total:         order.Total,
		TaxRate:       g.pricing.TaxRate,
		Tax:           tax,
		GrandTotal:    order.Total.Add(tax),
	}
}

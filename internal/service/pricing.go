package service

import (
	"context"
	"fmt"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/config"
	"veggie-kart/internal/model"

	"github.com/shopspring/decimal"
)

// Pricing holds the store rules for delivery, loyalty and tax.
type Pricing struct {
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	WelcomeBonus          int64
	RupeesPerPoint        int64
	TaxRate               decimal.Decimal
}

// NewPricing converts the store configuration into pricing rules.
func NewPricing(cfg config.StoreConfig) Pricing {
	return Pricing{
		FreeDeliveryThreshold: decimal.NewFromInt(cfg.FreeDeliveryThreshold),
		DeliveryFee:           decimal.NewFromInt(cfg.DeliveryFee),
		WelcomeBonus:          cfg.WelcomeBonus,
		RupeesPerPoint:        cfg.RupeesPerPoint,
		TaxRate:               decimal.New(cfg.TaxRatePercent, -2),
	}
}

// DefaultPricing returns the standard store rules.
func DefaultPricing() Pricing {
	return NewPricing(config.StoreConfig{
		FreeDeliveryThreshold: 300,
		DeliveryFee:           40,
		WelcomeBonus:          100,
		RupeesPerPoint:        10,
		TaxRatePercent:        18,
	})
}

// DeliveryFor returns the delivery fee for a subtotal.
func (p Pricing) DeliveryFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return p.DeliveryFee
}

// PointsFor returns the loyalty points earned on total, floor(total / RupeesPerPoint).
func (p Pricing) PointsFor(total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}
	return total.Div(decimal.NewFromInt(p.RupeesPerPoint)).Floor().IntPart()
}

// TaxOn returns the tax on total rounded half away from zero to whole rupees.
func (p Pricing) TaxOn(total decimal.Decimal) decimal.Decimal {
	return total.Mul(p.TaxRate).Round(0)
}

// Recompute derives every cart total from its lines and live catalogue prices.
// Totals are never accumulated, so calling it twice is the same as once.
func (p Pricing) Recompute(ctx context.Context, products catalog.Catalog, cart *model.Cart) ([]model.CartLineView, error) {
	subtotal := decimal.Zero
	views := make([]model.CartLineView, 0, len(cart.Lines))

	for _, line := range cart.Lines {
		product, err := products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, err)
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		views = append(views, model.CartLineView{
			ProductID: line.ProductID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
	}

	cart.Subtotal = subtotal
	if cart.Empty() {
		cart.DeliveryFee = decimal.Zero
	} else {
		cart.DeliveryFee = p.DeliveryFor(subtotal)
	}
	cart.Discount = decimal.Zero
	cart.Total = cart.Subtotal.Add(cart.DeliveryFee).Sub(cart.Discount)

	return views, nil
}

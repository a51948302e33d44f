package service

import (
	"context"
	"testing"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/config"
	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricing_DeliveryFor(t *testing.T) {
	p := DefaultPricing()

	tests := []struct {
		subtotal int64
		want     int64
	}{
		{0, 40},
		{80, 40},
		{299, 40},
		{300, 0},
		{1000, 0},
	}

	for _, tt := range tests {
		assert.True(t, p.DeliveryFor(rupees(tt.subtotal)).Equal(rupees(tt.want)), "subtotal %d", tt.subtotal)
	}
}

func TestPricing_PointsFor(t *testing.T) {
	p := DefaultPricing()

	assert.Equal(t, int64(12), p.PointsFor(rupees(120)))
	assert.Equal(t, int64(0), p.PointsFor(rupees(9)))
	assert.Equal(t, int64(34), p.PointsFor(rupees(349)))
	assert.Equal(t, int64(0), p.PointsFor(rupees(0)))
	assert.Equal(t, int64(0), p.PointsFor(rupees(-50)))
}

func TestPricing_TaxOn(t *testing.T) {
	p := DefaultPricing()

	// 120 × 0.18 = 21.6
	assert.True(t, p.TaxOn(rupees(120)).Equal(rupees(22)))
	// 25 × 0.18 = 4.5, half away from zero
	assert.True(t, p.TaxOn(rupees(25)).Equal(rupees(5)))
	assert.True(t, p.TaxOn(rupees(0)).IsZero())
}

func TestNewPricing_FromConfig(t *testing.T) {
	p := NewPricing(config.StoreConfig{
		FreeDeliveryThreshold: 500,
		DeliveryFee:           25,
		WelcomeBonus:          50,
		RupeesPerPoint:        20,
		TaxRatePercent:        5,
	})

	assert.True(t, p.DeliveryFor(rupees(499)).Equal(rupees(25)))
	assert.True(t, p.DeliveryFor(rupees(500)).IsZero())
	assert.Equal(t, int64(6), p.PointsFor(rupees(120)))
	assert.Equal(t, "0.05", p.TaxRate.String())
}

func TestPricing_Recompute(t *testing.T) {
	p := DefaultPricing()
	ctx := context.Background()

	tests := []struct {
		name     string
		lines    []model.CartLine
		subtotal int64
		delivery int64
	}{
		{name: "Empty cart has no delivery", lines: nil, subtotal: 0, delivery: 0},
		{name: "Below threshold", lines: []model.CartLine{{ProductID: tomatoID, Quantity: 2}}, subtotal: 80, delivery: 40},
		{name: "Exactly threshold", lines: []model.CartLine{{ProductID: onionID, Quantity: 5}, {ProductID: potatoID, Quantity: 6}}, subtotal: 300, delivery: 0},
		{name: "Above threshold", lines: []model.CartLine{{ProductID: tomatoID, Quantity: 10}}, subtotal: 400, delivery: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := model.NewCart(uuid.New(), clock())
			cart.Lines = tt.lines

			details, err := p.Recompute(ctx, testCatalog(), cart)
			require.NoError(t, err)

			assert.Len(t, details, len(tt.lines))
			assert.True(t, cart.Subtotal.Equal(rupees(tt.subtotal)), "subtotal %s", cart.Subtotal)
			assert.True(t, cart.DeliveryFee.Equal(rupees(tt.delivery)), "delivery %s", cart.DeliveryFee)
			assert.True(t, cart.Discount.IsZero())
			assert.True(t, cart.Total.Equal(cart.Subtotal.Add(cart.DeliveryFee).Sub(cart.Discount)))

			// Recomputing never accumulates.
			_, err = p.Recompute(ctx, testCatalog(), cart)
			require.NoError(t, err)
			assert.True(t, cart.Subtotal.Equal(rupees(tt.subtotal)))
		})
	}
}

func TestPricing_Recompute_UnknownProduct(t *testing.T) {
	cart := model.NewCart(uuid.New(), clock())
	cart.Lines = []model.CartLine{{ProductID: 404, Quantity: 1}}

	_, err := DefaultPricing().Recompute(context.Background(), catalog.New(nil), cart)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

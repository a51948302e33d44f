// Package payment settles online payments. Only a simulated gateway exists;
// it approves every valid charge after a fixed delay.
package payment

import (
	"context"
	"fmt"
	"time"

	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ChargeRequest is an amount to collect for an order.
type ChargeRequest struct {
	OrderID uuid.UUID
	Phone   string
	Amount  decimal.Decimal
}

// Receipt is the provider's answer to an approved charge.
type Receipt struct {
	Reference  string
	Status     string
	ApprovedAt time.Time
}

// Gateway collects online payments.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

// SimulatedGateway approves charges after delay without contacting any provider.
type SimulatedGateway struct {
	delay  time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewSimulatedGateway creates a gateway that waits delay before approving.
func NewSimulatedGateway(delay time.Duration, logger zerolog.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		delay:  delay,
		now:    time.Now,
		logger: logger.With().Str("component", "payment-gateway").Logger(),
	}
}

// Charge waits for the simulated processing time and approves the payment.
// Non-positive amounts are declined.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	g.logger.Debug().
		Str("order_id", req.OrderID.String()).
		Str("amount", req.Amount.String()).
		Msg("simulated charge started")

	if !req.Amount.IsPositive() {
		g.logger.Warn().
			Str("order_id", req.OrderID.String()).
			Str("amount", req.Amount.String()).
			Msg("charge declined")
		return nil, model.ErrPaymentDeclined
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("payment interrupted: %w", ctx.Err())
		}
	}

	receipt := &Receipt{
		Reference:  "PAY-" + uuid.NewString(),
		Status:     "approved",
		ApprovedAt: g.now().UTC(),
	}

	g.logger.Info().
		Str("order_id", req.OrderID.String()).
		Str("reference", receipt.Reference).
		Msg("simulated charge approved")

	return receipt, nil
}

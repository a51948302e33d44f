package repository

import (
	"context"
	"fmt"

	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// invoiceRepository implements InvoiceRepository using PostgreSQL. The
// invoice is stored as a JSON document next to its grand total.
type invoiceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL-backed invoice repository.
func NewInvoiceRepository(pool *pgxpool.Pool, logger zerolog.Logger) InvoiceRepository {
	return &invoiceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "invoice").Logger(),
	}
}

// Create stores the invoice of a committed order.
func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (order_id, document, grand_total, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, invoice.OrderID, invoice, numeric(invoice.GrandTotal), invoice.Date)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", invoice.OrderID.String()).Msg("failed to create invoice")
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	r.logger.Debug().Str("order_id", invoice.OrderID.String()).Msg("invoice created")

	return nil
}

// GetByOrderID returns the stored invoice for an order.
func (r *invoiceRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.pool.QueryRow(ctx, `SELECT document FROM invoices WHERE order_id = $1`, orderID).Scan(&invoice)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query invoice")
		return nil, fmt.Errorf("failed to query invoice: %w", err)
	}

	return &invoice, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

const cartColumns = `id, phone, lines, subtotal, delivery_fee, discount, total, last_mutated_at`

// Get returns the cart with id.
func (r *cartRepository) Get(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE id = $1`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&cart.ID,
		&cart.Phone,
		&cart.Lines,
		&cart.Subtotal,
		&cart.DeliveryFee,
		&cart.Discount,
		&cart.Total,
		&cart.LastMutatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Str("cart_id", id.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = []model.CartLine{}
	}

	return &cart, nil
}

// Save inserts or replaces the cart.
func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (` + cartColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET phone = EXCLUDED.phone,
		    lines = EXCLUDED.lines,
		    subtotal = EXCLUDED.subtotal,
		    delivery_fee = EXCLUDED.delivery_fee,
		    discount = EXCLUDED.discount,
		    total = EXCLUDED.total,
		    last_mutated_at = EXCLUDED.last_mutated_at
	`

	lines := cart.Lines
	if lines == nil {
		lines = []model.CartLine{}
	}

	_, err := r.pool.Exec(ctx, query,
		cart.ID, cart.Phone, lines,
		numeric(cart.Subtotal), numeric(cart.DeliveryFee), numeric(cart.Discount), numeric(cart.Total),
		cart.LastMutatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Int("lines", len(lines)).
		Msg("cart saved")

	return nil
}

// Clear resets the cart to its empty state.
func (r *cartRepository) Clear(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE carts
		SET lines = '[]'::jsonb,
		    subtotal = 0,
		    delivery_fee = 0,
		    discount = 0,
		    total = 0,
		    last_mutated_at = $2
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id, at); err != nil {
		r.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", id.String()).Msg("cart cleared")

	return nil
}

// ListStale returns non-empty carts tagged with a phone that have not been mutated since before.
func (r *cartRepository) ListStale(ctx context.Context, before time.Time) ([]model.Cart, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM carts
		WHERE phone IS NOT NULL
		  AND jsonb_array_length(lines) > 0
		  AND last_mutated_at < $1
		ORDER BY last_mutated_at
	`

	rows, err := r.pool.Query(ctx, query, before)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query stale carts")
		return nil, fmt.Errorf("failed to query stale carts: %w", err)
	}
	defer rows.Close()

	carts := make([]model.Cart, 0)
	for rows.Next() {
		var cart model.Cart
		err := rows.Scan(
			&cart.ID,
			&cart.Phone,
			&cart.Lines,
			&cart.Subtotal,
			&cart.DeliveryFee,
			&cart.Discount,
			&cart.Total,
			&cart.LastMutatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart row")
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}
		carts = append(carts, cart)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart rows")
		return nil, fmt.Errorf("error iterating carts: %w", err)
	}

	return carts, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements UserRepository using PostgreSQL.
// Mutators are single UPDATE statements so concurrent field updates on the
// same account are never lost.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *userRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// FindByPhone returns the account for phone including its order history.
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.phone, u.joined_at, u.last_login,
		       u.loyalty_points, u.total_orders, u.total_spent, u.addresses,
		       COALESCE(
		           (SELECT array_agg(o.id::text ORDER BY o.created_at) FROM orders o WHERE o.phone = u.phone),
		           '{}'
		       )
		FROM users u
		WHERE u.phone = $1
	`

	var (
		user     model.User
		orderIDs []string
	)
	err := r.pool.QueryRow(ctx, query, phone).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.JoinedAt,
		&user.LastLogin,
		&user.LoyaltyPoints,
		&user.TotalOrders,
		&user.TotalSpent,
		&user.Addresses,
		&orderIDs,
	)
	if err != nil {
		if isNoRows(err) {
			r.logger.Debug().Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.OrderIDs = make([]uuid.UUID, 0, len(orderIDs))
	for _, id := range orderIDs {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid order id %q: %w", id, err)
		}
		user.OrderIDs = append(user.OrderIDs, parsed)
	}
	if user.Addresses == nil {
		user.Addresses = []model.Address{}
	}

	return &user, nil
}

// Create inserts a new account.
func (r *userRepository) Create(ctx context.Context, tx pgx.Tx, user *model.User) error {
	query := `
		INSERT INTO users (id, phone, name, email, joined_at, last_login, loyalty_points, total_orders, total_spent, addresses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	addresses := user.Addresses
	if addresses == nil {
		addresses = []model.Address{}
	}

	_, err := tx.Exec(ctx, query,
		user.ID, user.Phone, user.Name, user.Email, user.JoinedAt, user.LastLogin,
		user.LoyaltyPoints, user.TotalOrders, numeric(user.TotalSpent), addresses)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn().Msg("account already exists")
			return model.ErrAccountAlreadyExists
		}
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug().Str("user_id", user.ID.String()).Msg("user created successfully")

	return nil
}

// TouchLastLogin records a successful login.
func (r *userRepository) TouchLastLogin(ctx context.Context, tx pgx.Tx, phone string, at time.Time) error {
	tag, err := tx.Exec(ctx, `UPDATE users SET last_login = $2 WHERE phone = $1`, phone, at)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to update last login")
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

// AddAddress appends addr to the saved addresses of the account.
func (r *userRepository) AddAddress(ctx context.Context, tx pgx.Tx, phone string, addr model.Address) error {
	query := `
		UPDATE users
		SET addresses = addresses || jsonb_build_array($2::jsonb)
		WHERE phone = $1
	`

	tag, err := tx.Exec(ctx, query, phone, addr)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to add address")
		return fmt.Errorf("failed to add address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}

	r.logger.Debug().Str("address_id", addr.ID.String()).Msg("address saved")

	return nil
}

// AppendOrder applies the totals and loyalty accrual of a completed order.
func (r *userRepository) AppendOrder(ctx context.Context, tx pgx.Tx, phone string, accrual model.OrderAccrual) (int64, error) {
	query := `
		UPDATE users
		SET total_orders = total_orders + 1,
		    total_spent = total_spent + $2,
		    loyalty_points = loyalty_points + $3
		WHERE phone = $1
		RETURNING loyalty_points
	`

	var balance int64
	err := tx.QueryRow(ctx, query, phone, numeric(accrual.Total), accrual.Points).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return 0, model.ErrAccountNotFound
		}
		r.logger.Error().
			Err(err).
			Str("order_id", accrual.OrderID.String()).
			Msg("failed to append order to user")
		return 0, fmt.Errorf("failed to append order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", accrual.OrderID.String()).
		Int64("points", accrual.Points).
		Int64("balance", balance).
		Msg("order appended to user")

	return balance, nil
}

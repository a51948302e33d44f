package repository

import (
	"context"
	"time"

	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Lookups return (nil, nil) when the record does not exist.

// ChallengeRepository persists pending OTP challenges, one per (purpose, phone).
type ChallengeRepository interface {
	// Save stores c, replacing any challenge for the same purpose and phone.
	Save(ctx context.Context, c *model.Challenge) error

	// Get returns the pending challenge for purpose and phone.
	Get(ctx context.Context, purpose model.Purpose, phone string) (*model.Challenge, error)

	// Consume deletes the challenge issued at issuedAt within tx.
	// It reports false when that challenge is no longer stored.
	Consume(ctx context.Context, tx pgx.Tx, purpose model.Purpose, phone string, issuedAt time.Time) (bool, error)

	// Expire purges the code of the challenge issued at issuedAt, leaving an
	// expired record. A newer challenge for the same pair is left alone.
	Expire(ctx context.Context, purpose model.Purpose, phone string, issuedAt time.Time) (bool, error)
}

// UserRepository is the customer directory keyed by phone.
type UserRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// FindByPhone returns the account for phone including its order history.
	FindByPhone(ctx context.Context, phone string) (*model.User, error)

	// Create inserts a new account. It returns model.ErrAccountAlreadyExists
	// when the phone is taken.
	Create(ctx context.Context, tx pgx.Tx, user *model.User) error

	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, tx pgx.Tx, phone string, at time.Time) error

	// AddAddress appends addr to the saved addresses of the account.
	AddAddress(ctx context.Context, tx pgx.Tx, phone string, addr model.Address) error

	// AppendOrder applies the totals and loyalty accrual of a completed order
	// and returns the new loyalty balance.
	AppendOrder(ctx context.Context, tx pgx.Tx, phone string, accrual model.OrderAccrual) (int64, error)
}

// SessionRepository stores authenticated sessions.
type SessionRepository interface {
	// Create inserts a session within tx.
	Create(ctx context.Context, tx pgx.Tx, session *model.Session) error

	// Get returns the session with id.
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartRepository stores one cart per browsing session.
type CartRepository interface {
	// Get returns the cart with id.
	Get(ctx context.Context, id uuid.UUID) (*model.Cart, error)

	// Save inserts or replaces the cart.
	Save(ctx context.Context, cart *model.Cart) error

	// Clear resets the cart to its empty state. It is safe to repeat.
	Clear(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListStale returns non-empty carts tagged with a phone that have not been
	// mutated since before.
	ListStale(ctx context.Context, before time.Time) ([]model.Cart, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderLines inserts the line snapshot of an order within the provided transaction.
	CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// GetByID retrieves an order by its ID along with its lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByPhone returns the orders of phone, newest first, with their lines.
	ListByPhone(ctx context.Context, phone string) ([]model.Order, error)
}

// InvoiceRepository is the append-only invoice log.
type InvoiceRepository interface {
	// Create stores the invoice of a committed order. A second invoice for the
	// same order is ignored.
	Create(ctx context.Context, invoice *model.Invoice) error

	// GetByOrderID returns the stored invoice for an order.
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error)
}

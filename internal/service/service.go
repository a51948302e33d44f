package service

import (
	"context"
	"time"

	"veggie-kart/internal/model"

	"github.com/google/uuid"
)

// A nil *model.Session means the caller is not logged in.

// ProductService defines read operations on the catalogue.
type ProductService interface {
	// List returns products, optionally filtered by category, with pagination.
	List(ctx context.Context, category string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// AuthService runs the one-time-code login and signup flows.
type AuthService interface {
	// Issue sends a fresh code for the purpose and phone, replacing any pending one.
	Issue(ctx context.Context, req *model.IssueRequest) (*model.IssueResponse, error)

	// Verify checks a submitted code and opens a session on success.
	Verify(ctx context.Context, req *model.VerifyRequest) (*model.AuthResponse, error)

	// Countdown returns how long the pending code stays valid, zero when none is.
	Countdown(ctx context.Context, purpose model.Purpose, phone string) (time.Duration, error)

	// Logout destroys the session.
	Logout(ctx context.Context, session *model.Session) error
}

// SessionService mints and checks session tokens.
type SessionService interface {
	// Token signs a bearer token for session.
	Token(session *model.Session) (string, time.Time, error)

	// Authenticate resolves a bearer token to a live session.
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

// UserService exposes the account of the logged in customer.
type UserService interface {
	// Profile returns the account of the session holder.
	Profile(ctx context.Context, session *model.Session) (*model.User, error)
}

// CartService maintains a cart with live pricing.
type CartService interface {
	// Get returns the cart with id, or a fresh empty cart when id is unknown.
	Get(ctx context.Context, cartID uuid.UUID, session *model.Session) (*model.CartView, error)

	// AddLine adds qty of a product, merging with an existing line.
	AddLine(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64, qty int) (*model.CartView, error)

	// RemoveLine drops the line for a product. Missing lines are not an error.
	RemoveLine(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64) (*model.CartView, error)

	// SetQuantity replaces the quantity of a line; qty < 1 removes it.
	SetQuantity(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64, qty int) (*model.CartView, error)

	// WhatsAppLink builds the wa.me order request for the cart.
	WhatsAppLink(ctx context.Context, cartID uuid.UUID, session *model.Session) (string, error)

	// Clear empties the cart. Repeating it is harmless.
	Clear(ctx context.Context, cartID uuid.UUID) error

	// SweepAbandoned sends reminders for stale carts and returns how many were sent.
	SweepAbandoned(ctx context.Context) (int, error)
}

// OrderService places and reads orders.
type OrderService interface {
	// PlaceOrder turns the cart into an order for the session holder.
	PlaceOrder(ctx context.Context, cartID uuid.UUID, session *model.Session, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID returns an order owned by the session holder.
	GetByID(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Order, error)

	// List returns the order history of the session holder, newest first.
	List(ctx context.Context, session *model.Session) ([]model.Order, error)

	// Invoice returns the invoice of an order owned by the session holder.
	Invoice(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Invoice, error)
}

// clock returns the current instant at the precision the store keeps.
func clock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

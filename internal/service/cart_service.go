package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/model"
	"veggie-kart/internal/notify"
	"veggie-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	carts          repository.CartRepository
	users          repository.UserRepository
	products       catalog.Catalog
	sender         notify.Sender
	pricing        Pricing
	abandonedAfter time.Duration
	shopPhone      string
	logger         zerolog.Logger
	now            func() time.Time

	mu sync.Mutex
	// reminded maps a cart to the LastMutatedAt it was last reminded about.
	reminded map[uuid.UUID]time.Time
}

// NewCartService creates a new cart service.
func NewCartService(
	carts repository.CartRepository,
	users repository.UserRepository,
	products catalog.Catalog,
	sender notify.Sender,
	pricing Pricing,
	abandonedAfter time.Duration,
	shopPhone string,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		carts:          carts,
		users:          users,
		products:       products,
		sender:         sender,
		pricing:        pricing,
		abandonedAfter: abandonedAfter,
		shopPhone:      shopPhone,
		logger:         logger.With().Str("service", "cart").Logger(),
		now:            clock,
		reminded:       make(map[uuid.UUID]time.Time),
	}
}

// Get returns the cart with id, or a fresh empty cart when id is unknown.
func (s *cartService) Get(ctx context.Context, cartID uuid.UUID, session *model.Session) (*model.CartView, error) {
	cart, created, err := s.load(ctx, cartID, session)
	if err != nil {
		return nil, err
	}
	return s.current(ctx, cart, created)
}

// current prices cart without touching LastMutatedAt. A new cart is stored so
// its id can be used on the next request.
func (s *cartService) current(ctx context.Context, cart *model.Cart, created bool) (*model.CartView, error) {
	details, err := s.pricing.Recompute(ctx, s.products, cart)
	if err != nil {
		return nil, fmt.Errorf("failed to price cart: %w", err)
	}

	if created {
		if err := s.carts.Save(ctx, cart); err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
	}

	return view(cart, details), nil
}

// AddLine adds qty of a product, merging with an existing line.
func (s *cartService) AddLine(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64, qty int) (*model.CartView, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, model.ErrInvalidQuantity
	}

	return s.mutate(ctx, cartID, session, func(cart *model.Cart) error {
		product, err := s.products.Get(ctx, productID)
		if err != nil {
			return err
		}

		merged := qty
		idx := cart.Line(productID)
		if idx >= 0 {
			merged += cart.Lines[idx].Quantity
		}
		if merged > product.Stock {
			s.logger.Warn().
				Int64("product_id", productID).
				Int("requested", merged).
				Int("stock", product.Stock).
				Msg("insufficient stock")
			return model.ErrOutOfStock
		}

		if idx >= 0 {
			cart.Lines[idx].Quantity = merged
		} else {
			cart.Lines = append(cart.Lines, model.CartLine{ProductID: productID, Quantity: qty})
		}
		return nil
	})
}

// RemoveLine drops the line for a product.
func (s *cartService) RemoveLine(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64) (*model.CartView, error) {
	cart, created, err := s.load(ctx, cartID, session)
	if err != nil {
		return nil, err
	}
	if cart.Line(productID) < 0 {
		return s.current(ctx, cart, created)
	}

	return s.mutate(ctx, cart.ID, session, func(cart *model.Cart) error {
		removeLine(cart, productID)
		return nil
	})
}

// SetQuantity replaces the quantity of a line; qty < 1 removes it. A product
// without a line leaves the cart unchanged.
func (s *cartService) SetQuantity(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64, qty int) (*model.CartView, error) {
	if qty < 1 {
		return s.RemoveLine(ctx, cartID, session, productID)
	}

	cart, created, err := s.load(ctx, cartID, session)
	if err != nil {
		return nil, err
	}
	if cart.Line(productID) < 0 {
		return s.current(ctx, cart, created)
	}

	return s.mutate(ctx, cart.ID, session, func(cart *model.Cart) error {
		idx := cart.Line(productID)
		if idx < 0 {
			return nil
		}

		product, err := s.products.Get(ctx, productID)
		if err != nil {
			return err
		}
		if qty > product.Stock {
			return model.ErrOutOfStock
		}

		cart.Lines[idx].Quantity = qty
		return nil
	})
}

// WhatsAppLink builds the wa.me order request for the cart.
func (s *cartService) WhatsAppLink(ctx context.Context, cartID uuid.UUID, session *model.Session) (string, error) {
	cartView, err := s.Get(ctx, cartID, session)
	if err != nil {
		return "", err
	}
	if cartView.Empty() {
		return "", model.ErrEmptyCart
	}

	req := notify.OrderRequest{
		Lines:       cartView.Details,
		Subtotal:    cartView.Subtotal,
		DeliveryFee: cartView.DeliveryFee,
		Total:       cartView.Total,
	}
	if session != nil {
		req.Phone = session.Phone
		user, err := s.users.FindByPhone(ctx, session.Phone)
		if err != nil {
			return "", fmt.Errorf("failed to load customer: %w", err)
		}
		if user != nil {
			req.CustomerName = user.Name
		}
	}

	return notify.WhatsAppLink(s.shopPhone, req.Text()), nil
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	if err := s.carts.Clear(ctx, cartID, s.now()); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.forget(cartID)
	return nil
}

// SweepAbandoned sends reminders for stale carts.
func (s *cartService) SweepAbandoned(ctx context.Context) (int, error) {
	stale, err := s.carts.ListStale(ctx, s.now().Add(-s.abandonedAfter))
	if err != nil {
		return 0, fmt.Errorf("failed to find abandoned carts: %w", err)
	}

	sent := 0
	for i := range stale {
		if s.remind(ctx, &stale[i]) {
			sent++
		}
	}

	s.logger.Debug().Int("stale", len(stale)).Int("reminded", sent).Msg("abandoned cart sweep finished")

	return sent, nil
}

// mutate loads the cart, applies fn, recomputes totals and saves. When fn
// fails nothing is written.
func (s *cartService) mutate(ctx context.Context, cartID uuid.UUID, session *model.Session, fn func(*model.Cart) error) (*model.CartView, error) {
	cart, _, err := s.load(ctx, cartID, session)
	if err != nil {
		return nil, err
	}

	// Opportunistic check against the state the customer left behind.
	if s.abandoned(cart, s.now()) {
		s.remind(ctx, cart)
	}

	if err := fn(cart); err != nil {
		return nil, err
	}

	details, err := s.pricing.Recompute(ctx, s.products, cart)
	if err != nil {
		return nil, fmt.Errorf("failed to price cart: %w", err)
	}
	cart.LastMutatedAt = s.now()

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	s.forget(cart.ID)

	s.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Int("lines", len(cart.Lines)).
		Str("total", cart.Total.String()).
		Msg("cart updated")

	return view(cart, details), nil
}

// load returns the stored cart or a new one. The cart is tagged with the
// session holder when there is one.
func (s *cartService) load(ctx context.Context, cartID uuid.UUID, session *model.Session) (*model.Cart, bool, error) {
	var (
		cart *model.Cart
		err  error
	)
	if cartID != uuid.Nil {
		cart, err = s.carts.Get(ctx, cartID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load cart: %w", err)
		}
	}

	created := cart == nil
	if created {
		cart = model.NewCart(uuid.New(), s.now())
	}
	if session != nil {
		phone := session.Phone
		cart.Phone = &phone
	}

	return cart, created, nil
}

func (s *cartService) abandoned(cart *model.Cart, now time.Time) bool {
	return !cart.Empty() && cart.Phone != nil && now.Sub(cart.LastMutatedAt) > s.abandonedAfter
}

// remind sends one reminder per (cart, LastMutatedAt).
func (s *cartService) remind(ctx context.Context, cart *model.Cart) bool {
	if cart.Phone == nil {
		return false
	}

	s.mu.Lock()
	if at, ok := s.reminded[cart.ID]; ok && at.Equal(cart.LastMutatedAt) {
		s.mu.Unlock()
		return false
	}
	s.reminded[cart.ID] = cart.LastMutatedAt
	s.mu.Unlock()

	text := notify.AbandonedCartReminder(cart.ItemCount(), cart.Total)
	if err := s.sender.Send(ctx, *cart.Phone, text); err != nil {
		s.logger.Warn().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to send cart reminder")
		return false
	}

	s.logger.Info().Str("cart_id", cart.ID.String()).Msg("abandoned cart reminder sent")
	return true
}

func (s *cartService) forget(cartID uuid.UUID) {
	s.mu.Lock()
	delete(s.reminded, cartID)
	s.mu.Unlock()
}

func removeLine(cart *model.Cart, productID int64) {
	idx := cart.Line(productID)
	if idx < 0 {
		return
	}
	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
}

func view(cart *model.Cart, details []model.CartLineView) *model.CartView {
	return &model.CartView{
		Cart:      cart,
		ItemCount: cart.ItemCount(),
		Details:   details,
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/model"
	"veggie-kart/internal/notify"
	"veggie-kart/internal/payment"
	"veggie-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultAddressType = "Home"

// orderService implements OrderService.
type orderService struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	invoices repository.InvoiceRepository
	carts    repository.CartRepository
	products catalog.Catalog
	gateway  payment.Gateway
	invoicer *InvoiceGenerator
	sender   notify.Sender
	pricing  Pricing
	logger   zerolog.Logger
	now      func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	invoices repository.InvoiceRepository,
	carts repository.CartRepository,
	products catalog.Catalog,
	gateway payment.Gateway,
	sender notify.Sender,
	pricing Pricing,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orders:   orders,
		users:    users,
		invoices: invoices,
		carts:    carts,
		products: products,
		gateway:  gateway,
		invoicer: NewInvoiceGenerator(products, pricing),
		sender:   sender,
		pricing:  pricing,
		logger:   logger.With().Str("service", "order").Logger(),
		now:      clock,
	}
}

// PlaceOrder turns the cart into an order for the session holder.
//
// The order, its lines, the account accrual and the saved address are written
// in one transaction. The invoice log and the cart are updated only after that
// commits, and their failures never undo the order.
func (s *orderService) PlaceOrder(ctx context.Context, cartID uuid.UUID, session *model.Session, req *model.OrderRequest) (resp *model.OrderResponse, err error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || cart.Empty() {
		return nil, model.ErrEmptyCart
	}
	if session == nil {
		return nil, model.ErrNotAuthenticated
	}
	if req == nil || !req.PaymentMethod.Valid() {
		s.logger.Warn().Msg("invalid payment method")
		return nil, model.ErrInvalidPaymentMethod
	}

	user, err := s.users.FindByPhone(ctx, session.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if user == nil {
		return nil, model.ErrAccountNotFound
	}

	order, err := s.snapshot(ctx, cart, session.Phone, req)
	if err != nil {
		return nil, err
	}

	if req.PaymentMethod == model.PaymentOnline {
		receipt, chargeErr := s.gateway.Charge(ctx, payment.ChargeRequest{
			OrderID: order.ID,
			Phone:   order.Phone,
			Amount:  order.Total,
		})
		if chargeErr != nil {
			s.logger.Warn().Err(chargeErr).Str("order_id", order.ID.String()).Msg("payment failed")
			return nil, chargeErr
		}
		ref := receipt.Reference
		order.PaymentRef = &ref

		defer func() {
			if err != nil {
				s.logger.Error().
					Err(err).
					Str("order_id", order.ID.String()).
					Str("payment_ref", ref).
					Msg("payment captured but order not saved")
			}
		}()
	}

	points := s.pricing.PointsFor(order.Total)
	invoice := s.invoicer.Generate(ctx, order, user.Name)

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orders.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orders.CreateOrderLines(ctx, tx, order.Lines); err != nil {
		return nil, fmt.Errorf("failed to create order lines: %w", err)
	}

	balance, err := s.users.AppendOrder(ctx, tx, order.Phone, model.OrderAccrual{
		OrderID: order.ID,
		Total:   order.Total,
		Points:  points,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if req.Address != nil && req.Address.SaveAddress {
		if err = s.users.AddAddress(ctx, tx, order.Phone, *order.Address); err != nil {
			return nil, fmt.Errorf("failed to save address: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The order is durable from here on; later failures are only logged.
	if invErr := s.invoices.Create(ctx, invoice); invErr != nil {
		s.logger.Error().Err(invErr).Str("order_id", order.ID.String()).Msg("failed to record invoice after order")
	}

	if clearErr := s.carts.Clear(ctx, cartID, s.now()); clearErr != nil {
		s.logger.Error().Err(clearErr).Str("cart_id", cartID.String()).Msg("failed to clear cart after order")
	}

	if sendErr := s.sender.Send(ctx, order.Phone, notify.OrderConfirmation(order)); sendErr != nil {
		s.logger.Warn().Err(sendErr).Str("order_id", order.ID.String()).Msg("failed to send order confirmation")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_method", string(order.PaymentMethod)).
		Str("total", order.Total.String()).
		Int64("points_earned", points).
		Msg("order placed")

	return &model.OrderResponse{
		Order:         order,
		Invoice:       invoice,
		PointsEarned:  points,
		LoyaltyPoints: balance,
	}, nil
}

// snapshot copies the cart into a new order at live catalogue prices.
func (s *orderService) snapshot(ctx context.Context, cart *model.Cart, phone string, req *model.OrderRequest) (*model.Order, error) {
	details, err := s.pricing.Recompute(ctx, s.products, cart)
	if err != nil {
		return nil, fmt.Errorf("failed to price cart: %w", err)
	}

	now := s.now()
	order := &model.Order{
		ID:            uuid.New(),
		Phone:         phone,
		Lines:         make([]model.OrderLine, 0, len(details)),
		Subtotal:      cart.Subtotal,
		DeliveryFee:   cart.DeliveryFee,
		Discount:      cart.Discount,
		Total:         cart.Total,
		PaymentMethod: req.PaymentMethod,
		Status:        req.PaymentMethod.InitialStatus(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, d := range details {
		order.Lines = append(order.Lines, model.OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		})
	}

	if req.PaymentMethod != model.PaymentCOD {
		tracking := trackingID(order.ID)
		order.TrackingID = &tracking
	}

	if req.Address != nil {
		addr := req.Address.Address
		addr.ID = uuid.New()
		if addr.Type == "" {
			addr.Type = defaultAddressType
		}
		order.Address = &addr
	}

	return order, nil
}

// GetByID returns an order owned by the session holder.
func (s *orderService) GetByID(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Order, error) {
	if session == nil {
		return nil, model.ErrNotAuthenticated
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.Phone != session.Phone {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// List returns the order history of the session holder, newest first.
func (s *orderService) List(ctx context.Context, session *model.Session) ([]model.Order, error) {
	if session == nil {
		return nil, model.ErrNotAuthenticated
	}

	orders, err := s.orders.ListByPhone(ctx, session.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// Invoice returns the stored invoice of the order, deriving it again when
// none was stored.
func (s *orderService) Invoice(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Invoice, error) {
	order, err := s.GetByID(ctx, session, id)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoices.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice != nil {
		return invoice, nil
	}

	user, err := s.users.FindByPhone(ctx, order.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	customer := ""
	if user != nil {
		customer = user.Name
	}

	return s.invoicer.Generate(ctx, order, customer), nil
}

// trackingID derives a short courier reference from the order id.
func trackingID(id uuid.UUID) string {
	return "TRK" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:10])
}

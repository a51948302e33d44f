package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"veggie-kart/internal/middleware"
	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Issue(ctx context.Context, req *model.IssueRequest) (*model.IssueResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IssueResponse), args.Error(1)
}

func (m *MockAuthService) Verify(ctx context.Context, req *model.VerifyRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Countdown(ctx context.Context, purpose model.Purpose, phone string) (time.Duration, error) {
	args := m.Called(ctx, purpose, phone)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Profile(ctx context.Context, session *model.Session) (*model.User, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*model.CartView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, cartID uuid.UUID, session *model.Session) (*model.CartView, error) {
	return m.cart(m.Called(ctx, cartID, session))
}

func (m *MockCartService) AddLine(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64, qty int) (*model.CartView, error) {
	return m.cart(m.Called(ctx, cartID, session, productID, qty))
}

func (m *MockCartService) RemoveLine(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64) (*model.CartView, error) {
	return m.cart(m.Called(ctx, cartID, session, productID))
}

func (m *MockCartService) SetQuantity(ctx context.Context, cartID uuid.UUID, session *model.Session, productID int64, qty int) (*model.CartView, error) {
	return m.cart(m.Called(ctx, cartID, session, productID, qty))
}

func (m *MockCartService) WhatsAppLink(ctx context.Context, cartID uuid.UUID, session *model.Session) (string, error) {
	args := m.Called(ctx, cartID, session)
	return args.String(0), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockCartService) SweepAbandoned(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, cartID uuid.UUID, session *model.Session, req *model.OrderRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, cartID, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, session, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, session *model.Session) ([]model.Order, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) Invoice(ctx context.Context, session *model.Session, id uuid.UUID) (*model.Invoice, error) {
	args := m.Called(ctx, session, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

const testPhone = "9876543210"

func testSession() *model.Session {
	return &model.Session{ID: uuid.New(), Phone: testPhone, AuthenticatedAt: time.Now()}
}

// newRequest builds a request, attaching session when it is not nil.
func newRequest(method, target, body string, session *model.Session) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), session))
	}
	return req
}

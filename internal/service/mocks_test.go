package service

import (
	"context"
	"sync"
	"time"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/model"
	"veggie-kart/internal/payment"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, tx pgx.Tx, user *model.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, tx pgx.Tx, phone string, at time.Time) error {
	args := m.Called(ctx, tx, phone, at)
	return args.Error(0)
}

func (m *MockUserRepository) AddAddress(ctx context.Context, tx pgx.Tx, phone string, addr model.Address) error {
	args := m.Called(ctx, tx, phone, addr)
	return args.Error(0)
}

func (m *MockUserRepository) AppendOrder(ctx context.Context, tx pgx.Tx, phone string, accrual model.OrderAccrual) (int64, error) {
	args := m.Called(ctx, tx, phone, accrual)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, tx pgx.Tx, session *model.Session) error {
	args := m.Called(ctx, tx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	args := m.Called(ctx, tx, lines)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByPhone(ctx context.Context, phone string) ([]model.Order, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository.
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// memChallenges is an in-memory ChallengeRepository with the same
// issued-at guarded semantics as the Postgres one.
type memChallenges struct {
	mu    sync.Mutex
	items map[string]model.Challenge
}

func newMemChallenges() *memChallenges {
	return &memChallenges{items: make(map[string]model.Challenge)}
}

func challengeKey(purpose model.Purpose, phone string) string {
	return string(purpose) + ":" + phone
}

func (m *memChallenges) Save(_ context.Context, c *model.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[challengeKey(c.Purpose, c.Phone)] = *c
	return nil
}

func (m *memChallenges) Get(_ context.Context, purpose model.Purpose, phone string) (*model.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[challengeKey(purpose, phone)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memChallenges) Consume(_ context.Context, _ pgx.Tx, purpose model.Purpose, phone string, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := challengeKey(purpose, phone)
	c, ok := m.items[key]
	if !ok || !c.IssuedAt.Equal(issuedAt) || c.Purged() {
		return false, nil
	}
	delete(m.items, key)
	return true, nil
}

func (m *memChallenges) Expire(_ context.Context, purpose model.Purpose, phone string, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := challengeKey(purpose, phone)
	c, ok := m.items[key]
	if !ok || !c.IssuedAt.Equal(issuedAt) || c.Purged() {
		return false, nil
	}
	c.CodeHash = ""
	m.items[key] = c
	return true, nil
}

// memCarts is an in-memory CartRepository.
type memCarts struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.Cart
	saves int
}

func newMemCarts() *memCarts {
	return &memCarts{items: make(map[uuid.UUID]model.Cart)}
}

func copyCart(c model.Cart) model.Cart {
	c.Lines = append([]model.CartLine{}, c.Lines...)
	if c.Phone != nil {
		phone := *c.Phone
		c.Phone = &phone
	}
	return c
}

func (m *memCarts) Get(_ context.Context, id uuid.UUID) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	out := copyCart(c)
	return &out, nil
}

func (m *memCarts) Save(_ context.Context, cart *model.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[cart.ID] = copyCart(*cart)
	m.saves++
	return nil
}

func (m *memCarts) Clear(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil
	}
	cleared := model.NewCart(id, at)
	cleared.Phone = c.Phone
	m.items[id] = *cleared
	return nil
}

func (m *memCarts) ListStale(_ context.Context, before time.Time) ([]model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Cart
	for _, c := range m.items {
		if c.Phone != nil && !c.Empty() && c.LastMutatedAt.Before(before) {
			out = append(out, copyCart(c))
		}
	}
	return out, nil
}

func (m *memCarts) put(c *model.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = copyCart(*c)
}

type sentMessage struct {
	Phone string
	Text  string
}

// recordingSender captures outbound messages.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, phone, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{Phone: phone, Text: text})
	return nil
}

func (s *recordingSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage{}, s.sent...)
}

// stubGateway returns a fixed answer for every charge.
type stubGateway struct {
	mu       sync.Mutex
	requests []payment.ChargeRequest
	err      error
}

func (g *stubGateway) Charge(_ context.Context, req payment.ChargeRequest) (*payment.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &payment.Receipt{Reference: "PAY-test", Status: "approved", ApprovedAt: time.Now()}, nil
}

const (
	tomatoID int64 = 1
	onionID  int64 = 2
	potatoID int64 = 3
)

func testCatalog() catalog.Catalog {
	return catalog.New([]model.Product{
		{ID: tomatoID, Name: "Tomato", Category: "vegetables", Price: decimal.NewFromInt(40), OriginalPrice: decimal.NewFromInt(50), Stock: 50},
		{ID: onionID, Name: "Onion", Category: "vegetables", Price: decimal.NewFromInt(30), OriginalPrice: decimal.NewFromInt(35), Stock: 5},
		{ID: potatoID, Name: "Potato", Category: "roots", Price: decimal.NewFromInt(25), OriginalPrice: decimal.NewFromInt(25), Stock: 100},
	})
}

func rupees(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

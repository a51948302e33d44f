package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"veggie-kart/internal/catalog"
	"veggie-kart/internal/config"
	"veggie-kart/internal/database/dbtest"
	"veggie-kart/internal/handler"
	"veggie-kart/internal/middleware"
	"veggie-kart/internal/model"
	"veggie-kart/internal/payment"
	"veggie-kart/internal/repository"
	"veggie-kart/internal/router"
	"veggie-kart/internal/scheduler"
	"veggie-kart/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey = "test-api-key"
	testSecret = "integration-secret"

	tomatoID int64 = 1
	onionID  int64 = 2
	potatoID int64 = 3
)

var otpPattern = regexp.MustCompile(`\b\d{6}\b`)

// inbox records every message sent, keyed by phone.
type inbox struct {
	mu       sync.Mutex
	messages map[string][]string
}

func newInbox() *inbox {
	return &inbox{messages: make(map[string][]string)}
}

func (i *inbox) Send(ctx context.Context, phone, text string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.messages[phone] = append(i.messages[phone], text)
	return nil
}

// lastCode returns the most recent OTP delivered to phone.
func (i *inbox) lastCode(t *testing.T, phone string) string {
	t.Helper()

	i.mu.Lock()
	defer i.mu.Unlock()

	msgs := i.messages[phone]
	for n := len(msgs) - 1; n >= 0; n-- {
		if code := otpPattern.FindString(msgs[n]); code != "" {
			return code
		}
	}
	t.Fatalf("no code sent to %s", phone)
	return ""
}

func (i *inbox) count(phone string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.messages[phone])
}

// testServer is the full API wired against a real database.
type testServer struct {
	handler http.Handler
	db      *dbtest.TestDB
	inbox   *inbox
}

func testCatalog() catalog.Catalog {
	return catalog.New([]model.Product{
		{ID: tomatoID, Name: "Fresh Tomatoes", Category: "fruit", Price: decimal.NewFromInt(40), OriginalPrice: decimal.NewFromInt(50), Stock: 50},
		{ID: onionID, Name: "Onions", Category: "root", Price: decimal.NewFromInt(30), OriginalPrice: decimal.NewFromInt(35), Stock: 5},
		{ID: potatoID, Name: "Potatoes", Category: "root", Price: decimal.NewFromInt(25), OriginalPrice: decimal.NewFromInt(30), Stock: 100},
	})
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db := dbtest.SetupTestDB(t)
	logger := zerolog.Nop()

	products := testCatalog()
	pricing := service.NewPricing(config.StoreConfig{
		FreeDeliveryThreshold: 300,
		DeliveryFee:           40,
		WelcomeBonus:          100,
		RupeesPerPoint:        10,
		TaxRatePercent:        18,
		ShopWhatsApp:          "919876543210",
	})

	challengeRepo := repository.NewChallengeRepository(db.Pool, logger)
	userRepo := repository.NewUserRepository(db.Pool, logger)
	sessionRepo := repository.NewSessionRepository(db.Pool, logger)
	cartRepo := repository.NewCartRepository(db.Pool, logger)
	orderRepo := repository.NewOrderRepository(db.Pool, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.Pool, logger)

	timers := scheduler.New(logger)
	t.Cleanup(timers.Stop)

	box := newInbox()
	gateway := payment.NewSimulatedGateway(0, logger)

	sessionService := service.NewSessionService(sessionRepo, testSecret, time.Hour, logger)
	authService := service.NewAuthService(challengeRepo, userRepo, sessionRepo, sessionService, timers, box, 2*time.Minute, pricing, logger)
	userService := service.NewUserService(userRepo, logger)
	cartService := service.NewCartService(cartRepo, userRepo, products, box, pricing, 30*time.Minute, "919876543210", logger)
	orderService := service.NewOrderService(orderRepo, userRepo, invoiceRepo, cartRepo, products, gateway, box, pricing, logger)
	productService := service.NewProductService(products, logger)

	h := router.New(router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Auth:    handler.NewAuthHandler(authService, userService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
	}, testAPIKey, sessionService, logger)

	return &testServer{handler: h, db: db, inbox: box}
}

// call is one request against the server.
type call struct {
	method string
	target string
	body   any
	token  string
	cartID string
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(c.method, c.target, body)
	req.Header.Set("X-API-Key", testAPIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, "it-"+t.Name())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cartID != "" {
		req.Header.Set(handler.CartIDHeader, c.cartID)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// signup registers phone through the OTP flow and returns the session token.
func (s *testServer) signup(t *testing.T, phone, name string) string {
	t.Helper()

	w := s.do(t, call{method: http.MethodPost, target: "/api/auth/otp", body: model.IssueRequest{
		Purpose: model.PurposeSignup,
		Phone:   phone,
		Name:    name,
	}})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	w = s.do(t, call{method: http.MethodPost, target: "/api/auth/verify", body: model.VerifyRequest{
		Purpose: model.PurposeSignup,
		Phone:   phone,
		Code:    s.inbox.lastCode(t, phone),
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp model.AuthResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

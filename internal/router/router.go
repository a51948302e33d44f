package router

import (
	"net/http"

	"veggie-kart/internal/handler"
	"veggie-kart/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Product *handler.ProductHandler
	Auth    *handler.AuthHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	apiKey string,
	sessions middleware.SessionAuthenticator,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)

	mux.HandleFunc("POST /api/auth/otp", h.Auth.Issue)
	mux.HandleFunc("GET /api/auth/otp", h.Auth.Countdown)
	mux.HandleFunc("POST /api/auth/verify", h.Auth.Verify)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("GET /api/me", h.Auth.Me)

	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("GET /api/cart/whatsapp", h.Cart.WhatsApp)
	mux.HandleFunc("POST /api/cart/lines", h.Cart.AddLine)
	mux.HandleFunc("PUT /api/cart/lines/{productId}", h.Cart.SetQuantity)
	mux.HandleFunc("DELETE /api/cart/lines/{productId}", h.Cart.RemoveLine)

	mux.HandleFunc("POST /api/orders", h.Order.Place)
	mux.HandleFunc("GET /api/orders", h.Order.List)
	mux.HandleFunc("GET /api/orders/{id}", h.Order.GetByID)
	mux.HandleFunc("GET /api/orders/{id}/invoice", h.Order.Invoice)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth -> SessionAuth
	var handler http.Handler = mux
	handler = middleware.SessionAuth(sessions, logger)(handler)
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}

package handler

import (
	"net/http"
	"strconv"

	"veggie-kart/internal/model"
	"veggie-kart/internal/service"

	"github.com/rs/zerolog"
)

// WhatsAppResponse carries the wa.me link that opens a prefilled order request.
type WhatsAppResponse struct {
	URL string `json:"url"`
}

// CartHandler handles cart HTTP requests. The cart is named by the X-Cart-ID
// header and every response echoes the id back.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), cartID(r), session(r))
	h.respond(w, r, cart, err)
}

// AddLine handles POST /api/cart/lines requests.
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req model.CartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.service.AddLine(r.Context(), cartID(r), session(r), req.ProductID, req.Quantity)
	h.respond(w, r, cart, err)
}

// SetQuantity handles PUT /api/cart/lines/{productId} requests.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req model.CartLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), cartID(r), session(r), productID, req.Quantity)
	h.respond(w, r, cart, err)
}

// RemoveLine handles DELETE /api/cart/lines/{productId} requests.
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.RemoveLine(r.Context(), cartID(r), session(r), productID)
	h.respond(w, r, cart, err)
}

// WhatsApp handles GET /api/cart/whatsapp requests.
func (h *CartHandler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.WhatsAppLink(r.Context(), cartID(r), session(r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, WhatsAppResponse{URL: link})
}

func (h *CartHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid product ID", h.logger)
		return 0, false
	}
	return id, true
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, cart *model.CartView, err error) {
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.Header().Set(CartIDHeader, cart.ID.String())
	writeJSON(w, http.StatusOK, cart)
}

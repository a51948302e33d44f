package handler

import (
	"net/http"
	"time"

	"veggie-kart/internal/model"
	"veggie-kart/internal/service"

	"github.com/rs/zerolog"
)

// CountdownResponse reports how long the pending code stays valid.
type CountdownResponse struct {
	Purpose   model.Purpose `json:"purpose"`
	Remaining int           `json:"remaining"`
}

// AuthHandler handles OTP login, signup and session requests.
type AuthHandler struct {
	auth   service.AuthService
	users  service.UserService
	logger zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth service.AuthService, users service.UserService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		users:  users,
		logger: logger.With().Str("handler", "auth").Logger(),
	}
}

// Issue handles POST /api/auth/otp requests. The code itself is only sent to
// the phone, never returned.
func (h *AuthHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req model.IssueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.auth.Issue(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, resp)
}

// Countdown handles GET /api/auth/otp?purpose=&phone= requests.
func (h *AuthHandler) Countdown(w http.ResponseWriter, r *http.Request) {
	purpose := model.Purpose(r.URL.Query().Get("purpose"))

	remaining, err := h.auth.Countdown(r.Context(), purpose, r.URL.Query().Get("phone"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, CountdownResponse{
		Purpose:   purpose,
		Remaining: int(remaining.Round(time.Second) / time.Second),
	})
}

// Verify handles POST /api/auth/verify requests.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.auth.Verify(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// Logout handles POST /api/auth/logout requests.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), session(r)); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), session(r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"veggie-kart/internal/middleware"
	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartIDHeader carries the browsing cart between requests.
const CartIDHeader = "X-Cart-ID"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Int("status", status).Str("path", r.URL.Path).Msg(message)

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// writeServiceError maps a service error to an HTTP response. Domain errors
// keep their message; anything else is reported as an internal error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	writeError(w, r, statusFor(domainErr), domainErr.Code, domainErr.Message, logger)
}

// statusFor returns the HTTP status of a domain error.
func statusFor(err *model.DomainError) int {
	switch err.Code {
	case model.ErrCodeNotAuthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound, model.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case model.ErrCodePaymentDeclined:
		return http.StatusPaymentRequired
	}

	switch err.Kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindState, model.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// cartID returns the cart named by the request header, or uuid.Nil.
func cartID(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(r.Header.Get(CartIDHeader))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// session returns the authenticated session, nil for guests.
func session(r *http.Request) *model.Session {
	return middleware.SessionFromContext(r.Context())
}

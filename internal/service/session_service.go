package service

import (
	"context"
	"fmt"
	"time"

	"veggie-kart/internal/model"
	"veggie-kart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sessionClaims carries the session id (jti) and holder phone (sub).
type sessionClaims struct {
	jwt.RegisteredClaims
}

// sessionService implements SessionService with HS256 tokens backed by the
// sessions table, so logout revokes a token before it expires.
type sessionService struct {
	sessions repository.SessionRepository
	secret   []byte
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSessionService creates a new session token service.
func NewSessionService(sessions repository.SessionRepository, secret string, ttl time.Duration, logger zerolog.Logger) SessionService {
	return &sessionService{
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger.With().Str("service", "session").Logger(),
		now:      time.Now,
	}
}

// Token signs a bearer token for session.
func (s *sessionService) Token(session *model.Session) (string, time.Time, error) {
	expiresAt := session.AuthenticatedAt.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Subject:   session.Phone,
			IssuedAt:  jwt.NewNumericDate(session.AuthenticatedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Authenticate resolves a bearer token to a live session.
func (s *sessionService) Authenticate(ctx context.Context, tokenString string) (*model.Session, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		s.logger.Debug().Err(err).Msg("rejected session token")
		return nil, model.ErrNotAuthenticated
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, model.ErrNotAuthenticated
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.Phone != claims.Subject {
		s.logger.Debug().Str("session_id", id.String()).Msg("session revoked")
		return nil, model.ErrNotAuthenticated
	}

	return session, nil
}

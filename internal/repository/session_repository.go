package repository

import (
	"context"
	"fmt"

	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// sessionRepository implements SessionRepository using PostgreSQL.
type sessionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSessionRepository creates a new PostgreSQL-backed session repository.
func NewSessionRepository(pool *pgxpool.Pool, logger zerolog.Logger) SessionRepository {
	return &sessionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "session").Logger(),
	}
}

// Create inserts a session within tx.
func (r *sessionRepository) Create(ctx context.Context, tx pgx.Tx, session *model.Session) error {
	query := `
		INSERT INTO sessions (id, phone, authenticated_at)
		VALUES ($1, $2, $3)
	`

	if _, err := tx.Exec(ctx, query, session.ID, session.Phone, session.AuthenticatedAt); err != nil {
		r.logger.Error().Err(err).Str("session_id", session.ID.String()).Msg("failed to create session")
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Debug().Str("session_id", session.ID.String()).Msg("session created")

	return nil
}

// Get returns the session with id.
func (r *sessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	query := `
		SELECT id, phone, authenticated_at
		FROM sessions
		WHERE id = $1
	`

	var s model.Session
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Phone, &s.AuthenticatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("session_id", id.String()).Msg("failed to query session")
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &s, nil
}

// Delete removes the session.
func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		r.logger.Error().Err(err).Str("session_id", id.String()).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}

	r.logger.Debug().Str("session_id", id.String()).Msg("session deleted")

	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"veggie-kart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// challengeRepository implements ChallengeRepository using PostgreSQL.
// issued_at is stored with microsecond precision, so callers compare against
// values truncated to the microsecond.
type challengeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewChallengeRepository creates a new PostgreSQL-backed challenge repository.
func NewChallengeRepository(pool *pgxpool.Pool, logger zerolog.Logger) ChallengeRepository {
	return &challengeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "challenge").Logger(),
	}
}

// Save stores c, replacing any challenge for the same purpose and phone.
func (r *challengeRepository) Save(ctx context.Context, c *model.Challenge) error {
	query := `
		INSERT INTO otp_challenges (purpose, phone, code_hash, issued_at, ttl_seconds, profile)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (purpose, phone) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
		    issued_at = EXCLUDED.issued_at,
		    ttl_seconds = EXCLUDED.ttl_seconds,
		    profile = EXCLUDED.profile
	`

	_, err := r.pool.Exec(ctx, query,
		c.Purpose, c.Phone, c.CodeHash, c.IssuedAt, int(c.TTL/time.Second), c.Profile)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("purpose", string(c.Purpose)).
			Msg("failed to save challenge")
		return fmt.Errorf("failed to save challenge: %w", err)
	}

	r.logger.Debug().Str("purpose", string(c.Purpose)).Msg("challenge saved")

	return nil
}

// Get returns the pending challenge for purpose and phone.
func (r *challengeRepository) Get(ctx context.Context, purpose model.Purpose, phone string) (*model.Challenge, error) {
	query := `
		SELECT purpose, phone, code_hash, issued_at, ttl_seconds, profile
		FROM otp_challenges
		WHERE purpose = $1 AND phone = $2
	`

	var (
		c   model.Challenge
		ttl int
	)
	err := r.pool.QueryRow(ctx, query, purpose, phone).Scan(
		&c.Purpose,
		&c.Phone,
		&c.CodeHash,
		&c.IssuedAt,
		&ttl,
		&c.Profile,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("purpose", string(purpose)).Msg("failed to query challenge")
		return nil, fmt.Errorf("failed to query challenge: %w", err)
	}
	c.TTL = time.Duration(ttl) * time.Second

	return &c, nil
}

// Consume deletes the challenge issued at issuedAt within tx.
func (r *challengeRepository) Consume(ctx context.Context, tx pgx.Tx, purpose model.Purpose, phone string, issuedAt time.Time) (bool, error) {
	query := `
		DELETE FROM otp_challenges
		WHERE purpose = $1 AND phone = $2 AND issued_at = $3 AND code_hash <> ''
	`

	tag, err := tx.Exec(ctx, query, purpose, phone, issuedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("purpose", string(purpose)).Msg("failed to consume challenge")
		return false, fmt.Errorf("failed to consume challenge: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Expire purges the code of the challenge issued at issuedAt. The row stays
// behind so later verification attempts still report the expiry.
func (r *challengeRepository) Expire(ctx context.Context, purpose model.Purpose, phone string, issuedAt time.Time) (bool, error) {
	query := `
		UPDATE otp_challenges
		SET code_hash = ''
		WHERE purpose = $1 AND phone = $2 AND issued_at = $3 AND code_hash <> ''
	`

	tag, err := r.pool.Exec(ctx, query, purpose, phone, issuedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("purpose", string(purpose)).Msg("failed to expire challenge")
		return false, fmt.Errorf("failed to expire challenge: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

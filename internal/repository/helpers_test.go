package repository

import (
	"context"
	"testing"
	"time"

	"veggie-kart/internal/database/dbtest"
	"veggie-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// setupTestDB starts a migrated PostgreSQL container for the test.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	return dbtest.SetupTestDB(t).Pool
}

// seedUser creates an account directly through the repository.
func seedUser(t *testing.T, pool *pgxpool.Pool, phone string) *model.User {
	t.Helper()

	ctx := context.Background()
	repo := NewUserRepository(pool, zerolog.Nop())

	user := &model.User{
		ID:            uuid.New(),
		Name:          "Asha",
		Email:         "asha@example.com",
		Phone:         phone,
		JoinedAt:      time.Now().UTC().Truncate(time.Microsecond),
		LoyaltyPoints: 100,
		TotalSpent:    decimal.Zero,
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx, user))
	require.NoError(t, tx.Commit(ctx))

	return user
}

package database_test

import (
	"context"
	"testing"

	"veggie-kart/internal/config"
	"veggie-kart/internal/database"
	"veggie-kart/internal/database/dbtest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_InvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		errMatch string
	}{
		{
			name: "Unreachable host",
			cfg: config.DatabaseConfig{
				Host:            "invalid-host.invalid",
				Port:            5432,
				User:            "postgres",
				Password:        "postgres",
				Database:        "veggiekart",
				MaxConnections:  2,
				MinConnections:  1,
				MaxConnLifetime: 60,
			},
			errMatch: "failed to ping database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := database.NewPool(context.Background(), tt.cfg, zerolog.Nop())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
			assert.Nil(t, pool)
		})
	}
}

func TestMigrate_CreatesSchema(t *testing.T) {
	db := dbtest.SetupTestDB(t)
	ctx := context.Background()

	for _, table := range []string{"users", "otp_challenges", "sessions", "carts", "orders", "order_lines", "invoices"} {
		var exists bool
		err := db.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := dbtest.SetupTestDB(t)

	// SetupTestDB already migrated once.
	err := database.Migrate(context.Background(), db.Pool, zerolog.Nop())
	assert.NoError(t, err)
}

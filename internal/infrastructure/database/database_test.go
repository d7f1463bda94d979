package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/spice-storefront/internal/config"
	"github.com/your-org/spice-storefront/internal/pkg/logger"
)

func TestConnectionAndMigrations_SQLite(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			SQLitePath:   filepath.Join(t.TempDir(), "storefront.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
	}
	log := logger.Discard()

	db, err := NewConnection(cfg, log)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Health())

	migration := NewMigration(db.GetDB(), log)
	require.NoError(t, migration.RunAutoMigrations())
	require.NoError(t, migration.CreateIndexes())

	assert.True(t, db.GetDB().Migrator().HasTable("payments"))
	assert.True(t, db.GetDB().Migrator().HasColumn("payments", "meta_transaction_id"))
	assert.True(t, db.GetDB().Migrator().HasIndex("payments", "idx_payments_status_created"))

	// migrations are idempotent
	require.NoError(t, migration.RunAutoMigrations())
}

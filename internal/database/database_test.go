package database

import (
	"testing"

	"inkwell/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
		Env:        "test",
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, table := range []string{"users", "articles", "comments"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tokenrelay/internal/database"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewUserRepository(db)
}

func TestUserRepository_Contract(t *testing.T) {
	runStoreContract(t, newSQLiteStore)
}

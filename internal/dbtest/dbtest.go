// Package dbtest opens throwaway SQLite-backed GORM handles for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/db"
)

func New(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "devhire.db")
	gdb, err := db.Open(sqlite.Open(path + "?_pragma=busy_timeout(5000)"))
	require.NoError(t, err)

	// one connection serialises writers the way a row lock would
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

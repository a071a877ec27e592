// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/farmfresh-api/database"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// New returns a migrated in-memory sqlite database private to t. gorm
// warnings are written to the test log.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	// Shared cache keeps the in-memory database alive across pool connections.
	dsn := fmt.Sprintf("%sfile:%s?mode=memory&cache=shared&_foreign_keys=1", database.SQLitePrefix, uuid.NewString())
	db, err := database.Open(dsn, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

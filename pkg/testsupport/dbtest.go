package testsupport

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-content/internal/runtimeconfig"
	"github.com/goliatone/go-cms-content/internal/storage"
	"github.com/uptrace/bun"
)

// NewSQLiteDB opens a named shared in-memory sqlite database with the module
// schema. Databases with the same name share state until the test ends.
func NewSQLiteDB(t testing.TB, name string) *bun.DB {
	t.Helper()

	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	db, err := storage.Open(runtimeconfig.StorageConfig{
		Driver: runtimeconfig.StorageSQLite,
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

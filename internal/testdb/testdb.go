// Package testdb opens throwaway handbook databases for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/somabay/handbook/infrastructure/persistence"
	"github.com/somabay/handbook/internal/database"
)

// New returns a migrated in-memory SQLite database that is closed when the
// test ends.
func New(t *testing.T) database.Database {
	t.Helper()
	return open(t, "sqlite:///:memory:")
}

func open(t *testing.T, url string) database.Database {
	t.Helper()
	db, err := database.NewDatabase(context.Background(), url)
	if err != nil {
		t.Fatalf("open %s: %v", url, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := persistence.AutoMigrate(db); err != nil {
		t.Fatalf("migrate %s: %v", url, err)
	}
	return db
}

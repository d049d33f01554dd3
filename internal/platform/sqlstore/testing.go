package sqlstore

import (
	"context"
	"fmt"
	"testing"

	"catalog-service/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

// NewTestDB opens a private, migrated in-memory SQLite database that is
// closed when t finishes.
func NewTestDB(t testing.TB) *DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: SQLite.Name,
		URL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}

	ctx := context.Background()
	db, err := Open(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

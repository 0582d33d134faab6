package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/hitoshi/folio/internal/database"
)

// newTestDB はマイグレーション適用済みの一時ファイルDBを開く。
// テスト終了時に自動でクローズされる。
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db, database.EmbeddedMigrations()); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

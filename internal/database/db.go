// Package database はSQLite接続とマイグレーション管理を提供する。
package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open は指定パスのSQLiteデータベースを開く。
// WALモードと外部キー制約を有効化する。pathに":memory:"を渡すとインメモリDBになる。
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 単一書き込みプロセス前提の埋め込みDB。同時リクエストはbusy_timeoutで直列化する。
	pragmas := []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return db, nil
}

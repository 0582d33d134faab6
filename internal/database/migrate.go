package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// EmbeddedMigrations はバイナリに埋め込まれたマイグレーションスクリプト群を返す。
func EmbeddedMigrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		// go:embedのパスと一致している限り到達しない
		panic(err)
	}
	return sub
}

// Migrate は未適用のマイグレーションスクリプトをファイル名の辞書順に適用する。
// 適用済みスクリプトは_migrationsテーブルにファイル名で記録され、二度と再実行されない。
// 各スクリプトは個別のトランザクション内で実行し、失敗時はそのスクリプトを
// ロールバックして全体を中断する。マイグレーションディレクトリが存在しない場合は
// 何もせず正常終了する。
func Migrate(ctx context.Context, db *sql.DB, scripts fs.FS) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		return fmt.Errorf("failed to ensure _migrations table: %w", err)
	}

	entries, err := fs.ReadDir(scripts, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("no migrations directory, skipping")
			return nil
		}
		return fmt.Errorf("failed to read migrations dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied, err := appliedSet(ctx, db)
	if err != nil {
		return err
	}

	for _, name := range files {
		if applied[name] {
			continue
		}

		b, err := fs.ReadFile(scripts, path.Clean(name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		if err := applyOne(ctx, db, name, string(b)); err != nil {
			return err
		}

		slog.Info("applied migration", slog.String("name", name))
	}

	return nil
}

// applyOne は1スクリプトをトランザクション内で実行し、同一トランザクションで記録する。
func applyOne(ctx context.Context, db *sql.DB, name, script string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx for %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, script); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to apply migration %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations (name) VALUES (?)`, name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", name, err)
	}

	return nil
}

// appliedSet は適用済みマイグレーション名の集合を返す。
func appliedSet(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM _migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration name: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applied migrations: %w", err)
	}

	return applied, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/folio/internal/model"
)

// SQLiteSessionRepo はSQLiteを使用したセッションリポジトリ。
type SQLiteSessionRepo struct {
	db *sql.DB
}

// NewSQLiteSessionRepo はSQLiteSessionRepoを生成する。
func NewSQLiteSessionRepo(db *sql.DB) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

// Create はセッションを作成する。
func (r *SQLiteSessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, github_user_id, github_username, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.Token, session.GitHubUserID, session.GitHubUsername,
		formatTime(session.CreatedAt), formatTime(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByToken は指定トークンのセッションを取得する。期限切れまたは未存在の場合はnilを返す。
func (r *SQLiteSessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	var (
		session            model.Session
		createdAt, expires string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, github_user_id, github_username, created_at, expires_at
		 FROM sessions
		 WHERE id = ? AND expires_at > datetime('now')`,
		token,
	).Scan(&session.Token, &session.GitHubUserID, &session.GitHubUsername, &createdAt, &expires)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if session.ExpiresAt, err = parseTime(expires); err != nil {
		return nil, err
	}

	return &session, nil
}

// DeleteByToken は指定トークンのセッションを削除する。存在しない場合も成功扱い。
func (r *SQLiteSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SessionRepository = (*SQLiteSessionRepo)(nil)

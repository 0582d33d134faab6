package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// SQLiteContactRepo はSQLiteを使用した問い合わせリポジトリ。
type SQLiteContactRepo struct {
	db *sql.DB
}

// NewSQLiteContactRepo はSQLiteContactRepoを生成する。
func NewSQLiteContactRepo(db *sql.DB) *SQLiteContactRepo {
	return &SQLiteContactRepo{db: db}
}

// Create は問い合わせを作成し、採番されたIDを書き戻す。ステータスは常にunreadで開始する。
func (r *SQLiteContactRepo) Create(ctx context.Context, c *model.ContactSubmission) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_submissions (name, email, message, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Email, c.Message, string(model.ContactStatusUnread), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get contact submission id: %w", err)
	}
	c.ID = id
	c.Status = model.ContactStatusUnread
	c.CreatedAt = now
	return nil
}

// List は問い合わせ一覧をcreated_at降順で返す。
func (r *SQLiteContactRepo) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, message, status, created_at
		FROM contact_submissions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*model.ContactSubmission
	for rows.Next() {
		var (
			c         model.ContactSubmission
			status    string
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact submission: %w", err)
		}
		c.Status = model.ContactStatus(status)
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		submissions = append(submissions, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact submissions: %w", err)
	}

	return submissions, nil
}

// UpdateStatus は指定IDのステータスを更新する。対象行がない場合はfalseを返す。
func (r *SQLiteContactRepo) UpdateStatus(ctx context.Context, id int64, status model.ContactStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_submissions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return false, fmt.Errorf("failed to update contact status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// Delete は指定IDの問い合わせを削除する。対象行がない場合はfalseを返す。
func (r *SQLiteContactRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact submission: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ ContactRepository = (*SQLiteContactRepo)(nil)

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// SQLiteWritingRepo はSQLiteを使用した記事リポジトリ。
type SQLiteWritingRepo struct {
	db *sql.DB
}

// NewSQLiteWritingRepo はSQLiteWritingRepoを生成する。
func NewSQLiteWritingRepo(db *sql.DB) *SQLiteWritingRepo {
	return &SQLiteWritingRepo{db: db}
}

const writingColumns = `id, slug, title, excerpt, content, date, read_time, tags,
	COALESCE(hero_image_url, ''), COALESCE(hero_image_alt, ''),
	published, sort_order, created_at, updated_at`

// scanWritingPost は1行をmodel.WritingPostに変換する。
func scanWritingPost(row interface{ Scan(...any) error }) (*model.WritingPost, error) {
	var (
		p                    model.WritingPost
		tags                 string
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Date, &p.ReadTime,
		&tags, &p.HeroImageURL, &p.HeroImageAlt,
		&p.Published, &p.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if p.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

// List は記事一覧を返す。publishedOnlyがtrueの場合は公開済みのみ。
func (r *SQLiteWritingRepo) List(ctx context.Context, publishedOnly bool) ([]*model.WritingPost, error) {
	query := `SELECT ` + writingColumns + ` FROM writing_posts`
	if publishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY sort_order ASC, date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list writing posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.WritingPost
	for rows.Next() {
		p, err := scanWritingPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan writing post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate writing posts: %w", err)
	}

	return posts, nil
}

// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
func (r *SQLiteWritingRepo) FindByID(ctx context.Context, id int64) (*model.WritingPost, error) {
	p, err := scanWritingPost(r.db.QueryRowContext(ctx,
		`SELECT `+writingColumns+` FROM writing_posts WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find writing post: %w", err)
	}
	return p, nil
}

// FindBySlug は指定スラッグの記事を取得する。見つからない場合はnilを返す。
func (r *SQLiteWritingRepo) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.WritingPost, error) {
	query := `SELECT ` + writingColumns + ` FROM writing_posts WHERE slug = ?`
	if publishedOnly {
		query += ` AND published = 1`
	}

	p, err := scanWritingPost(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find writing post by slug: %w", err)
	}
	return p, nil
}

// SlugExists はスラッグが既に使われているかを返す。excludeIDの行は除外する。
func (r *SQLiteWritingRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM writing_posts WHERE slug = ? AND id != ?`,
		slug, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check writing post slug: %w", err)
	}
	return count > 0, nil
}

// Create は記事を作成し、採番されたIDとタイムスタンプを書き戻す。
func (r *SQLiteWritingRepo) Create(ctx context.Context, p *model.WritingPost) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO writing_posts (slug, title, excerpt, content, date, read_time, tags,
			hero_image_url, hero_image_alt, published, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Excerpt, p.Content, p.Date, p.ReadTime, encodeStrings(p.Tags),
		p.HeroImageURL, p.HeroImageAlt, p.Published, p.SortOrder,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create writing post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get writing post id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Update は記事行全体を上書きし、updated_atを更新する。
func (r *SQLiteWritingRepo) Update(ctx context.Context, p *model.WritingPost) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE writing_posts SET
			slug = ?, title = ?, excerpt = ?, content = ?, date = ?, read_time = ?, tags = ?,
			hero_image_url = ?, hero_image_alt = ?, published = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		p.Slug, p.Title, p.Excerpt, p.Content, p.Date, p.ReadTime, encodeStrings(p.Tags),
		p.HeroImageURL, p.HeroImageAlt, p.Published, p.SortOrder,
		formatTime(now), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update writing post: %w", err)
	}
	p.UpdatedAt = now
	return nil
}

// Delete は指定IDの記事を削除する。画像行はFKのCASCADEで削除される。
func (r *SQLiteWritingRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM writing_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete writing post: %w", err)
	}
	return nil
}

// compile-time interface check
var _ WritingRepository = (*SQLiteWritingRepo)(nil)

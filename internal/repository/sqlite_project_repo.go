package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// SQLiteProjectRepo はSQLiteを使用したプロジェクトリポジトリ。
type SQLiteProjectRepo struct {
	db *sql.DB
}

// NewSQLiteProjectRepo はSQLiteProjectRepoを生成する。
func NewSQLiteProjectRepo(db *sql.DB) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, slug, title, description, COALESCE(content, ''),
	COALESCE(github_url, ''), COALESCE(live_url, ''), featured_order, tags,
	published, sort_order, created_at, updated_at`

// scanProject は1行をmodel.Projectに変換する。
func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	var (
		p                    model.Project
		featuredOrder        sql.NullInt64
		tags                 string
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.Content,
		&p.GitHubURL, &p.LiveURL, &featuredOrder, &tags,
		&p.Published, &p.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if featuredOrder.Valid {
		v := featuredOrder.Int64
		p.FeaturedOrder = &v
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

// List はプロジェクト一覧を返す。publishedOnlyがtrueの場合は公開済みのみ。
func (r *SQLiteProjectRepo) List(ctx context.Context, publishedOnly bool) ([]*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if publishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY sort_order ASC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// ListFeatured はfeatured_orderが設定されたプロジェクトをサムネイル付きで返す。
func (r *SQLiteProjectRepo) ListFeatured(ctx context.Context) ([]*FeaturedProject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.slug, p.title, p.description, COALESCE(p.content, ''),
			COALESCE(p.github_url, ''), COALESCE(p.live_url, ''), p.featured_order, p.tags,
			p.published, p.sort_order, p.created_at, p.updated_at,
			COALESCE((SELECT url FROM project_images WHERE project_id = p.id ORDER BY sort_order LIMIT 1), ''),
			COALESCE((SELECT alt_text FROM project_images WHERE project_id = p.id ORDER BY sort_order LIMIT 1), '')
		FROM projects p
		WHERE p.featured_order IS NOT NULL
		ORDER BY p.featured_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured projects: %w", err)
	}
	defer rows.Close()

	var projects []*FeaturedProject
	for rows.Next() {
		var (
			fp                   FeaturedProject
			featuredOrder        sql.NullInt64
			tags                 string
			createdAt, updatedAt string
		)
		err := rows.Scan(&fp.ID, &fp.Slug, &fp.Title, &fp.Description, &fp.Content,
			&fp.GitHubURL, &fp.LiveURL, &featuredOrder, &tags,
			&fp.Published, &fp.SortOrder, &createdAt, &updatedAt,
			&fp.ThumbnailURL, &fp.ThumbnailAlt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan featured project: %w", err)
		}

		if featuredOrder.Valid {
			v := featuredOrder.Int64
			fp.FeaturedOrder = &v
		}
		if fp.Tags, err = decodeStrings(tags); err != nil {
			return nil, err
		}
		if fp.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if fp.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, &fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate featured projects: %w", err)
	}

	return projects, nil
}

// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *SQLiteProjectRepo) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return p, nil
}

// FindBySlug は指定スラッグのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *SQLiteProjectRepo) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = ?`
	if publishedOnly {
		query += ` AND published = 1`
	}

	p, err := scanProject(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project by slug: %w", err)
	}
	return p, nil
}

// SlugExists はスラッグが既に使われているかを返す。excludeIDの行は除外する。
func (r *SQLiteProjectRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM projects WHERE slug = ? AND id != ?`,
		slug, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check project slug: %w", err)
	}
	return count > 0, nil
}

// Create はプロジェクトを作成し、採番されたIDとタイムスタンプを書き戻す。
func (r *SQLiteProjectRepo) Create(ctx context.Context, p *model.Project) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (slug, title, description, content, github_url, live_url,
			featured_order, tags, published, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Description, p.Content, p.GitHubURL, p.LiveURL,
		nullableInt64(p.FeaturedOrder), encodeStrings(p.Tags), p.Published, p.SortOrder,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Update はプロジェクト行全体を上書きし、updated_atを更新する。
func (r *SQLiteProjectRepo) Update(ctx context.Context, p *model.Project) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE projects SET
			slug = ?, title = ?, description = ?, content = ?, github_url = ?, live_url = ?,
			featured_order = ?, tags = ?, published = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		p.Slug, p.Title, p.Description, p.Content, p.GitHubURL, p.LiveURL,
		nullableInt64(p.FeaturedOrder), encodeStrings(p.Tags), p.Published, p.SortOrder,
		formatTime(now), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	p.UpdatedAt = now
	return nil
}

// Delete は指定IDのプロジェクトを削除する。画像行はFKのCASCADEで削除される。
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// nullableInt64 は*int64をsql.NullInt64に変換する。
func nullableInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// compile-time interface check
var _ ProjectRepository = (*SQLiteProjectRepo)(nil)

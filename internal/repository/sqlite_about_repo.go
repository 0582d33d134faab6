package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// SQLiteAboutRepo はSQLiteを使用した自己紹介コンテンツリポジトリ。
// about_contentはid=1の単一行で運用する。
type SQLiteAboutRepo struct {
	db *sql.DB
}

// NewSQLiteAboutRepo はSQLiteAboutRepoを生成する。
func NewSQLiteAboutRepo(db *sql.DB) *SQLiteAboutRepo {
	return &SQLiteAboutRepo{db: db}
}

func scanAbout(row interface{ Scan(...any) error }) (*model.About, error) {
	var (
		a                         model.About
		bioParagraphs, highlights string
		updatedAt                 string
	)
	err := row.Scan(&a.ID, &bioParagraphs, &highlights, &updatedAt)
	if err != nil {
		return nil, err
	}

	if a.BioParagraphs, err = decodeStrings(bioParagraphs); err != nil {
		return nil, err
	}
	if a.Highlights, err = decodeStrings(highlights); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &a, nil
}

// Get はid=1の自己紹介コンテンツを取得する。見つからない場合はnilを返す。
func (r *SQLiteAboutRepo) Get(ctx context.Context) (*model.About, error) {
	a, err := scanAbout(r.db.QueryRowContext(ctx,
		`SELECT id, bio_paragraphs, highlights, updated_at FROM about_content WHERE id = 1`))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get about content: %w", err)
	}
	return a, nil
}

// Update はid=1の行を上書きし、更新後の内容を返す。
func (r *SQLiteAboutRepo) Update(ctx context.Context, bioParagraphs, highlights []string) (*model.About, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE about_content SET bio_paragraphs = ?, highlights = ?, updated_at = ?
		WHERE id = 1`,
		encodeStrings(bioParagraphs), encodeStrings(highlights), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update about content: %w", err)
	}

	return r.Get(ctx)
}

// compile-time interface check
var _ AboutRepository = (*SQLiteAboutRepo)(nil)

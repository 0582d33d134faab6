package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// imageTable は所有者種別からテーブル名と外部キーカラム名を解決する。
// ここが所有者種別に依存する唯一の箇所。
func imageTable(owner model.ImageOwner) (table, fkColumn string) {
	switch owner {
	case model.ImageOwnerWriting:
		return "writing_post_images", "writing_post_id"
	default:
		return "project_images", "project_id"
	}
}

// SQLiteImageRepo はSQLiteを使用した画像リポジトリ。
// project_imagesとwriting_post_imagesの両テーブルを所有者種別で振り分ける。
type SQLiteImageRepo struct {
	db *sql.DB
}

// NewSQLiteImageRepo はSQLiteImageRepoを生成する。
func NewSQLiteImageRepo(db *sql.DB) *SQLiteImageRepo {
	return &SQLiteImageRepo{db: db}
}

// ListByOwner は所有エンティティの画像一覧をsort_order昇順で返す。
func (r *SQLiteImageRepo) ListByOwner(ctx context.Context, owner model.ImageOwner, ownerID int64) ([]*model.Image, error) {
	table, fk := imageTable(owner)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, %s, url, COALESCE(alt_text, ''), sort_order, created_at
		 FROM %s WHERE %s = ? ORDER BY sort_order ASC`, fk, table, fk),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []*model.Image
	for rows.Next() {
		var (
			img       model.Image
			createdAt string
		)
		if err := rows.Scan(&img.ID, &img.OwnerID, &img.URL, &img.AltText, &img.SortOrder, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		if img.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate images: %w", err)
	}

	return images, nil
}

// FindByID は指定IDの画像を取得する。見つからない場合はnilを返す。
func (r *SQLiteImageRepo) FindByID(ctx context.Context, owner model.ImageOwner, id int64) (*model.Image, error) {
	table, fk := imageTable(owner)
	var (
		img       model.Image
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT id, %s, url, COALESCE(alt_text, ''), sort_order, created_at
		 FROM %s WHERE id = ?`, fk, table),
		id,
	).Scan(&img.ID, &img.OwnerID, &img.URL, &img.AltText, &img.SortOrder, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find image: %w", err)
	}
	if img.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &img, nil
}

// NextSortOrder は所有エンティティ配下の次のsort_order値（max+1、空なら0）を返す。
func (r *SQLiteImageRepo) NextSortOrder(ctx context.Context, owner model.ImageOwner, ownerID int64) (int64, error) {
	table, fk := imageTable(owner)
	var next int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM %s WHERE %s = ?`, table, fk),
		ownerID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next sort order: %w", err)
	}
	return next, nil
}

// Create は画像レコードを作成し、採番されたIDを書き戻す。
func (r *SQLiteImageRepo) Create(ctx context.Context, owner model.ImageOwner, img *model.Image) error {
	table, fk := imageTable(owner)
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (%s, url, alt_text, sort_order, created_at) VALUES (?, ?, ?, ?, ?)`,
		table, fk),
		img.OwnerID, img.URL, img.AltText, img.SortOrder, formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get image id: %w", err)
	}
	img.ID = id
	img.CreatedAt = now
	return nil
}

// DeleteByID は指定IDの画像レコードを削除する。
func (r *SQLiteImageRepo) DeleteByID(ctx context.Context, owner model.ImageOwner, id int64) error {
	table, _ := imageTable(owner)
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ImageRepository = (*SQLiteImageRepo)(nil)

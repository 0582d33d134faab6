package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// SQLiteEducationRepo はSQLiteを使用した学歴リポジトリ。
type SQLiteEducationRepo struct {
	db *sql.DB
}

// NewSQLiteEducationRepo はSQLiteEducationRepoを生成する。
func NewSQLiteEducationRepo(db *sql.DB) *SQLiteEducationRepo {
	return &SQLiteEducationRepo{db: db}
}

const educationColumns = `id, institution, degree, COALESCE(field, ''), date_range,
	COALESCE(description, ''), achievements, sort_order, created_at, updated_at`

func scanEducation(row interface{ Scan(...any) error }) (*model.Education, error) {
	var (
		e                    model.Education
		achievements         string
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.Institution, &e.Degree, &e.Field, &e.DateRange,
		&e.Description, &achievements, &e.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if e.Achievements, err = decodeStrings(achievements); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &e, nil
}

// List は学歴一覧をsort_order昇順、created_at降順で返す。
func (r *SQLiteEducationRepo) List(ctx context.Context) ([]*model.Education, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+educationColumns+` FROM education
		 ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	var entries []*model.Education
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate education: %w", err)
	}

	return entries, nil
}

// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
func (r *SQLiteEducationRepo) FindByID(ctx context.Context, id int64) (*model.Education, error) {
	e, err := scanEducation(r.db.QueryRowContext(ctx,
		`SELECT `+educationColumns+` FROM education WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find education: %w", err)
	}
	return e, nil
}

// Create はエントリを作成し、採番されたIDを書き戻す。
func (r *SQLiteEducationRepo) Create(ctx context.Context, e *model.Education) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO education (institution, degree, field, date_range, description,
			achievements, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Institution, e.Degree, e.Field, e.DateRange, e.Description,
		encodeStrings(e.Achievements), e.SortOrder, formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create education: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get education id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// Update はエントリ行全体を上書きし、updated_atを更新する。
func (r *SQLiteEducationRepo) Update(ctx context.Context, e *model.Education) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE education SET
			institution = ?, degree = ?, field = ?, date_range = ?, description = ?,
			achievements = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		e.Institution, e.Degree, e.Field, e.DateRange, e.Description,
		encodeStrings(e.Achievements), e.SortOrder, formatTime(now), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update education: %w", err)
	}
	e.UpdatedAt = now
	return nil
}

// Delete は指定IDのエントリを削除する。
func (r *SQLiteEducationRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM education WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete education: %w", err)
	}
	return nil
}

// compile-time interface check
var _ EducationRepository = (*SQLiteEducationRepo)(nil)

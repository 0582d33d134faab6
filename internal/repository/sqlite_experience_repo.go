package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// SQLiteExperienceRepo はSQLiteを使用した職務経歴リポジトリ。
type SQLiteExperienceRepo struct {
	db *sql.DB
}

// NewSQLiteExperienceRepo はSQLiteExperienceRepoを生成する。
func NewSQLiteExperienceRepo(db *sql.DB) *SQLiteExperienceRepo {
	return &SQLiteExperienceRepo{db: db}
}

const experienceColumns = `id, company, role, date_range, description, technologies,
	sort_order, created_at, updated_at`

func scanExperience(row interface{ Scan(...any) error }) (*model.WorkExperience, error) {
	var (
		e                    model.WorkExperience
		technologies         string
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.Company, &e.Role, &e.DateRange, &e.Description,
		&technologies, &e.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if e.Technologies, err = decodeStrings(technologies); err != nil {
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

// List は職務経歴一覧をsort_order昇順、created_at降順で返す。
func (r *SQLiteExperienceRepo) List(ctx context.Context) ([]*model.WorkExperience, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+experienceColumns+` FROM work_experience
		 ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list work experience: %w", err)
	}
	defer rows.Close()

	var entries []*model.WorkExperience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work experience: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work experience: %w", err)
	}

	return entries, nil
}

// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
func (r *SQLiteExperienceRepo) FindByID(ctx context.Context, id int64) (*model.WorkExperience, error) {
	e, err := scanExperience(r.db.QueryRowContext(ctx,
		`SELECT `+experienceColumns+` FROM work_experience WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find work experience: %w", err)
	}
	return e, nil
}

// Create はエントリを作成し、採番されたIDを書き戻す。
func (r *SQLiteExperienceRepo) Create(ctx context.Context, e *model.WorkExperience) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO work_experience (company, role, date_range, description, technologies,
			sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Company, e.Role, e.DateRange, e.Description, encodeStrings(e.Technologies),
		e.SortOrder, formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create work experience: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get work experience id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// Update はエントリ行全体を上書きし、updated_atを更新する。
func (r *SQLiteExperienceRepo) Update(ctx context.Context, e *model.WorkExperience) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE work_experience SET
			company = ?, role = ?, date_range = ?, description = ?, technologies = ?,
			sort_order = ?, updated_at = ?
		WHERE id = ?`,
		e.Company, e.Role, e.DateRange, e.Description, encodeStrings(e.Technologies),
		e.SortOrder, formatTime(now), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work experience: %w", err)
	}
	e.UpdatedAt = now
	return nil
}

// Delete は指定IDのエントリを削除する。
func (r *SQLiteExperienceRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM work_experience WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work experience: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ExperienceRepository = (*SQLiteExperienceRepo)(nil)

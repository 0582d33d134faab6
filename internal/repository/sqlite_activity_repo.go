package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// SQLiteActivityCacheRepo はGitHub活動サマリのキャッシュ行（id=1固定）を管理する。
type SQLiteActivityCacheRepo struct {
	db *sql.DB
}

// NewSQLiteActivityCacheRepo はSQLiteActivityCacheRepoを生成する。
func NewSQLiteActivityCacheRepo(db *sql.DB) *SQLiteActivityCacheRepo {
	return &SQLiteActivityCacheRepo{db: db}
}

// Get はキャッシュ行を取得する。行が未初期化の場合はnilを返す。
func (r *SQLiteActivityCacheRepo) Get(ctx context.Context) (*model.ActivityCacheRow, error) {
	var (
		row           model.ActivityCacheRow
		commitMessage sql.NullString
		commitURL     sql.NullString
		hoursAgo      sql.NullFloat64
		languagesJSON string
		currentRepo   sql.NullString
		cachedAt      string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT is_active, last_commit_message, last_commit_url, last_commit_hours_ago,
			week_commit_count, streak_days, languages_json, current_repo, cached_at
		FROM github_activity_cache WHERE id = 1`,
	).Scan(&row.Activity.IsActive, &commitMessage, &commitURL, &hoursAgo,
		&row.Activity.WeekCommits, &row.Activity.Streak, &languagesJSON, &currentRepo, &cachedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity cache: %w", err)
	}

	if commitMessage.Valid {
		row.Activity.LastCommit = &model.LastCommit{
			Message:  commitMessage.String,
			HoursAgo: hoursAgo.Float64,
			URL:      commitURL.String,
		}
	}
	row.Activity.Languages = map[string]int{}
	if err := json.Unmarshal([]byte(languagesJSON), &row.Activity.Languages); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}
	row.Activity.CurrentRepo = currentRepo.String
	if row.CachedAt, err = parseTime(cachedAt); err != nil {
		return nil, err
	}

	return &row, nil
}

// Save はキャッシュ行をサマリで上書きし、cached_atを現在時刻にする。
func (r *SQLiteActivityCacheRepo) Save(ctx context.Context, activity *model.GitHubActivity) error {
	languages, err := json.Marshal(activity.Languages)
	if err != nil {
		return fmt.Errorf("failed to encode languages: %w", err)
	}

	var (
		commitMessage sql.NullString
		commitURL     sql.NullString
		hoursAgo      sql.NullFloat64
	)
	if activity.LastCommit != nil {
		commitMessage = sql.NullString{String: activity.LastCommit.Message, Valid: true}
		commitURL = sql.NullString{String: activity.LastCommit.URL, Valid: true}
		hoursAgo = sql.NullFloat64{Float64: activity.LastCommit.HoursAgo, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE github_activity_cache SET
			is_active = ?, last_commit_message = ?, last_commit_url = ?, last_commit_hours_ago = ?,
			week_commit_count = ?, streak_days = ?, languages_json = ?, current_repo = ?, cached_at = ?
		WHERE id = 1`,
		activity.IsActive, commitMessage, commitURL, hoursAgo,
		activity.WeekCommits, activity.Streak, string(languages), activity.CurrentRepo,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("failed to save activity cache: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ActivityCacheRepository = (*SQLiteActivityCacheRepo)(nil)

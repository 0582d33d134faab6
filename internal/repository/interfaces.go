// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/folio/internal/model"
)

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByToken は指定トークンのセッションを取得する。
	// 期限切れまたは未存在の場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	// DeleteByToken は指定トークンのセッションを削除する。存在しない場合も成功扱い。
	DeleteByToken(ctx context.Context, token string) error
}

// FeaturedProject は注目プロジェクトとサムネイル画像を結合した読み取り専用ビュー。
type FeaturedProject struct {
	model.Project
	ThumbnailURL string
	ThumbnailAlt string
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
type ProjectRepository interface {
	// List はプロジェクト一覧を返す。publishedOnlyがtrueの場合は公開済みのみ。
	// 並び順はsort_order昇順、次にcreated_at降順。
	List(ctx context.Context, publishedOnly bool) ([]*model.Project, error)

	// ListFeatured はfeatured_orderが設定されたプロジェクトを
	// featured_order昇順でサムネイル付きで返す。
	ListFeatured(ctx context.Context) ([]*FeaturedProject, error)

	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Project, error)

	// FindBySlug は指定スラッグのプロジェクトを取得する。
	// publishedOnlyがtrueの場合は公開済みのみ対象。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.Project, error)

	// SlugExists はスラッグが既に使われているかを返す。excludeIDの行は除外する。
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)

	// Create はプロジェクトを作成し、採番されたIDとタイムスタンプを書き戻す。
	Create(ctx context.Context, p *model.Project) error

	// Update はプロジェクト行全体を上書きし、updated_atを更新する。
	Update(ctx context.Context, p *model.Project) error

	// Delete は指定IDのプロジェクトを削除する。画像行はFKのCASCADEで削除される。
	Delete(ctx context.Context, id int64) error
}

// WritingRepository は記事データの永続化インターフェース。
type WritingRepository interface {
	// List は記事一覧を返す。publishedOnlyがtrueの場合は公開済みのみ。
	// 並び順はsort_order昇順、次にdate降順。
	List(ctx context.Context, publishedOnly bool) ([]*model.WritingPost, error)

	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.WritingPost, error)

	// FindBySlug は指定スラッグの記事を取得する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.WritingPost, error)

	// SlugExists はスラッグが既に使われているかを返す。excludeIDの行は除外する。
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)

	// Create は記事を作成し、採番されたIDとタイムスタンプを書き戻す。
	Create(ctx context.Context, p *model.WritingPost) error

	// Update は記事行全体を上書きし、updated_atを更新する。
	Update(ctx context.Context, p *model.WritingPost) error

	// Delete は指定IDの記事を削除する。画像行はFKのCASCADEで削除される。
	Delete(ctx context.Context, id int64) error
}

// ImageRepository は画像レコードの永続化インターフェース。
// 所有者種別（project/writing）はすべての操作で呼び出し側が明示する。
type ImageRepository interface {
	// ListByOwner は所有エンティティの画像一覧をsort_order昇順で返す。
	ListByOwner(ctx context.Context, owner model.ImageOwner, ownerID int64) ([]*model.Image, error)

	// FindByID は指定IDの画像を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, owner model.ImageOwner, id int64) (*model.Image, error)

	// NextSortOrder は所有エンティティ配下の次のsort_order値（max+1、空なら0）を返す。
	NextSortOrder(ctx context.Context, owner model.ImageOwner, ownerID int64) (int64, error)

	// Create は画像レコードを作成し、採番されたIDを書き戻す。
	Create(ctx context.Context, owner model.ImageOwner, img *model.Image) error

	// DeleteByID は指定IDの画像レコードを削除する。
	DeleteByID(ctx context.Context, owner model.ImageOwner, id int64) error
}

// ExperienceRepository は職務経歴データの永続化インターフェース。
type ExperienceRepository interface {
	// List は職務経歴一覧をsort_order昇順、created_at降順で返す。
	List(ctx context.Context) ([]*model.WorkExperience, error)
	// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.WorkExperience, error)
	// Create はエントリを作成し、採番されたIDを書き戻す。
	Create(ctx context.Context, e *model.WorkExperience) error
	// Update はエントリ行全体を上書きし、updated_atを更新する。
	Update(ctx context.Context, e *model.WorkExperience) error
	// Delete は指定IDのエントリを削除する。
	Delete(ctx context.Context, id int64) error
}

// EducationRepository は学歴データの永続化インターフェース。
type EducationRepository interface {
	// List は学歴一覧をsort_order昇順、created_at降順で返す。
	List(ctx context.Context) ([]*model.Education, error)
	// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Education, error)
	// Create はエントリを作成し、採番されたIDを書き戻す。
	Create(ctx context.Context, e *model.Education) error
	// Update はエントリ行全体を上書きし、updated_atを更新する。
	Update(ctx context.Context, e *model.Education) error
	// Delete は指定IDのエントリを削除する。
	Delete(ctx context.Context, id int64) error
}

// AboutRepository は自己紹介コンテンツ（単一行）の永続化インターフェース。
type AboutRepository interface {
	// Get はid=1の自己紹介コンテンツを取得する。見つからない場合はnilを返す。
	Get(ctx context.Context) (*model.About, error)
	// Update はid=1の行を上書きし、updated_atを更新した結果を返す。
	Update(ctx context.Context, bioParagraphs, highlights []string) (*model.About, error)
}

// ContactRepository は問い合わせデータの永続化インターフェース。
type ContactRepository interface {
	// Create は問い合わせを作成し、採番されたIDを書き戻す。
	Create(ctx context.Context, c *model.ContactSubmission) error
	// List は問い合わせ一覧をcreated_at降順で返す。
	List(ctx context.Context) ([]*model.ContactSubmission, error)
	// UpdateStatus は指定IDのステータスを更新する。対象行がない場合はfalseを返す。
	UpdateStatus(ctx context.Context, id int64, status model.ContactStatus) (bool, error)
	// Delete は指定IDの問い合わせを削除する。対象行がない場合はfalseを返す。
	Delete(ctx context.Context, id int64) (bool, error)
}

// ActivityCacheRepository はGitHub活動サマリキャッシュ（id=1固定行）の永続化インターフェース。
type ActivityCacheRepository interface {
	// Get はキャッシュ行を取得する。行が未初期化の場合はnilを返す。
	Get(ctx context.Context) (*model.ActivityCacheRow, error)
	// Save はキャッシュ行をサマリで上書きし、cached_atを現在時刻にする。
	Save(ctx context.Context, activity *model.GitHubActivity) error
}

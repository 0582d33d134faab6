// Package model はドメインモデルを定義する。
package model

import "time"

// Project はポートフォリオに掲載するプロジェクトを表す。
// TagsはDB上ではJSONエンコードされたTEXTカラムに格納される（変換はrepository層のみが行う）。
type Project struct {
	ID            int64
	Slug          string
	Title         string
	Description   string
	Content       string
	GitHubURL     string
	LiveURL       string
	FeaturedOrder *int64
	Tags          []string
	Published     bool
	SortOrder     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WritingPost はブログ記事を表す。
type WritingPost struct {
	ID           int64
	Slug         string
	Title        string
	Excerpt      string
	Content      string
	Date         string
	ReadTime     string
	Tags         []string
	HeroImageURL string
	HeroImageAlt string
	Published    bool
	SortOrder    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Image はプロジェクトまたは記事に紐づく画像レコードを表す。
type Image struct {
	ID        int64
	OwnerID   int64
	URL       string
	AltText   string
	SortOrder int64
	CreatedAt time.Time
}

// ImageOwner は画像の所有エンティティ種別を表す。
// 旧実装の「project_imagesを試してダメならwriting_post_imagesを試す」を廃し、
// ルート境界で一度だけ解決する。
type ImageOwner string

const (
	// ImageOwnerProject はプロジェクト所有の画像を示す。
	ImageOwnerProject ImageOwner = "projects"
	// ImageOwnerWriting は記事所有の画像を示す。
	ImageOwnerWriting ImageOwner = "writing"
)

// ParseImageOwner はルートパラメータからImageOwnerを解決する。
// 未知の値の場合はfalseを返す。
func ParseImageOwner(s string) (ImageOwner, bool) {
	switch s {
	case string(ImageOwnerProject):
		return ImageOwnerProject, true
	case string(ImageOwnerWriting):
		return ImageOwnerWriting, true
	default:
		return "", false
	}
}

// WorkExperience は職務経歴の1エントリを表す。
type WorkExperience struct {
	ID           int64
	Company      string
	Role         string
	DateRange    string
	Description  string
	Technologies []string
	SortOrder    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Education は学歴の1エントリを表す。
type Education struct {
	ID           int64
	Institution  string
	Degree       string
	Field        string
	DateRange    string
	Description  string
	Achievements []string
	SortOrder    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// About は自己紹介コンテンツを表す。DB上はid=1の単一行。
type About struct {
	ID            int64
	BioParagraphs []string
	Highlights    []string
	UpdatedAt     time.Time
}

// ContactStatus は問い合わせの処理状態を表す。
type ContactStatus string

const (
	// ContactStatusUnread は未読状態。
	ContactStatusUnread ContactStatus = "unread"
	// ContactStatusRead は既読状態。
	ContactStatusRead ContactStatus = "read"
	// ContactStatusArchived はアーカイブ済み状態。
	ContactStatusArchived ContactStatus = "archived"
)

// IsValidContactStatus はステータス値が定義済みのものか検証する。
func IsValidContactStatus(s string) bool {
	switch ContactStatus(s) {
	case ContactStatusUnread, ContactStatusRead, ContactStatusArchived:
		return true
	default:
		return false
	}
}

// ContactSubmission は問い合わせフォームからの送信を表す。
type ContactSubmission struct {
	ID        int64
	Name      string
	Email     string
	Message   string
	Status    ContactStatus
	CreatedAt time.Time
}

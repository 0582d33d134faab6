package handler

import (
	"time"

	"github.com/hitoshi/folio/internal/content"
	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// APIのタイムスタンプはRFC3339で返す。
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// imageResponse は画像のAPIレスポンス。
type imageResponse struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	AltText   string `json:"altText"`
	SortOrder int64  `json:"sortOrder"`
}

func toImageResponses(images []*model.Image) []imageResponse {
	out := make([]imageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, imageResponse{
			ID:        img.ID,
			URL:       img.URL,
			AltText:   img.AltText,
			SortOrder: img.SortOrder,
		})
	}
	return out
}

// projectResponse はプロジェクトのAPIレスポンス。
type projectResponse struct {
	ID            int64           `json:"id"`
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Content       string          `json:"content"`
	GitHubURL     string          `json:"githubUrl"`
	LiveURL       string          `json:"liveUrl"`
	FeaturedOrder *int64          `json:"featuredOrder"`
	Tags          []string        `json:"tags"`
	Published     bool            `json:"published"`
	SortOrder     int64           `json:"sortOrder"`
	Images        []imageResponse `json:"images,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

func toProjectResponse(p *model.Project) projectResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return projectResponse{
		ID:            p.ID,
		Slug:          p.Slug,
		Title:         p.Title,
		Description:   p.Description,
		Content:       p.Content,
		GitHubURL:     p.GitHubURL,
		LiveURL:       p.LiveURL,
		FeaturedOrder: p.FeaturedOrder,
		Tags:          tags,
		Published:     p.Published,
		SortOrder:     p.SortOrder,
		CreatedAt:     formatTimestamp(p.CreatedAt),
		UpdatedAt:     formatTimestamp(p.UpdatedAt),
	}
}

func toProjectDetailResponse(d *content.ProjectDetail) projectResponse {
	resp := toProjectResponse(d.Project)
	resp.Images = toImageResponses(d.Images)
	return resp
}

// featuredProjectResponse は注目プロジェクトのAPIレスポンス。サムネイルを含む。
type featuredProjectResponse struct {
	projectResponse
	ThumbnailURL string `json:"thumbnailUrl"`
	ThumbnailAlt string `json:"thumbnailAlt"`
}

func toFeaturedProjectResponses(projects []*repository.FeaturedProject) []featuredProjectResponse {
	out := make([]featuredProjectResponse, 0, len(projects))
	for _, fp := range projects {
		out = append(out, featuredProjectResponse{
			projectResponse: toProjectResponse(&fp.Project),
			ThumbnailURL:    fp.ThumbnailURL,
			ThumbnailAlt:    fp.ThumbnailAlt,
		})
	}
	return out
}

// writingResponse は記事のAPIレスポンス。
type writingResponse struct {
	ID           int64           `json:"id"`
	Slug         string          `json:"slug"`
	Title        string          `json:"title"`
	Excerpt      string          `json:"excerpt"`
	Content      string          `json:"content"`
	Date         string          `json:"date"`
	ReadTime     string          `json:"readTime"`
	Tags         []string        `json:"tags"`
	HeroImageURL string          `json:"heroImageUrl"`
	HeroImageAlt string          `json:"heroImageAlt"`
	Published    bool            `json:"published"`
	SortOrder    int64           `json:"sortOrder"`
	Images       []imageResponse `json:"images,omitempty"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
}

func toWritingResponse(p *model.WritingPost) writingResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return writingResponse{
		ID:           p.ID,
		Slug:         p.Slug,
		Title:        p.Title,
		Excerpt:      p.Excerpt,
		Content:      p.Content,
		Date:         p.Date,
		ReadTime:     p.ReadTime,
		Tags:         tags,
		HeroImageURL: p.HeroImageURL,
		HeroImageAlt: p.HeroImageAlt,
		Published:    p.Published,
		SortOrder:    p.SortOrder,
		CreatedAt:    formatTimestamp(p.CreatedAt),
		UpdatedAt:    formatTimestamp(p.UpdatedAt),
	}
}

func toWritingDetailResponse(d *content.WritingDetail) writingResponse {
	resp := toWritingResponse(d.Post)
	resp.Images = toImageResponses(d.Images)
	return resp
}

// experienceResponse は職務経歴のAPIレスポンス。
type experienceResponse struct {
	ID           int64    `json:"id"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	DateRange    string   `json:"dateRange"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	SortOrder    int64    `json:"sortOrder"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

func toExperienceResponse(e *model.WorkExperience) experienceResponse {
	technologies := e.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	return experienceResponse{
		ID:           e.ID,
		Company:      e.Company,
		Role:         e.Role,
		DateRange:    e.DateRange,
		Description:  e.Description,
		Technologies: technologies,
		SortOrder:    e.SortOrder,
		CreatedAt:    formatTimestamp(e.CreatedAt),
		UpdatedAt:    formatTimestamp(e.UpdatedAt),
	}
}

// educationResponse は学歴のAPIレスポンス。
type educationResponse struct {
	ID           int64    `json:"id"`
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	Field        string   `json:"field"`
	DateRange    string   `json:"dateRange"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	SortOrder    int64    `json:"sortOrder"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
}

func toEducationResponse(e *model.Education) educationResponse {
	achievements := e.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	return educationResponse{
		ID:           e.ID,
		Institution:  e.Institution,
		Degree:       e.Degree,
		Field:        e.Field,
		DateRange:    e.DateRange,
		Description:  e.Description,
		Achievements: achievements,
		SortOrder:    e.SortOrder,
		CreatedAt:    formatTimestamp(e.CreatedAt),
		UpdatedAt:    formatTimestamp(e.UpdatedAt),
	}
}

// aboutResponse は自己紹介コンテンツのAPIレスポンス。
type aboutResponse struct {
	BioParagraphs []string `json:"bioParagraphs"`
	Highlights    []string `json:"highlights"`
	UpdatedAt     string   `json:"updatedAt"`
}

func toAboutResponse(a *model.About) aboutResponse {
	bio := a.BioParagraphs
	if bio == nil {
		bio = []string{}
	}
	highlights := a.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return aboutResponse{
		BioParagraphs: bio,
		Highlights:    highlights,
		UpdatedAt:     formatTimestamp(a.UpdatedAt),
	}
}

// contactResponse は問い合わせのAPIレスポンス。
type contactResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func toContactResponse(c *model.ContactSubmission) contactResponse {
	return contactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		Status:    string(c.Status),
		CreatedAt: formatTimestamp(c.CreatedAt),
	}
}

// lastCommitResponse は直近コミットのAPIレスポンス。
type lastCommitResponse struct {
	Message  string  `json:"message"`
	HoursAgo float64 `json:"hoursAgo"`
	TimeText string  `json:"timeText"`
	URL      string  `json:"url"`
}

// activityResponse はGitHub活動サマリのAPIレスポンス。
type activityResponse struct {
	IsActive    bool                `json:"isActive"`
	LastCommit  *lastCommitResponse `json:"lastCommit"`
	WeekCommits int                 `json:"weekCommits"`
	Streak      int                 `json:"streak"`
	Languages   map[string]int      `json:"languages"`
	CurrentRepo string              `json:"currentRepo"`
	TimeOfDay   string              `json:"timeOfDay"`
}

func toActivityResponse(a *model.GitHubActivity) activityResponse {
	resp := activityResponse{
		IsActive:    a.IsActive,
		WeekCommits: a.WeekCommits,
		Streak:      a.Streak,
		Languages:   a.Languages,
		CurrentRepo: a.CurrentRepo,
		TimeOfDay:   string(a.TimeOfDay),
	}
	if resp.Languages == nil {
		resp.Languages = map[string]int{}
	}
	if a.LastCommit != nil {
		resp.LastCommit = &lastCommitResponse{
			Message:  a.LastCommit.Message,
			HoursAgo: a.LastCommit.HoursAgo,
			TimeText: a.LastCommit.TimeText,
			URL:      a.LastCommit.URL,
		}
	}
	return resp
}

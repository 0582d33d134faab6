package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// FileDeleter はアップロードファイルの削除に必要なインターフェース。
// uploads.Storeの部分集合として定義する。
type FileDeleter interface {
	Delete(url string) error
}

// ProjectInput はプロジェクトの作成・部分更新の入力。
// ポインタフィールドがnilの場合は「未指定」を意味する。
type ProjectInput struct {
	Slug          *string       `json:"slug"`
	Title         *string       `json:"title"`
	Description   *string       `json:"description"`
	Content       *string       `json:"content"`
	GitHubURL     *string       `json:"githubUrl"`
	LiveURL       *string       `json:"liveUrl"`
	FeaturedOrder NullableInt64 `json:"featuredOrder"`
	Tags          *[]string     `json:"tags"`
	Published     *bool         `json:"published"`
	SortOrder     *int64        `json:"sortOrder"`
}

// ProjectDetail はプロジェクトと紐づく画像の組。詳細取得時に返す。
type ProjectDetail struct {
	Project *model.Project
	Images  []*model.Image
}

// ProjectService はプロジェクトに関するビジネスロジックを提供する。
type ProjectService struct {
	projects repository.ProjectRepository
	images   repository.ImageRepository
	files    FileDeleter
}

// NewProjectService はProjectServiceを生成する。
func NewProjectService(projects repository.ProjectRepository, images repository.ImageRepository, files FileDeleter) *ProjectService {
	return &ProjectService{projects: projects, images: images, files: files}
}

// List はプロジェクト一覧を返す。publishedOnlyがtrueの場合は公開済みのみ。
func (s *ProjectService) List(ctx context.Context, publishedOnly bool) ([]*model.Project, error) {
	return s.projects.List(ctx, publishedOnly)
}

// ListFeatured は注目プロジェクトをサムネイル付きで返す。
func (s *ProjectService) ListFeatured(ctx context.Context) ([]*repository.FeaturedProject, error) {
	return s.projects.ListFeatured(ctx)
}

// GetBySlug はスラッグで公開済みプロジェクトを画像付きで取得する。
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*ProjectDetail, error) {
	p, err := s.projects.FindBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.NewNotFoundError("プロジェクト")
	}
	return s.withImages(ctx, p)
}

// GetByID はIDでプロジェクトを画像付きで取得する。公開状態は問わない（管理用）。
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*ProjectDetail, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.NewNotFoundError("プロジェクト")
	}
	return s.withImages(ctx, p)
}

// Create はプロジェクトを作成する。slug、title、descriptionは必須。
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*model.Project, error) {
	missing := missingRequired([]requiredField{
		{"slug", in.Slug},
		{"title", in.Title},
		{"description", in.Description},
	})
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(strings.Join(missing, ", "))
	}

	exists, err := s.projects.SlugExists(ctx, *in.Slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewSlugConflictError(*in.Slug)
	}

	p := &model.Project{
		Slug:        *in.Slug,
		Title:       *in.Title,
		Description: *in.Description,
		Content:     mergeString("", in.Content),
		GitHubURL:   mergeString("", in.GitHubURL),
		LiveURL:     mergeString("", in.LiveURL),
		Tags:        mergeStrings([]string{}, in.Tags),
		Published:   mergeBool(false, in.Published),
		SortOrder:   mergeInt64(0, in.SortOrder),
	}
	if in.FeaturedOrder.Set {
		p.FeaturedOrder = in.FeaturedOrder.Value
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	slog.Info("project created", slog.Int64("id", p.ID), slog.String("slug", p.Slug))
	return p, nil
}

// Update はプロジェクトを部分更新する。省略されたフィールドは保存済みの値を維持する。
func (s *ProjectService) Update(ctx context.Context, id int64, in ProjectInput) (*model.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.NewNotFoundError("プロジェクト")
	}

	if in.Slug != nil && *in.Slug != p.Slug {
		if strings.TrimSpace(*in.Slug) == "" {
			return nil, model.NewMissingFieldsError("slug")
		}
		exists, err := s.projects.SlugExists(ctx, *in.Slug, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.NewSlugConflictError(*in.Slug)
		}
	}

	p.Slug = mergeString(p.Slug, in.Slug)
	p.Title = mergeString(p.Title, in.Title)
	p.Description = mergeString(p.Description, in.Description)
	p.Content = mergeString(p.Content, in.Content)
	p.GitHubURL = mergeString(p.GitHubURL, in.GitHubURL)
	p.LiveURL = mergeString(p.LiveURL, in.LiveURL)
	p.Tags = mergeStrings(p.Tags, in.Tags)
	p.Published = mergeBool(p.Published, in.Published)
	p.SortOrder = mergeInt64(p.SortOrder, in.SortOrder)
	if in.FeaturedOrder.Set {
		p.FeaturedOrder = in.FeaturedOrder.Value
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Delete はプロジェクトを削除する。紐づく画像レコードとディスク上のファイルも削除する。
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return model.NewNotFoundError("プロジェクト")
	}

	// 先にファイルを削除する。画像行自体はFKのCASCADEで消える。
	images, err := s.images.ListByOwner(ctx, model.ImageOwnerProject, id)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.files.Delete(img.URL); err != nil {
			slog.Warn("failed to delete image file",
				slog.String("url", img.URL),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	slog.Info("project deleted", slog.Int64("id", id), slog.String("slug", p.Slug))
	return nil
}

func (s *ProjectService) withImages(ctx context.Context, p *model.Project) (*ProjectDetail, error) {
	images, err := s.images.ListByOwner(ctx, model.ImageOwnerProject, p.ID)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: p, Images: images}, nil
}

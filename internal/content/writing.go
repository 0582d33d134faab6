package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// WritingInput は記事の作成・部分更新の入力。
// ポインタフィールドがnilの場合は「未指定」を意味する。
type WritingInput struct {
	Slug         *string   `json:"slug"`
	Title        *string   `json:"title"`
	Excerpt      *string   `json:"excerpt"`
	Content      *string   `json:"content"`
	Date         *string   `json:"date"`
	ReadTime     *string   `json:"readTime"`
	Tags         *[]string `json:"tags"`
	HeroImageURL *string   `json:"heroImageUrl"`
	HeroImageAlt *string   `json:"heroImageAlt"`
	Published    *bool     `json:"published"`
	SortOrder    *int64    `json:"sortOrder"`
}

// WritingDetail は記事と紐づく画像の組。詳細取得時に返す。
type WritingDetail struct {
	Post   *model.WritingPost
	Images []*model.Image
}

// WritingService は記事に関するビジネスロジックを提供する。
type WritingService struct {
	posts  repository.WritingRepository
	images repository.ImageRepository
	files  FileDeleter
}

// NewWritingService はWritingServiceを生成する。
func NewWritingService(posts repository.WritingRepository, images repository.ImageRepository, files FileDeleter) *WritingService {
	return &WritingService{posts: posts, images: images, files: files}
}

// List は記事一覧を返す。publishedOnlyがtrueの場合は公開済みのみ。
func (s *WritingService) List(ctx context.Context, publishedOnly bool) ([]*model.WritingPost, error) {
	return s.posts.List(ctx, publishedOnly)
}

// GetBySlug はスラッグで公開済み記事を画像付きで取得する。
func (s *WritingService) GetBySlug(ctx context.Context, slug string) (*WritingDetail, error) {
	p, err := s.posts.FindBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.NewNotFoundError("記事")
	}
	return s.withImages(ctx, p)
}

// GetByID はIDで記事を画像付きで取得する。公開状態は問わない（管理用）。
func (s *WritingService) GetByID(ctx context.Context, id int64) (*WritingDetail, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.NewNotFoundError("記事")
	}
	return s.withImages(ctx, p)
}

// Create は記事を作成する。slug、title、excerpt、content、date、readTimeは必須。
func (s *WritingService) Create(ctx context.Context, in WritingInput) (*model.WritingPost, error) {
	missing := missingRequired([]requiredField{
		{"slug", in.Slug},
		{"title", in.Title},
		{"excerpt", in.Excerpt},
		{"content", in.Content},
		{"date", in.Date},
		{"readTime", in.ReadTime},
	})
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(strings.Join(missing, ", "))
	}

	exists, err := s.posts.SlugExists(ctx, *in.Slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewSlugConflictError(*in.Slug)
	}

	p := &model.WritingPost{
		Slug:         *in.Slug,
		Title:        *in.Title,
		Excerpt:      *in.Excerpt,
		Content:      *in.Content,
		Date:         *in.Date,
		ReadTime:     *in.ReadTime,
		Tags:         mergeStrings([]string{}, in.Tags),
		HeroImageURL: mergeString("", in.HeroImageURL),
		HeroImageAlt: mergeString("", in.HeroImageAlt),
		Published:    mergeBool(false, in.Published),
		SortOrder:    mergeInt64(0, in.SortOrder),
	}

	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}

	slog.Info("writing post created", slog.Int64("id", p.ID), slog.String("slug", p.Slug))
	return p, nil
}

// Update は記事を部分更新する。省略されたフィールドは保存済みの値を維持する。
func (s *WritingService) Update(ctx context.Context, id int64, in WritingInput) (*model.WritingPost, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.NewNotFoundError("記事")
	}

	if in.Slug != nil && *in.Slug != p.Slug {
		if strings.TrimSpace(*in.Slug) == "" {
			return nil, model.NewMissingFieldsError("slug")
		}
		exists, err := s.posts.SlugExists(ctx, *in.Slug, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.NewSlugConflictError(*in.Slug)
		}
	}

	p.Slug = mergeString(p.Slug, in.Slug)
	p.Title = mergeString(p.Title, in.Title)
	p.Excerpt = mergeString(p.Excerpt, in.Excerpt)
	p.Content = mergeString(p.Content, in.Content)
	p.Date = mergeString(p.Date, in.Date)
	p.ReadTime = mergeString(p.ReadTime, in.ReadTime)
	p.Tags = mergeStrings(p.Tags, in.Tags)
	p.HeroImageURL = mergeString(p.HeroImageURL, in.HeroImageURL)
	p.HeroImageAlt = mergeString(p.HeroImageAlt, in.HeroImageAlt)
	p.Published = mergeBool(p.Published, in.Published)
	p.SortOrder = mergeInt64(p.SortOrder, in.SortOrder)

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Delete は記事を削除する。紐づく画像レコードとディスク上のファイルも削除する。
func (s *WritingService) Delete(ctx context.Context, id int64) error {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return model.NewNotFoundError("記事")
	}

	// 先にファイルを削除する。画像行自体はFKのCASCADEで消える。
	images, err := s.images.ListByOwner(ctx, model.ImageOwnerWriting, id)
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

	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete writing post: %w", err)
	}

	slog.Info("writing post deleted", slog.Int64("id", id), slog.String("slug", p.Slug))
	return nil
}

func (s *WritingService) withImages(ctx context.Context, p *model.WritingPost) (*WritingDetail, error) {
	images, err := s.images.ListByOwner(ctx, model.ImageOwnerWriting, p.ID)
	if err != nil {
		return nil, err
	}
	return &WritingDetail{Post: p, Images: images}, nil
}

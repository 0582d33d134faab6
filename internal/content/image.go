package content

import (
	"context"
	"io"
	"log/slog"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// FileStore は画像ファイルの保存・削除に必要なインターフェース。
// uploads.Storeの部分集合として定義する。
type FileStore interface {
	Save(owner model.ImageOwner, ownerID int64, mimeType string, r io.Reader) (string, error)
	Delete(url string) error
}

// ImageService は画像アップロード・削除のビジネスロジックを提供する。
// 所有者種別（projects/writing）はルート境界で解決済みのものを受け取る。
type ImageService struct {
	projects repository.ProjectRepository
	posts    repository.WritingRepository
	images   repository.ImageRepository
	store    FileStore
}

// NewImageService はImageServiceを生成する。
func NewImageService(
	projects repository.ProjectRepository,
	posts repository.WritingRepository,
	images repository.ImageRepository,
	store FileStore,
) *ImageService {
	return &ImageService{projects: projects, posts: posts, images: images, store: store}
}

// ownerExists は所有エンティティの存在を確認する。
func (s *ImageService) ownerExists(ctx context.Context, owner model.ImageOwner, ownerID int64) (bool, error) {
	switch owner {
	case model.ImageOwnerWriting:
		p, err := s.posts.FindByID(ctx, ownerID)
		return p != nil, err
	default:
		p, err := s.projects.FindByID(ctx, ownerID)
		return p != nil, err
	}
}

// Upload は画像を保存し、末尾のsort_orderで画像レコードを作成する。
// MIME検証はファイル書き込み前にstore側で行われる。
func (s *ImageService) Upload(ctx context.Context, owner model.ImageOwner, ownerID int64, mimeType, altText string, r io.Reader) (*model.Image, error) {
	exists, err := s.ownerExists(ctx, owner, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewNotFoundError(ownerEntityName(owner))
	}

	url, err := s.store.Save(owner, ownerID, mimeType, r)
	if err != nil {
		return nil, err
	}

	sortOrder, err := s.images.NextSortOrder(ctx, owner, ownerID)
	if err != nil {
		return nil, err
	}

	img := &model.Image{
		OwnerID:   ownerID,
		URL:       url,
		AltText:   altText,
		SortOrder: sortOrder,
	}
	if err := s.images.Create(ctx, owner, img); err != nil {
		// レコード作成に失敗した場合は書き込んだファイルを残さない
		if delErr := s.store.Delete(url); delErr != nil {
			slog.Warn("failed to clean up orphan upload", slog.String("url", url))
		}
		return nil, err
	}

	slog.Info("image uploaded",
		slog.String("owner", string(owner)),
		slog.Int64("owner_id", ownerID),
		slog.String("url", url),
	)
	return img, nil
}

// Delete は画像レコードと対応するファイルを削除する。
// ファイルが既に存在しない場合は無視する。
func (s *ImageService) Delete(ctx context.Context, owner model.ImageOwner, id int64) error {
	img, err := s.images.FindByID(ctx, owner, id)
	if err != nil {
		return err
	}
	if img == nil {
		return model.NewNotFoundError("画像")
	}

	if err := s.store.Delete(img.URL); err != nil {
		slog.Warn("failed to delete image file",
			slog.String("url", img.URL),
			slog.String("error", err.Error()),
		)
	}

	return s.images.DeleteByID(ctx, owner, id)
}

// ownerEntityName は所有者種別のエラーメッセージ用の名称を返す。
func ownerEntityName(owner model.ImageOwner) string {
	if owner == model.ImageOwnerWriting {
		return "記事"
	}
	return "プロジェクト"
}

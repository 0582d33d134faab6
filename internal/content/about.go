package content

import (
	"context"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// AboutInput は自己紹介コンテンツの更新入力。
// PUTで配列全体を置き換える。空白のみの要素は保存前に取り除かれる。
type AboutInput struct {
	BioParagraphs []string `json:"bioParagraphs"`
	Highlights    []string `json:"highlights"`
}

// AboutService は自己紹介コンテンツに関するビジネスロジックを提供する。
type AboutService struct {
	repo repository.AboutRepository
}

// NewAboutService はAboutServiceを生成する。
func NewAboutService(repo repository.AboutRepository) *AboutService {
	return &AboutService{repo: repo}
}

// Get は自己紹介コンテンツを取得する。
func (s *AboutService) Get(ctx context.Context) (*model.About, error) {
	a, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, model.NewNotFoundError("自己紹介コンテンツ")
	}
	return a, nil
}

// Update は自己紹介コンテンツの配列全体を置き換える。
func (s *AboutService) Update(ctx context.Context, in AboutInput) (*model.About, error) {
	a, err := s.repo.Update(ctx, filterBlank(in.BioParagraphs), filterBlank(in.Highlights))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, model.NewNotFoundError("自己紹介コンテンツ")
	}
	return a, nil
}

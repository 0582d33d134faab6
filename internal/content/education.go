package content

import (
	"context"
	"strings"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// EducationInput は学歴の作成・部分更新の入力。
type EducationInput struct {
	Institution  *string   `json:"institution"`
	Degree       *string   `json:"degree"`
	Field        *string   `json:"field"`
	DateRange    *string   `json:"dateRange"`
	Description  *string   `json:"description"`
	Achievements *[]string `json:"achievements"`
	SortOrder    *int64    `json:"sortOrder"`
}

// EducationService は学歴に関するビジネスロジックを提供する。
type EducationService struct {
	repo repository.EducationRepository
}

// NewEducationService はEducationServiceを生成する。
func NewEducationService(repo repository.EducationRepository) *EducationService {
	return &EducationService{repo: repo}
}

// List は学歴一覧を返す。
func (s *EducationService) List(ctx context.Context) ([]*model.Education, error) {
	return s.repo.List(ctx)
}

// Create はエントリを作成する。institution、degree、dateRangeは必須。
func (s *EducationService) Create(ctx context.Context, in EducationInput) (*model.Education, error) {
	missing := missingRequired([]requiredField{
		{"institution", in.Institution},
		{"degree", in.Degree},
		{"dateRange", in.DateRange},
	})
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(strings.Join(missing, ", "))
	}

	e := &model.Education{
		Institution:  *in.Institution,
		Degree:       *in.Degree,
		Field:        mergeString("", in.Field),
		DateRange:    *in.DateRange,
		Description:  mergeString("", in.Description),
		Achievements: mergeStrings([]string{}, in.Achievements),
		SortOrder:    mergeInt64(0, in.SortOrder),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update はエントリを部分更新する。省略されたフィールドは保存済みの値を維持する。
func (s *EducationService) Update(ctx context.Context, id int64, in EducationInput) (*model.Education, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, model.NewNotFoundError("学歴")
	}

	e.Institution = mergeString(e.Institution, in.Institution)
	e.Degree = mergeString(e.Degree, in.Degree)
	e.Field = mergeString(e.Field, in.Field)
	e.DateRange = mergeString(e.DateRange, in.DateRange)
	e.Description = mergeString(e.Description, in.Description)
	e.Achievements = mergeStrings(e.Achievements, in.Achievements)
	e.SortOrder = mergeInt64(e.SortOrder, in.SortOrder)

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete はエントリを削除する。
func (s *EducationService) Delete(ctx context.Context, id int64) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return model.NewNotFoundError("学歴")
	}
	return s.repo.Delete(ctx, id)
}

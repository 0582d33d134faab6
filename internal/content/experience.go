package content

import (
	"context"
	"strings"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// ExperienceInput は職務経歴の作成・部分更新の入力。
type ExperienceInput struct {
	Company      *string   `json:"company"`
	Role         *string   `json:"role"`
	DateRange    *string   `json:"dateRange"`
	Description  *string   `json:"description"`
	Technologies *[]string `json:"technologies"`
	SortOrder    *int64    `json:"sortOrder"`
}

// ExperienceService は職務経歴に関するビジネスロジックを提供する。
type ExperienceService struct {
	repo repository.ExperienceRepository
}

// NewExperienceService はExperienceServiceを生成する。
func NewExperienceService(repo repository.ExperienceRepository) *ExperienceService {
	return &ExperienceService{repo: repo}
}

// List は職務経歴一覧を返す。
func (s *ExperienceService) List(ctx context.Context) ([]*model.WorkExperience, error) {
	return s.repo.List(ctx)
}

// Create はエントリを作成する。company、role、dateRange、descriptionは必須。
func (s *ExperienceService) Create(ctx context.Context, in ExperienceInput) (*model.WorkExperience, error) {
	missing := missingRequired([]requiredField{
		{"company", in.Company},
		{"role", in.Role},
		{"dateRange", in.DateRange},
		{"description", in.Description},
	})
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(strings.Join(missing, ", "))
	}

	e := &model.WorkExperience{
		Company:      *in.Company,
		Role:         *in.Role,
		DateRange:    *in.DateRange,
		Description:  *in.Description,
		Technologies: mergeStrings([]string{}, in.Technologies),
		SortOrder:    mergeInt64(0, in.SortOrder),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update はエントリを部分更新する。省略されたフィールドは保存済みの値を維持する。
func (s *ExperienceService) Update(ctx context.Context, id int64, in ExperienceInput) (*model.WorkExperience, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, model.NewNotFoundError("職務経歴")
	}

	e.Company = mergeString(e.Company, in.Company)
	e.Role = mergeString(e.Role, in.Role)
	e.DateRange = mergeString(e.DateRange, in.DateRange)
	e.Description = mergeString(e.Description, in.Description)
	e.Technologies = mergeStrings(e.Technologies, in.Technologies)
	e.SortOrder = mergeInt64(e.SortOrder, in.SortOrder)

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete はエントリを削除する。
func (s *ExperienceService) Delete(ctx context.Context, id int64) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return model.NewNotFoundError("職務経歴")
	}
	return s.repo.Delete(ctx, id)
}

package content

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

type mockEducationRepo struct {
	listFn     func(ctx context.Context) ([]*model.Education, error)
	findByIDFn func(ctx context.Context, id int64) (*model.Education, error)
	createFn   func(ctx context.Context, e *model.Education) error
	updateFn   func(ctx context.Context, e *model.Education) error
	deleteFn   func(ctx context.Context, id int64) error
}

func (m *mockEducationRepo) List(ctx context.Context) ([]*model.Education, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockEducationRepo) FindByID(ctx context.Context, id int64) (*model.Education, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockEducationRepo) Create(ctx context.Context, e *model.Education) error {
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	e.ID = 1
	return nil
}

func (m *mockEducationRepo) Update(ctx context.Context, e *model.Education) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, e)
	}
	return nil
}

func (m *mockEducationRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

var _ repository.EducationRepository = (*mockEducationRepo)(nil)

// 必須フィールドの検証。fieldとdescriptionは任意。
func TestEducationService_Create_MissingFields(t *testing.T) {
	svc := NewEducationService(&mockEducationRepo{})

	_, err := svc.Create(context.Background(), EducationInput{
		Degree: strPtr("学士（情報工学）"),
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.Message != "必須フィールドが不足しています: institution, dateRange" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestEducationService_Create(t *testing.T) {
	var created *model.Education
	repo := &mockEducationRepo{
		createFn: func(_ context.Context, e *model.Education) error {
			e.ID = 2
			created = e
			return nil
		},
	}
	svc := NewEducationService(repo)

	e, err := svc.Create(context.Background(), EducationInput{
		Institution:  strPtr("東京工科大学"),
		Degree:       strPtr("学士（情報工学）"),
		DateRange:    strPtr("2016 - 2020"),
		Achievements: &[]string{"卒業研究優秀賞"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if e.ID != 2 {
		t.Errorf("id = %d, want 2", e.ID)
	}
	if len(created.Achievements) != 1 {
		t.Errorf("achievements = %v", created.Achievements)
	}
	// 任意フィールドは空文字でよい
	if created.Field != "" || created.Description != "" {
		t.Errorf("optional fields = %+v", created)
	}
}

// 部分更新とNotFoundの検証
func TestEducationService_Update(t *testing.T) {
	existing := &model.Education{
		ID:          1,
		Institution: "東京工科大学",
		Degree:      "学士（情報工学）",
		DateRange:   "2016 - 2020",
	}
	var updated *model.Education
	repo := &mockEducationRepo{
		findByIDFn: func(_ context.Context, id int64) (*model.Education, error) {
			if id == 1 {
				return existing, nil
			}
			return nil, nil
		},
		updateFn: func(_ context.Context, e *model.Education) error {
			updated = e
			return nil
		},
	}
	svc := NewEducationService(repo)
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, EducationInput{Field: strPtr("情報工学")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Field != "情報工学" || updated.Institution != "東京工科大学" {
		t.Errorf("updated = %+v", updated)
	}

	var apiErr *model.APIError
	if _, err := svc.Update(ctx, 99, EducationInput{}); !errors.As(err, &apiErr) || apiErr.Category != model.CategoryNotFound {
		t.Errorf("Update(99) error = %v, want not_found", err)
	}
}

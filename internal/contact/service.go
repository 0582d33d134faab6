// Package contact は問い合わせフォームのビジネスロジックを提供する。
package contact

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
	"github.com/hitoshi/folio/internal/security"
)

// emailPattern はメールアドレス形式の簡易検証パターン。
// RFC完全準拠は狙わず「user@domain.tld」の形だけ要求する。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmissionInput は問い合わせ送信の入力。
type SubmissionInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Service は問い合わせに関するビジネスロジックを提供する。
type Service struct {
	repo      repository.ContactRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(repo repository.ContactRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

// Submit は問い合わせを検証・サニタイズして保存する。
// name、email、messageは必須。emailは形式を検証する。
func (s *Service) Submit(ctx context.Context, in SubmissionInput) (*model.ContactSubmission, error) {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(in.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(strings.Join(missing, ", "))
	}

	email := strings.TrimSpace(in.Email)
	if !emailPattern.MatchString(email) {
		return nil, model.NewInvalidEmailError()
	}

	c := &model.ContactSubmission{
		Name:    s.sanitizer.Sanitize(in.Name),
		Email:   email,
		Message: s.sanitizer.Sanitize(in.Message),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.Info("contact submission received", slog.Int64("id", c.ID))
	return c, nil
}

// List は問い合わせ一覧を新しい順で返す。
func (s *Service) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	return s.repo.List(ctx)
}

// UpdateStatus は問い合わせのステータスを更新する。
// 未定義のステータス値は400、対象行がない場合は404エラー。
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !model.IsValidContactStatus(status) {
		return model.NewInvalidStatusError(status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, model.ContactStatus(status))
	if err != nil {
		return err
	}
	if !updated {
		return model.NewNotFoundError("問い合わせ")
	}
	return nil
}

// Delete は問い合わせを削除する。対象行がない場合は404エラー。
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return model.NewNotFoundError("問い合わせ")
	}
	return nil
}

// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// カテゴリがHTTPステータスへのマッピングを決める。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, not_found, conflict, auth, forbidden, upstream, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// エラーカテゴリ
const (
	CategoryValidation = "validation"
	CategoryNotFound   = "not_found"
	CategoryConflict   = "conflict"
	CategoryAuth       = "auth"
	CategoryForbidden  = "forbidden"
	CategoryUpstream   = "upstream"
	CategorySystem     = "system"
)

// 定義済みエラーコード
const (
	ErrCodeMissingFields   = "MISSING_FIELDS"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeInvalidEmail    = "INVALID_EMAIL"
	ErrCodeSlugConflict    = "SLUG_CONFLICT"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInvalidFileType = "INVALID_FILE_TYPE"
	ErrCodeInvalidStatus   = "INVALID_STATUS"
	ErrCodeUpstreamFailed  = "UPSTREAM_FAILED"
)

// NewMissingFieldsError は必須フィールド不足エラーを生成する。
func NewMissingFieldsError(fields string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  fmt.Sprintf("必須フィールドが不足しています: %s", fields),
		Category: CategoryValidation,
		Action:   "不足しているフィールドを入力してください。",
	}
}

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("不正なリクエストです: %s", reason),
		Category: CategoryValidation,
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewInvalidEmailError はメールアドレス形式エラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "メールアドレスの形式が正しくありません。",
		Category: CategoryValidation,
		Action:   "正しいメールアドレスを入力してください。",
	}
}

// NewSlugConflictError はスラッグ重複エラーを生成する。
func NewSlugConflictError(slug string) *APIError {
	return &APIError{
		Code:     ErrCodeSlugConflict,
		Message:  fmt.Sprintf("このスラッグは既に使用されています: %s", slug),
		Category: CategoryConflict,
		Action:   "別のスラッグを指定してください。",
	}
}

// NewNotFoundError はエンティティ未検出エラーを生成する。
func NewNotFoundError(entity string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("%sが見つかりません。", entity),
		Category: CategoryNotFound,
		Action:   "IDまたはスラッグを確認してください。",
	}
}

// NewUnauthorizedError は認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: CategoryAuth,
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は認可エラー（認証済みだが許可されていない）を生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この管理画面へのアクセスは許可されていません。",
		Category: CategoryForbidden,
		Action:   "許可されたアカウントでログインしてください。",
	}
}

// NewInvalidFileTypeError はアップロードファイル種別エラーを生成する。
func NewInvalidFileTypeError(mime string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFileType,
		Message:  fmt.Sprintf("許可されていないファイル形式です: %s", mime),
		Category: CategoryValidation,
		Action:   "JPEG、PNG、WebP、GIFのいずれかをアップロードしてください。",
	}
}

// NewInvalidStatusError は問い合わせステータス不正エラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("不正なステータスです: %s", status),
		Category: CategoryValidation,
		Action:   "unread、read、archivedのいずれかを指定してください。",
	}
}

// NewUpstreamError は外部プロバイダー障害エラーを生成する。
func NewUpstreamError(provider string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamFailed,
		Message:  fmt.Sprintf("%sとの通信に失敗しました。", provider),
		Category: CategoryUpstream,
		Action:   "しばらく待ってから再度お試しください。",
	}
}

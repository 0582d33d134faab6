package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/folio/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// StatusForCategory はエラーカテゴリをHTTPステータスコードにマッピングする。
func StatusForCategory(category string) int {
	switch category {
	case model.CategoryValidation:
		return http.StatusBadRequest
	case model.CategoryNotFound:
		return http.StatusNotFound
	case model.CategoryConflict:
		return http.StatusConflict
	case model.CategoryAuth:
		return http.StatusUnauthorized
	case model.CategoryForbidden:
		return http.StatusForbidden
	case model.CategoryUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteAPIError はAPIErrorをカテゴリ由来のステータスコードで書き込む。
func WriteAPIError(w http.ResponseWriter, apiErr *model.APIError) {
	WriteErrorResponse(w, StatusForCategory(apiErr.Category), apiErr)
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: model.CategorySystem,
		Action:   "しばらく待ってから再度お試しください。",
	})
}

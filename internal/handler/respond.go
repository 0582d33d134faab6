// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/folio/internal/middleware"
	"github.com/hitoshi/folio/internal/model"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIErrorはカテゴリからステータスを決め、それ以外は内部サーバーエラーとして扱う。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// writeInvalidBody はリクエストボディの解析失敗レスポンスを書き込む。
func writeInvalidBody(w http.ResponseWriter) {
	middleware.WriteAPIError(w, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
}

// idParam はchiのURLパラメータ{id}をint64として取得する。
// 数値でない場合はfalseを返す（呼び出し側で404を返す）。
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeNotFound はエンティティ未検出レスポンスを書き込む。
func writeNotFound(w http.ResponseWriter, entity string) {
	middleware.WriteAPIError(w, model.NewNotFoundError(entity))
}

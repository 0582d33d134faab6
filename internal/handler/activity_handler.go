package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/folio/internal/model"
)

// ActivityServiceInterface は活動サマリハンドラーが必要とするサービスインターフェース。
type ActivityServiceInterface interface {
	GetActivity(ctx context.Context) (*model.GitHubActivity, error)
}

// ActivityHandler はGitHub活動サマリのHTTPハンドラー。
type ActivityHandler struct {
	service ActivityServiceInterface
}

// NewActivityHandler はActivityHandlerを生成する。
func NewActivityHandler(service ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Get は活動サマリを返す。
// API障害時もサービス層がフォールバックを返すため、このエンドポイントは
// 基本的に200を返す。
// GET /api/github/activity
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activity, err := h.service.GetActivity(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityResponse(activity))
}

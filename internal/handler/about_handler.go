package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/folio/internal/content"
	"github.com/hitoshi/folio/internal/model"
)

// AboutServiceInterface は自己紹介ハンドラーが必要とするサービスインターフェース。
type AboutServiceInterface interface {
	Get(ctx context.Context) (*model.About, error)
	Update(ctx context.Context, in content.AboutInput) (*model.About, error)
}

// AboutHandler は自己紹介コンテンツのHTTPハンドラー。
type AboutHandler struct {
	service AboutServiceInterface
}

// NewAboutHandler はAboutHandlerを生成する。
func NewAboutHandler(service AboutServiceInterface) *AboutHandler {
	return &AboutHandler{service: service}
}

// Get は自己紹介コンテンツを返す。
// GET /api/about
func (h *AboutHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAboutResponse(a))
}

// Update は自己紹介コンテンツの配列全体を置き換える。
// PUT /api/admin/about
func (h *AboutHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in content.AboutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	a, err := h.service.Update(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAboutResponse(a))
}

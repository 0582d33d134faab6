package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/folio/internal/content"
	"github.com/hitoshi/folio/internal/model"
)

// WritingServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type WritingServiceInterface interface {
	List(ctx context.Context, publishedOnly bool) ([]*model.WritingPost, error)
	GetBySlug(ctx context.Context, slug string) (*content.WritingDetail, error)
	GetByID(ctx context.Context, id int64) (*content.WritingDetail, error)
	Create(ctx context.Context, in content.WritingInput) (*model.WritingPost, error)
	Update(ctx context.Context, id int64, in content.WritingInput) (*model.WritingPost, error)
	Delete(ctx context.Context, id int64) error
}

// WritingHandler は記事のHTTPハンドラー。
type WritingHandler struct {
	service WritingServiceInterface
}

// NewWritingHandler はWritingHandlerを生成する。
func NewWritingHandler(service WritingServiceInterface) *WritingHandler {
	return &WritingHandler{service: service}
}

// ListPublic は公開済み記事一覧を返す。
// GET /api/writing
func (h *WritingHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context(), true)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]writingResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toWritingResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetBySlug はスラッグで公開済み記事を画像付きで返す。
// GET /api/writing/{slug}
func (h *WritingHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWritingDetailResponse(detail))
}

// ListAdmin は全記事一覧（非公開含む）を返す。
// GET /api/admin/writing
func (h *WritingHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context(), false)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]writingResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toWritingResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetAdmin はIDで記事を画像付きで返す。公開状態は問わない。
// GET /api/admin/writing/{id}
func (h *WritingHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "記事")
		return
	}

	detail, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWritingDetailResponse(detail))
}

// Create は記事を作成する。
// POST /api/admin/writing
func (h *WritingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in content.WritingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWritingResponse(p))
}

// Update は記事を部分更新する。
// PUT /api/admin/writing/{id}
func (h *WritingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "記事")
		return
	}

	var in content.WritingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWritingResponse(p))
}

// Delete は記事を削除する。
// DELETE /api/admin/writing/{id}
func (h *WritingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "記事")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

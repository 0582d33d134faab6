package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/folio/internal/content"
	"github.com/hitoshi/folio/internal/model"
)

// EducationServiceInterface は学歴ハンドラーが必要とするサービスインターフェース。
type EducationServiceInterface interface {
	List(ctx context.Context) ([]*model.Education, error)
	Create(ctx context.Context, in content.EducationInput) (*model.Education, error)
	Update(ctx context.Context, id int64, in content.EducationInput) (*model.Education, error)
	Delete(ctx context.Context, id int64) error
}

// EducationHandler は学歴のHTTPハンドラー。
type EducationHandler struct {
	service EducationServiceInterface
}

// NewEducationHandler はEducationHandlerを生成する。
func NewEducationHandler(service EducationServiceInterface) *EducationHandler {
	return &EducationHandler{service: service}
}

// List は学歴一覧を返す。
// GET /api/education
func (h *EducationHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]educationResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEducationResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create はエントリを作成する。
// POST /api/admin/education
func (h *EducationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in content.EducationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	e, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEducationResponse(e))
}

// Update はエントリを部分更新する。
// PUT /api/admin/education/{id}
func (h *EducationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "学歴")
		return
	}

	var in content.EducationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	e, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEducationResponse(e))
}

// Delete はエントリを削除する。
// DELETE /api/admin/education/{id}
func (h *EducationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "学歴")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/folio/internal/content"
	"github.com/hitoshi/folio/internal/model"
)

// ExperienceServiceInterface は職務経歴ハンドラーが必要とするサービスインターフェース。
type ExperienceServiceInterface interface {
	List(ctx context.Context) ([]*model.WorkExperience, error)
	Create(ctx context.Context, in content.ExperienceInput) (*model.WorkExperience, error)
	Update(ctx context.Context, id int64, in content.ExperienceInput) (*model.WorkExperience, error)
	Delete(ctx context.Context, id int64) error
}

// ExperienceHandler は職務経歴のHTTPハンドラー。
type ExperienceHandler struct {
	service ExperienceServiceInterface
}

// NewExperienceHandler はExperienceHandlerを生成する。
func NewExperienceHandler(service ExperienceServiceInterface) *ExperienceHandler {
	return &ExperienceHandler{service: service}
}

// List は職務経歴一覧を返す。
// GET /api/experience
func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]experienceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toExperienceResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create はエントリを作成する。
// POST /api/admin/experience
func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in content.ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	e, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExperienceResponse(e))
}

// Update はエントリを部分更新する。
// PUT /api/admin/experience/{id}
func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "職務経歴")
		return
	}

	var in content.ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	e, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExperienceResponse(e))
}

// Delete はエントリを削除する。
// DELETE /api/admin/experience/{id}
func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "職務経歴")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

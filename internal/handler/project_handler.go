package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/folio/internal/content"
	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	List(ctx context.Context, publishedOnly bool) ([]*model.Project, error)
	ListFeatured(ctx context.Context) ([]*repository.FeaturedProject, error)
	GetBySlug(ctx context.Context, slug string) (*content.ProjectDetail, error)
	GetByID(ctx context.Context, id int64) (*content.ProjectDetail, error)
	Create(ctx context.Context, in content.ProjectInput) (*model.Project, error)
	Update(ctx context.Context, id int64, in content.ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectHandler はプロジェクトのHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// ListPublic は公開済みプロジェクト一覧を返す。
// GET /api/projects
func (h *ProjectHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context(), true)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListFeatured は注目プロジェクト一覧をサムネイル付きで返す。
// GET /api/projects/featured
func (h *ProjectHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListFeatured(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeaturedProjectResponses(projects))
}

// GetBySlug はスラッグで公開済みプロジェクトを画像付きで返す。
// GET /api/projects/{slug}
func (h *ProjectHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDetailResponse(detail))
}

// ListAdmin は全プロジェクト一覧（非公開含む）を返す。
// GET /api/admin/projects
func (h *ProjectHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context(), false)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetAdmin はIDでプロジェクトを画像付きで返す。公開状態は問わない。
// GET /api/admin/projects/{id}
func (h *ProjectHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "プロジェクト")
		return
	}

	detail, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDetailResponse(detail))
}

// Create はプロジェクトを作成する。
// POST /api/admin/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in content.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

// Update はプロジェクトを部分更新する。
// PUT /api/admin/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "プロジェクト")
		return
	}

	var in content.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// Delete はプロジェクトを削除する。
// DELETE /api/admin/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "プロジェクト")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

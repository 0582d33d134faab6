package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/folio/internal/middleware"
	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/uploads"
)

// maxUploadSize はアップロードの最大サイズ（10MB）。
const maxUploadSize = 10 << 20

// ImageServiceInterface はアップロードハンドラーが必要とするサービスインターフェース。
type ImageServiceInterface interface {
	Upload(ctx context.Context, owner model.ImageOwner, ownerID int64, mimeType, altText string, r io.Reader) (*model.Image, error)
	Delete(ctx context.Context, owner model.ImageOwner, id int64) error
}

// UploadMetrics はアップロードのメトリクス記録インターフェース。
type UploadMetrics interface {
	RecordUpload(owner string)
}

// UploadHandler は画像アップロード・削除のHTTPハンドラー。
type UploadHandler struct {
	service ImageServiceInterface
	metrics UploadMetrics
}

// NewUploadHandler はUploadHandlerを生成する。metricsはnil可。
func NewUploadHandler(service ImageServiceInterface, metrics UploadMetrics) *UploadHandler {
	return &UploadHandler{service: service, metrics: metrics}
}

// Upload は所有者種別を固定したアップロードハンドラー関数を返す。
// POST /api/admin/projects/{id}/images, POST /api/admin/writing/{id}/images
func (h *UploadHandler) Upload(owner model.ImageOwner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeNotFound(w, "所有エンティティ")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			middleware.WriteAPIError(w, model.NewInvalidRequestError("マルチパートフォームの解析に失敗しました"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			middleware.WriteAPIError(w, model.NewInvalidRequestError("imageフィールドがありません"))
			return
		}
		defer file.Close()

		// MIME検証は書き込み前。不許可ならディスクに触れない。
		mimeType := header.Header.Get("Content-Type")
		if !uploads.IsAllowedMIME(mimeType) {
			middleware.WriteAPIError(w, model.NewInvalidFileTypeError(mimeType))
			return
		}

		img, err := h.service.Upload(r.Context(), owner, id, mimeType, r.FormValue("alt"), file)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		if h.metrics != nil {
			h.metrics.RecordUpload(string(owner))
		}
		writeJSON(w, http.StatusCreated, imageResponse{
			ID:        img.ID,
			URL:       img.URL,
			AltText:   img.AltText,
			SortOrder: img.SortOrder,
		})
	}
}

// Delete は画像レコードとファイルを削除する。
// DELETE /api/admin/images/{owner}/{id}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := model.ParseImageOwner(chi.URLParam(r, "owner"))
	if !ok {
		writeNotFound(w, "画像")
		return
	}

	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "画像")
		return
	}

	if err := h.service.Delete(r.Context(), owner, id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/folio/internal/contact"
	"github.com/hitoshi/folio/internal/model"
)

// ContactServiceInterface は問い合わせハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	Submit(ctx context.Context, in contact.SubmissionInput) (*model.ContactSubmission, error)
	List(ctx context.Context) ([]*model.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// ContactMetrics は問い合わせ送信のメトリクス記録インターフェース。
type ContactMetrics interface {
	RecordContactSubmission()
}

// ContactHandler は問い合わせのHTTPハンドラー。
type ContactHandler struct {
	service ContactServiceInterface
	metrics ContactMetrics
}

// NewContactHandler はContactHandlerを生成する。metricsはnil可。
func NewContactHandler(service ContactServiceInterface, metrics ContactMetrics) *ContactHandler {
	return &ContactHandler{service: service, metrics: metrics}
}

// Submit は問い合わせを受け付ける。
// POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in contact.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeInvalidBody(w)
		return
	}

	c, err := h.service.Submit(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordContactSubmission()
	}
	writeJSON(w, http.StatusCreated, toContactResponse(c))
}

// List は問い合わせ一覧を新しい順で返す。
// GET /api/admin/contact
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]contactResponse, 0, len(submissions))
	for _, c := range submissions {
		out = append(out, toContactResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// updateStatusRequest はステータス更新リクエストのボディ。
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus は問い合わせのステータスを更新する。
// PUT /api/admin/contact/{id}/status
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "問い合わせ")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Delete は問い合わせを削除する。
// DELETE /api/admin/contact/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeNotFound(w, "問い合わせ")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

package handler

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/folio/internal/uploads"
)

// UploadResolver はアップロードファイルのパス解決インターフェース。
// uploads.Storeの部分集合として定義する。
type UploadResolver interface {
	Resolve(relPath string) (string, error)
}

// UploadsServeHandler はアップロード済みファイルの配信ハンドラー。
type UploadsServeHandler struct {
	resolver UploadResolver
}

// NewUploadsServeHandler はUploadsServeHandlerを生成する。
func NewUploadsServeHandler(resolver UploadResolver) *UploadsServeHandler {
	return &UploadsServeHandler{resolver: resolver}
}

// Serve はアップロード済みファイルを配信する。
// パストラバーサルと許可リスト外の拡張子は404として扱う。
// GET /api/uploads/*
func (h *UploadsServeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")

	localPath, err := h.resolver.Resolve(rel)
	if err != nil {
		writeNotFound(w, "ファイル")
		return
	}

	contentType, ok := uploads.ContentTypeForPath(localPath)
	if !ok {
		writeNotFound(w, "ファイル")
		return
	}

	f, err := os.Open(localPath)
	if err != nil {
		writeNotFound(w, "ファイル")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeNotFound(w, "ファイル")
		return
	}

	// ファイル名が衝突しない命名のため、長期キャッシュを許可する
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// Package uploads は画像ファイルのディスク保存と配信パス解決を提供する。
package uploads

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/folio/internal/model"
)

// URLPrefix はアップロードファイルの公開URLプレフィックス。
const URLPrefix = "/api/uploads/"

// allowedMIMETypes はアップロードを許可するMIMEタイプと保存時の拡張子。
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// extContentTypes は配信時の拡張子からContent-Typeへのマッピング。
var extContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// Store は画像ファイルのディスク保存を管理する。
// ファイルはrootDir/{projects|writing}/配下に保存され、
// URLは /api/uploads/{owner}/{filename} の形式になる。
type Store struct {
	rootDir string
}

// NewStore はStoreを生成する。
func NewStore(rootDir string) *Store {
	return &Store{rootDir: rootDir}
}

// IsAllowedMIME はアップロード可能なMIMEタイプかを返す。
func IsAllowedMIME(mimeType string) bool {
	_, ok := allowedMIMETypes[mimeType]
	return ok
}

// Save は画像ファイルを保存し、公開URLを返す。
// MIMEタイプの検証は書き込み前に行い、不許可の場合は何も書き込まない。
// ファイル名は {ownerID}-{unixミリ秒}-{UUID先頭8文字}{拡張子} で衝突を避ける。
func (s *Store) Save(owner model.ImageOwner, ownerID int64, mimeType string, r io.Reader) (string, error) {
	ext, ok := allowedMIMETypes[mimeType]
	if !ok {
		return "", model.NewInvalidFileTypeError(mimeType)
	}

	dir := filepath.Join(s.rootDir, string(owner))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	filename := fmt.Sprintf("%d-%d-%s%s",
		ownerID, time.Now().UnixMilli(), uuid.New().String()[:8], ext)

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return URLPrefix + string(owner) + "/" + filename, nil
}

// Delete はアップロードファイルをURLから逆引きして削除する。
// URLがアップロードパターンに一致しない場合、またはファイルが既に
// 存在しない場合は何もせず成功扱いとする。
func (s *Store) Delete(url string) error {
	rel, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		return nil
	}

	localPath, err := s.Resolve(rel)
	if err != nil {
		return nil
	}

	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}

// Resolve は公開URLの相対部分をローカルファイルパスに解決する。
// パストラバーサル（.. や絶対パス）は拒否する。
func (s *Store) Resolve(relPath string) (string, error) {
	if relPath == "" || strings.HasPrefix(relPath, "/") {
		return "", fmt.Errorf("invalid upload path: %q", relPath)
	}

	cleaned := path.Clean(relPath)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid upload path: %q", relPath)
	}

	return filepath.Join(s.rootDir, filepath.FromSlash(cleaned)), nil
}

// ContentTypeForPath はファイルパスの拡張子からContent-Typeを返す。
// 許可リスト外の拡張子の場合はfalseを返す。
func ContentTypeForPath(p string) (string, bool) {
	ct, ok := extContentTypes[strings.ToLower(filepath.Ext(p))]
	return ct, ok
}

package uploads

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hitoshi/folio/internal/model"
)

// 許可MIMEタイプの判定を検証
func TestIsAllowedMIME(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"image/webp", true},
		{"image/gif", true},
		{"application/pdf", false},
		{"text/html", false},
		{"image/svg+xml", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAllowedMIME(tt.mime); got != tt.want {
			t.Errorf("IsAllowedMIME(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

// Saveがファイルを書き込み、所有者別ディレクトリ配下のURLを返すことを検証
func TestStore_Save_WritesFileAndReturnsURL(t *testing.T) {
	store := NewStore(t.TempDir())

	url, err := store.Save(model.ImageOwnerProject, 42, "image/png", strings.NewReader("fake-png-bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !strings.HasPrefix(url, URLPrefix+"projects/42-") {
		t.Errorf("url = %q, want prefix %q", url, URLPrefix+"projects/42-")
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want .png suffix", url)
	}

	// URLから逆引きして実ファイルの存在を確認
	rel, _ := strings.CutPrefix(url, URLPrefix)
	localPath, err := store.Resolve(rel)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("saved file not readable: %v", err)
	}
	if string(data) != "fake-png-bytes" {
		t.Errorf("saved content = %q, want %q", data, "fake-png-bytes")
	}
}

// 不許可MIMEタイプの場合、何もディスクに書き込まれないことを検証
func TestStore_Save_RejectsDisallowedMIMEBeforeWrite(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	_, err := store.Save(model.ImageOwnerProject, 1, "application/pdf", strings.NewReader("%PDF-"))
	if err == nil {
		t.Fatal("Save() error = nil, want error")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Category != model.CategoryValidation {
		t.Errorf("category = %q, want %q", apiErr.Category, model.CategoryValidation)
	}

	// ルート配下に何も作られていないこと
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("failed to read root dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("root dir entries = %d, want 0", len(entries))
	}
}

// Resolveがパストラバーサルを拒否することを検証
func TestStore_Resolve_RejectsTraversal(t *testing.T) {
	store := NewStore("/var/data/uploads")

	invalid := []string{
		"",
		"/etc/passwd",
		"../secrets.txt",
		"projects/../../etc/passwd",
		"..",
	}
	for _, rel := range invalid {
		if _, err := store.Resolve(rel); err == nil {
			t.Errorf("Resolve(%q) error = nil, want error", rel)
		}
	}

	got, err := store.Resolve("projects/1-123-abcd1234.png")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := filepath.Join("/var/data/uploads", "projects", "1-123-abcd1234.png")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

// Deleteが実ファイルを削除し、存在しないファイルや無関係なURLは無視することを検証
func TestStore_Delete(t *testing.T) {
	store := NewStore(t.TempDir())

	url, err := store.Save(model.ImageOwnerWriting, 7, "image/jpeg", strings.NewReader("jpeg"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Delete(url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	rel, _ := strings.CutPrefix(url, URLPrefix)
	localPath, _ := store.Resolve(rel)
	if _, err := os.Stat(localPath); !os.IsNotExist(err) {
		t.Errorf("file still exists after Delete: %v", err)
	}

	// 2回目の削除（既に存在しない）も成功扱い
	if err := store.Delete(url); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}

	// アップロードURLパターン外は無視
	if err := store.Delete("https://example.com/external.png"); err != nil {
		t.Errorf("Delete(external URL) error = %v", err)
	}
}

// 拡張子からContent-Typeを解決することを検証
func TestContentTypeForPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"a/b/photo.png", "image/png", true},
		{"photo.JPG", "image/jpeg", true},
		{"photo.jpeg", "image/jpeg", true},
		{"anim.gif", "image/gif", true},
		{"img.webp", "image/webp", true},
		{"doc.pdf", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, ok := ContentTypeForPath(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ContentTypeForPath(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

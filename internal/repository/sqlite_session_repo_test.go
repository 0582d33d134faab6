package repository

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/folio/internal/model"
)

// セッションの作成と取得のラウンドトリップを検証
func TestSQLiteSessionRepo_CreateAndFind(t *testing.T) {
	repo := NewSQLiteSessionRepo(newTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	session := &model.Session{
		Token:          "token-abc",
		GitHubUserID:   1234567,
		GitHubUsername: "hitoshi",
		CreatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
	}

	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.FindByToken(ctx, "token-abc")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}
	if got == nil {
		t.Fatal("FindByToken() = nil, want session")
	}
	if got.GitHubUserID != 1234567 || got.GitHubUsername != "hitoshi" {
		t.Errorf("session = %+v", got)
	}
	if !got.ExpiresAt.Equal(session.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, session.ExpiresAt)
	}
}

// 期限切れセッションがSQLレベルで除外されることを検証
func TestSQLiteSessionRepo_FindByToken_ExcludesExpired(t *testing.T) {
	repo := NewSQLiteSessionRepo(newTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	expired := &model.Session{
		Token:          "expired-token",
		GitHubUserID:   1,
		GitHubUsername: "hitoshi",
		CreatedAt:      now.Add(-48 * time.Hour),
		ExpiresAt:      now.Add(-time.Hour),
	}
	if err := repo.Create(ctx, expired); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.FindByToken(ctx, "expired-token")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}
	if got != nil {
		t.Errorf("FindByToken(expired) = %+v, want nil", got)
	}
}

// 未知のトークンはエラーではなくnilを返すことを検証
func TestSQLiteSessionRepo_FindByToken_Unknown(t *testing.T) {
	repo := NewSQLiteSessionRepo(newTestDB(t))

	got, err := repo.FindByToken(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}
	if got != nil {
		t.Errorf("FindByToken(unknown) = %+v, want nil", got)
	}
}

// DeleteByTokenが削除後の取得を失敗させ、未知のトークンでも成功することを検証
func TestSQLiteSessionRepo_DeleteByToken(t *testing.T) {
	repo := NewSQLiteSessionRepo(newTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	session := &model.Session{
		Token:          "token-abc",
		GitHubUserID:   1,
		GitHubUsername: "hitoshi",
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Hour),
	}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.DeleteByToken(ctx, "token-abc"); err != nil {
		t.Fatalf("DeleteByToken() error = %v", err)
	}

	got, err := repo.FindByToken(ctx, "token-abc")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}
	if got != nil {
		t.Error("session still found after delete")
	}

	// 存在しないトークンの削除も成功扱い
	if err := repo.DeleteByToken(ctx, "no-such-token"); err != nil {
		t.Errorf("DeleteByToken(unknown) error = %v", err)
	}
}

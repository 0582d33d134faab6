package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// --- モック定義 ---

type mockSessionRepo struct {
	createFn        func(ctx context.Context, session *model.Session) error
	findByTokenFn   func(ctx context.Context, token string) (*model.Session, error)
	deleteByTokenFn func(ctx context.Context, token string) error

	deletedTokens []string
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if m.findByTokenFn != nil {
		return m.findByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	m.deletedTokens = append(m.deletedTokens, token)
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}

type mockOAuthProvider struct {
	getLoginURLFn  func(state string) string
	exchangeCodeFn func(ctx context.Context, code string) (*OAuthUserInfo, error)
}

func (m *mockOAuthProvider) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return ""
}

func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	if m.exchangeCodeFn != nil {
		return m.exchangeCodeFn(ctx, code)
	}
	return nil, nil
}

// --- compile-time interface checks ---
var _ repository.SessionRepository = (*mockSessionRepo)(nil)
var _ OAuthProvider = (*mockOAuthProvider)(nil)

// --- テスト ---

const allowedUserID int64 = 1234567

func newTestService(provider OAuthProvider, sessions repository.SessionRepository) *Service {
	return NewService(provider, sessions, ServiceConfig{
		SessionMaxAge:       86400,
		AllowedGitHubUserID: allowedUserID,
	})
}

// 許可リスト照合がフェイルクローズであることを検証
func TestIsAllowedUser(t *testing.T) {
	svc := newTestService(&mockOAuthProvider{}, &mockSessionRepo{})

	if !svc.IsAllowedUser(allowedUserID) {
		t.Error("IsAllowedUser(allowed id) = false, want true")
	}
	if svc.IsAllowedUser(999) {
		t.Error("IsAllowedUser(other id) = true, want false")
	}

	// 許可ID未設定（0）の場合は誰も許可しない
	unset := NewService(&mockOAuthProvider{}, &mockSessionRepo{}, ServiceConfig{SessionMaxAge: 86400})
	if unset.IsAllowedUser(0) {
		t.Error("IsAllowedUser(0) with unset allow-list = true, want false")
	}
	if unset.IsAllowedUser(allowedUserID) {
		t.Error("IsAllowedUser with unset allow-list = true, want false")
	}
}

// 許可ユーザーのコールバックでセッションが発行されることを検証
func TestHandleCallback_AllowedUserGetsSession(t *testing.T) {
	provider := &mockOAuthProvider{
		exchangeCodeFn: func(_ context.Context, code string) (*OAuthUserInfo, error) {
			if code != "auth-code" {
				t.Errorf("code = %q, want %q", code, "auth-code")
			}
			return &OAuthUserInfo{GitHubUserID: allowedUserID, GitHubUsername: "hitoshi"}, nil
		},
	}
	var created *model.Session
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, s *model.Session) error {
			created = s
			return nil
		},
	}

	svc := newTestService(provider, sessions)
	session, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback() error = %v", err)
	}

	if session.Token == "" {
		t.Error("session token is empty")
	}
	if session.GitHubUserID != allowedUserID {
		t.Errorf("GitHubUserID = %d, want %d", session.GitHubUserID, allowedUserID)
	}
	if session.GitHubUsername != "hitoshi" {
		t.Errorf("GitHubUsername = %q, want %q", session.GitHubUsername, "hitoshi")
	}

	wantExpiry := session.CreatedAt.Add(86400 * time.Second)
	if !session.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("ExpiresAt = %v, want %v", session.ExpiresAt, wantExpiry)
	}
	if created == nil {
		t.Fatal("session was not persisted")
	}
	if created.Token != session.Token {
		t.Error("persisted token differs from returned token")
	}
}

// 許可リスト外のユーザーはForbiddenで拒否され、セッションが発行されないことを検証
func TestHandleCallback_DeniesUnlistedUser(t *testing.T) {
	provider := &mockOAuthProvider{
		exchangeCodeFn: func(_ context.Context, _ string) (*OAuthUserInfo, error) {
			return &OAuthUserInfo{GitHubUserID: 999, GitHubUsername: "stranger"}, nil
		},
	}
	createCalled := false
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, _ *model.Session) error {
			createCalled = true
			return nil
		},
	}

	svc := newTestService(provider, sessions)
	_, err := svc.HandleCallback(context.Background(), "auth-code")
	if err == nil {
		t.Fatal("HandleCallback() error = nil, want forbidden error")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Category != model.CategoryForbidden {
		t.Errorf("category = %q, want %q", apiErr.Category, model.CategoryForbidden)
	}
	if createCalled {
		t.Error("session was created for denied user")
	}
}

// コード交換の失敗がそのまま伝播することを検証
func TestHandleCallback_ExchangeFailure(t *testing.T) {
	provider := &mockOAuthProvider{
		exchangeCodeFn: func(_ context.Context, _ string) (*OAuthUserInfo, error) {
			return nil, errors.New("github unreachable")
		},
	}

	svc := newTestService(provider, &mockSessionRepo{})
	_, err := svc.HandleCallback(context.Background(), "auth-code")
	if err == nil {
		t.Fatal("HandleCallback() error = nil, want error")
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Error("exchange failure should not be an APIError (handler maps it to upstream)")
	}
}

// GetSessionが有効なセッションを返すことを検証
func TestGetSession_ReturnsValidSession(t *testing.T) {
	want := &model.Session{Token: "tok", GitHubUserID: allowedUserID}
	sessions := &mockSessionRepo{
		findByTokenFn: func(_ context.Context, token string) (*model.Session, error) {
			if token == "tok" {
				return want, nil
			}
			return nil, nil
		},
	}

	svc := newTestService(&mockOAuthProvider{}, sessions)
	got, err := svc.GetSession(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got != want {
		t.Errorf("GetSession() = %+v, want %+v", got, want)
	}
}

// 期限切れ・未存在トークンでnilを返し、残骸行を掃除することを検証
func TestGetSession_MissReturnsNilAndEvictsStaleRow(t *testing.T) {
	sessions := &mockSessionRepo{
		findByTokenFn: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, nil
		},
	}

	svc := newTestService(&mockOAuthProvider{}, sessions)
	got, err := svc.GetSession(context.Background(), "expired-token")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetSession() = %+v, want nil", got)
	}
	if len(sessions.deletedTokens) != 1 || sessions.deletedTokens[0] != "expired-token" {
		t.Errorf("deleted tokens = %v, want [expired-token]", sessions.deletedTokens)
	}
}

// 空トークンはDBに問い合わせずnilを返すことを検証
func TestGetSession_EmptyToken(t *testing.T) {
	sessions := &mockSessionRepo{
		findByTokenFn: func(_ context.Context, _ string) (*model.Session, error) {
			t.Error("FindByToken should not be called for empty token")
			return nil, nil
		},
	}

	svc := newTestService(&mockOAuthProvider{}, sessions)
	got, err := svc.GetSession(context.Background(), "")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetSession() = %+v, want nil", got)
	}
}

// Logoutがセッションを破棄し、空トークンでも成功することを検証
func TestLogout(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newTestService(&mockOAuthProvider{}, sessions)

	if err := svc.Logout(context.Background(), "tok"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(sessions.deletedTokens) != 1 || sessions.deletedTokens[0] != "tok" {
		t.Errorf("deleted tokens = %v, want [tok]", sessions.deletedTokens)
	}

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("Logout(empty token) error = %v", err)
	}
	if len(sessions.deletedTokens) != 1 {
		t.Error("DeleteByToken was called for empty token")
	}
}

// GenerateStateが呼び出しごとに異なる値を返すことを検証
func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if a == b {
		t.Error("GenerateState() returned the same value twice")
	}
	if len(a) != 32 {
		t.Errorf("state length = %d, want 32", len(a))
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/folio/internal/middleware"
	"github.com/hitoshi/folio/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	getLoginURLFn    func(state string) string
	handleCallbackFn func(ctx context.Context, code string) (*model.Session, error)
	logoutFn         func(ctx context.Context, token string) error
	getSessionFn     func(ctx context.Context, token string) (*model.Session, error)
}

func (m *mockAuthService) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return ""
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAuthService) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if m.getSessionFn != nil {
		return m.getSessionFn(ctx, token)
	}
	return nil, nil
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		BaseURL:       "http://localhost:3000",
		CookieSecure:  false,
		SessionMaxAge: 86400,
	}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- テスト ---

func TestAuthHandler_Login_RedirectsAndSetsStateCookie(t *testing.T) {
	svc := &mockAuthService{
		getLoginURLFn: func(state string) string {
			return "https://github.com/login/oauth/authorize?state=" + state
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	location := resp.Header.Get("Location")
	if !strings.Contains(location, "github.com/login/oauth/authorize") {
		t.Errorf("Location = %q, should contain github oauth URL", location)
	}

	// stateクッキーが設定され、リダイレクトURLのstateと一致すること
	stateCookie := findCookie(resp, oauthStateCookie)
	if stateCookie == nil {
		t.Fatal("oauth_state cookie was not set")
	}
	if !stateCookie.HttpOnly {
		t.Error("oauth_state cookie should be HttpOnly")
	}
	if !strings.HasSuffix(location, stateCookie.Value) {
		t.Errorf("Location state does not match cookie: %q vs %q", location, stateCookie.Value)
	}
}

func TestAuthHandler_Callback_Success_SetsSessionCookieAndRedirects(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, code string) (*model.Session, error) {
			if code != "test-code" {
				t.Errorf("code = %q, want test-code", code)
			}
			return &model.Session{
				Token:     "session-token-abc",
				ExpiresAt: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=test-code&state=test-state", nil)
	// stateの検証のためにcookieを設定
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "test-state"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	resp := w.Result()

	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	// 管理画面にリダイレクトされること
	if location := resp.Header.Get("Location"); location != "http://localhost:3000/admin" {
		t.Errorf("Location = %q, want admin page", location)
	}

	// セッションCookieがHTTP Onlyで設定されること
	sessionCookie := findCookie(resp, middleware.SessionCookieName)
	if sessionCookie == nil {
		t.Fatal("session cookie was not set")
	}
	if sessionCookie.Value != "session-token-abc" {
		t.Errorf("session cookie value = %q", sessionCookie.Value)
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if sessionCookie.MaxAge != 86400 {
		t.Errorf("session cookie MaxAge = %d, want 86400", sessionCookie.MaxAge)
	}

	// stateクッキーは削除されること
	stateCookie := findCookie(resp, oauthStateCookie)
	if stateCookie == nil || stateCookie.MaxAge >= 0 {
		t.Error("oauth_state cookie was not cleared")
	}
}

func TestAuthHandler_Callback_StateMismatch(t *testing.T) {
	callbackCalled := false
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, _ string) (*model.Session, error) {
			callbackCalled = true
			return nil, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=test&state=attacker-state", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "real-state"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if callbackCalled {
		t.Error("HandleCallback was called despite state mismatch")
	}
}

func TestAuthHandler_Callback_MissingStateCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=test&state=some-state", nil)
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAuthHandler_Callback_MissingCode(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?state=s", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "s"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// 許可リスト外ユーザーの403がそのまま返ることを検証
func TestAuthHandler_Callback_ForbiddenUser(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, model.NewForbiddenError()
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=test&state=s", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "s"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}

	var body middleware.ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != model.ErrCodeForbidden {
		t.Errorf("code = %q", body.Code)
	}
}

// GitHub側の障害は502として返ることを検証
func TestAuthHandler_Callback_UpstreamFailure(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, errors.New("network timeout")
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/github/callback?code=test&state=s", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "s"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	var loggedOutToken string
	svc := &mockAuthService{
		logoutFn: func(_ context.Context, token string) error {
			loggedOutToken = token
			return nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-123"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if loggedOutToken != "tok-123" {
		t.Errorf("logged out token = %q", loggedOutToken)
	}

	cookie := findCookie(w.Result(), middleware.SessionCookieName)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Error("session cookie was not cleared")
	}
}

// Cookieなしのログアウトも200で成功扱いになることを検証
func TestAuthHandler_Logout_WithoutCookie(t *testing.T) {
	logoutCalled := false
	svc := &mockAuthService{
		logoutFn: func(_ context.Context, _ string) error {
			logoutCalled = true
			return nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if logoutCalled {
		t.Error("Logout service was called without cookie")
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var body meResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Authenticated {
		t.Error("authenticated = true, want false")
	}
}

func TestAuthHandler_Me_Authenticated(t *testing.T) {
	svc := &mockAuthService{
		getSessionFn: func(_ context.Context, token string) (*model.Session, error) {
			if token != "valid-token" {
				return nil, nil
			}
			return &model.Session{
				Token:          token,
				GitHubUserID:   1234567,
				GitHubUsername: "hitoshi",
			}, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "valid-token"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	var body meResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Authenticated {
		t.Fatal("authenticated = false, want true")
	}
	if body.GitHubUserID != 1234567 || body.GitHubUsername != "hitoshi" {
		t.Errorf("body = %+v", body)
	}
}

// 期限切れセッションではauthenticated:falseが返り、
// 失効したセッションCookieの削除が指示されることを検証
func TestAuthHandler_Me_ExpiredSession(t *testing.T) {
	svc := &mockAuthService{
		getSessionFn: func(_ context.Context, _ string) (*model.Session, error) {
			return nil, nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "stale"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var body meResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Authenticated {
		t.Error("authenticated = true, want false")
	}

	cookie := findCookie(w.Result(), middleware.SessionCookieName)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Error("stale session cookie was not cleared (want Set-Cookie with MaxAge < 0)")
	}
}

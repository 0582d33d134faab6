package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/folio/internal/auth"
	"github.com/hitoshi/folio/internal/middleware"
	"github.com/hitoshi/folio/internal/model"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*model.Session, error)
	Logout(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	BaseURL       string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はGitHub OAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// Login はGitHub OAuthフローを開始する。
// GET /api/auth/github
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.service.GetLoginURL(state), http.StatusTemporaryRedirect)
}

// Callback はOAuthコールバックを処理する。
// GET /api/auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// 1. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch", slog.String("query_state", state))
		middleware.WriteAPIError(w, model.NewInvalidRequestError("stateパラメータが一致しません"))
		return
	}

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		middleware.WriteAPIError(w, model.NewInvalidRequestError("認可コードがありません"))
		return
	}

	// 3. 認証処理。許可リスト外のユーザーはここで403になる。
	session, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			middleware.WriteAPIError(w, apiErr)
			return
		}
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		middleware.WriteAPIError(w, model.NewUpstreamError("GitHub"))
		return
	}

	// 4. セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 5. 管理画面にリダイレクト
	http.Redirect(w, r, h.config.BaseURL+"/admin", http.StatusTemporaryRedirect)
}

// Logout はセッションを破棄する。
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		// セッションをDBから削除
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	// セッションCookieをクリア
	middleware.ClearSessionCookie(w, h.config.CookieSecure)

	writeJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

// meResponse は現在のログイン状態のAPIレスポンス。
type meResponse struct {
	Authenticated  bool   `json:"authenticated"`
	GitHubUserID   int64  `json:"githubUserId,omitempty"`
	GitHubUsername string `json:"githubUsername,omitempty"`
}

// Me は現在のログイン状態を返す。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, meResponse{Authenticated: false})
		return
	}

	session, err := h.service.GetSession(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to get session", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}
	if session == nil {
		// トークンに対応するセッションがもう存在しないので失効Cookieを削除する
		middleware.ClearSessionCookie(w, h.config.CookieSecure)
		writeJSON(w, http.StatusOK, meResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		Authenticated:  true,
		GitHubUserID:   session.GitHubUserID,
		GitHubUsername: session.GitHubUsername,
	})
}

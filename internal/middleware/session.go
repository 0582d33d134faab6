// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/folio/internal/model"
)

// SessionCookieName はセッショントークンを格納するCookie名。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// sessionContextKey はリクエストコンテキストにセッションを格納するためのキー。
var sessionContextKey = contextKey("session")

// SessionResolver はセッションの検索に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*model.Session, error)
}

// ClearSessionCookie は失効したセッションCookieの削除をレスポンスに設定する。
// 設定時と同じ属性でないとブラウザが削除対象として扱わないことがある。
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// NewSessionMiddleware はHTTP Only Cookieからセッショントークンを読み取り、
// 有効性を検証するミドルウェアを返す。/api/admin配下の保護に使用する。
// 認証済みセッションをリクエストコンテキストに注入する。
// 未認証リクエストには401の統一エラーレスポンスを返す。
// トークンに対応するセッションがもう存在しない場合は、失効Cookieを
// クライアントに残さないよう削除を指示する。
func NewSessionMiddleware(resolver SessionResolver, cookieSecure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Cookieからセッショントークンを取得
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteAPIError(w, model.NewUnauthorizedError())
				return
			}

			// 2. セッションの有効性を検証
			session, err := resolver.GetSession(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				WriteAPIError(w, model.NewUnauthorizedError())
				return
			}
			if session == nil {
				ClearSessionCookie(w, cookieSecure)
				WriteAPIError(w, model.NewUnauthorizedError())
				return
			}

			// 3. 認証済みセッションをコンテキストに注入
			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext はリクエストコンテキストからセッションを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func SessionFromContext(ctx context.Context) (*model.Session, error) {
	session, ok := ctx.Value(sessionContextKey).(*model.Session)
	if !ok || session == nil {
		return nil, fmt.Errorf("session not found in context")
	}
	return session, nil
}

// ContextWithSession はコンテキストにセッションを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

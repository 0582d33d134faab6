package middleware

import "net/http"

// NewSecurityHeadersMiddleware は防御的なHTTPレスポンスヘッダーを付与する
// ミドルウェアを返す。このサーバーはJSON APIとアップロード画像の配信だけを
// 行うため、レスポンスをHTMLとして解釈・埋め込みする余地を一律に塞ぐ。
func NewSecurityHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			// アップロード画像を宣言されたContent-Type以外として解釈させない
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			// APIレスポンスはドキュメントとして描画されない
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/folio/internal/metrics"
	"github.com/hitoshi/folio/internal/middleware"
	"github.com/hitoshi/folio/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionResolver   middleware.SessionResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// コンテンツ
	ProjectService    ProjectServiceInterface
	WritingService    WritingServiceInterface
	ExperienceService ExperienceServiceInterface
	EducationService  EducationServiceInterface
	AboutService      AboutServiceInterface

	// 問い合わせ
	ContactService ContactServiceInterface

	// 画像
	ImageService   ImageServiceInterface
	UploadResolver UploadResolver

	// GitHub活動サマリ
	ActivityService ActivityServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging
//
// /api/admin配下にはさらにSessionミドルウェア（認証ガード）がかかる。
// 問い合わせ送信にはIP単位のレート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	projectHandler := NewProjectHandler(deps.ProjectService)
	writingHandler := NewWritingHandler(deps.WritingService)
	experienceHandler := NewExperienceHandler(deps.ExperienceService)
	educationHandler := NewEducationHandler(deps.EducationService)
	aboutHandler := NewAboutHandler(deps.AboutService)
	contactHandler := NewContactHandler(deps.ContactService, deps.Metrics)
	uploadHandler := NewUploadHandler(deps.ImageService, deps.Metrics)
	serveHandler := NewUploadsServeHandler(deps.UploadResolver)
	activityHandler := NewActivityHandler(deps.ActivityService)

	// --- 運用エンドポイント ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証ルート（OAuthフロー） ---

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/github", authHandler.Login)
		r.Get("/github/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 公開ルート ---

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", projectHandler.ListPublic)
		r.Get("/featured", projectHandler.ListFeatured)
		r.Get("/{slug}", projectHandler.GetBySlug)
	})

	r.Route("/api/writing", func(r chi.Router) {
		r.Get("/", writingHandler.ListPublic)
		r.Get("/{slug}", writingHandler.GetBySlug)
	})

	r.Get("/api/experience", experienceHandler.List)
	r.Get("/api/education", educationHandler.List)
	r.Get("/api/about", aboutHandler.Get)
	r.Get("/api/github/activity", activityHandler.Get)
	r.Get("/api/uploads/*", serveHandler.Serve)

	// 問い合わせ送信（IP単位のレート制限付き）
	if deps.RateLimiter != nil {
		r.With(deps.RateLimiter.ContactMiddleware()).Post("/api/contact", contactHandler.Submit)
	} else {
		r.Post("/api/contact", contactHandler.Submit)
	}

	// --- 管理ルート（認証ガード必須） ---

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionResolver, deps.AuthConfig.CookieSecure))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListAdmin)
			r.Post("/", projectHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetAdmin)
				r.Put("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
				r.Post("/images", uploadHandler.Upload(model.ImageOwnerProject))
			})
		})

		r.Route("/writing", func(r chi.Router) {
			r.Get("/", writingHandler.ListAdmin)
			r.Post("/", writingHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", writingHandler.GetAdmin)
				r.Put("/", writingHandler.Update)
				r.Delete("/", writingHandler.Delete)
				r.Post("/images", uploadHandler.Upload(model.ImageOwnerWriting))
			})
		})

		// 経歴・学歴は公開側と同じ一覧（公開フラグを持たない）を管理側にも出す
		r.Route("/experience", func(r chi.Router) {
			r.Get("/", experienceHandler.List)
			r.Post("/", experienceHandler.Create)
			r.Put("/{id}", experienceHandler.Update)
			r.Delete("/{id}", experienceHandler.Delete)
		})

		r.Route("/education", func(r chi.Router) {
			r.Get("/", educationHandler.List)
			r.Post("/", educationHandler.Create)
			r.Put("/{id}", educationHandler.Update)
			r.Delete("/{id}", educationHandler.Delete)
		})

		r.Put("/about", aboutHandler.Update)

		r.Route("/contact", func(r chi.Router) {
			r.Get("/", contactHandler.List)
			r.Put("/{id}/status", contactHandler.UpdateStatus)
			r.Delete("/{id}", contactHandler.Delete)
		})

		r.Delete("/images/{owner}/{id}", uploadHandler.Delete)
	})

	return r
}

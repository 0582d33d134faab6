package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/folio/internal/auth"
	"github.com/hitoshi/folio/internal/config"
	"github.com/hitoshi/folio/internal/contact"
	"github.com/hitoshi/folio/internal/content"
	"github.com/hitoshi/folio/internal/database"
	"github.com/hitoshi/folio/internal/github"
	"github.com/hitoshi/folio/internal/handler"
	"github.com/hitoshi/folio/internal/logger"
	"github.com/hitoshi/folio/internal/metrics"
	"github.com/hitoshi/folio/internal/middleware"
	"github.com/hitoshi/folio/internal/repository"
	"github.com/hitoshi/folio/internal/security"
	"github.com/hitoshi/folio/internal/uploads"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、未適用のマイグレーションを適用し、全依存関係を
// ワイヤリングしてHTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established",
		slog.String("path", cfg.DatabasePath),
	)

	// 2. マイグレーション（起動時にも未適用分を適用する）
	if err := database.Migrate(context.Background(), db, database.EmbeddedMigrations()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// 3. リポジトリの初期化
	sessionRepo := repository.NewSQLiteSessionRepo(db)
	projectRepo := repository.NewSQLiteProjectRepo(db)
	writingRepo := repository.NewSQLiteWritingRepo(db)
	imageRepo := repository.NewSQLiteImageRepo(db)
	experienceRepo := repository.NewSQLiteExperienceRepo(db)
	educationRepo := repository.NewSQLiteEducationRepo(db)
	aboutRepo := repository.NewSQLiteAboutRepo(db)
	contactRepo := repository.NewSQLiteContactRepo(db)
	activityRepo := repository.NewSQLiteActivityCacheRepo(db)

	// 4. メトリクスとファイルストアの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	store := uploads.NewStore(cfg.UploadsDir())

	// 5. ドメインサービスの初期化
	oauthProvider := auth.NewGitHubOAuthProvider(auth.GitHubOAuthConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.GitHubCallbackURL,
	})
	authService := auth.NewService(oauthProvider, sessionRepo, auth.ServiceConfig{
		SessionMaxAge:       cfg.SessionMaxAge,
		AllowedGitHubUserID: cfg.AllowedGitHubUserID,
	})

	projectService := content.NewProjectService(projectRepo, imageRepo, store)
	writingService := content.NewWritingService(writingRepo, imageRepo, store)
	experienceService := content.NewExperienceService(experienceRepo)
	educationService := content.NewEducationService(educationRepo)
	aboutService := content.NewAboutService(aboutRepo)
	imageService := content.NewImageService(projectRepo, writingRepo, imageRepo, store)

	sanitizer := security.NewInputSanitizer()
	contactService := contact.NewService(contactRepo, sanitizer)

	githubClient := github.NewClient(github.ClientConfig{
		Token:    cfg.GitHubToken,
		Username: cfg.GitHubUsername,
	})
	activityService := github.NewService(githubClient, activityRepo, collector, github.ServiceConfig{
		Username: cfg.GitHubUsername,
		Token:    cfg.GitHubToken,
		CacheTTL: cfg.ActivityCacheTTL,
	})

	// 6. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimitContact))
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		SessionResolver:   authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		Metrics:  collector,
		Gatherer: registry,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		ProjectService:    projectService,
		WritingService:    writingService,
		ExperienceService: experienceService,
		EducationService:  educationService,
		AboutService:      aboutService,

		ContactService: contactService,

		ImageService:   imageService,
		UploadResolver: store,

		ActivityService: activityService,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("path", cfg.DatabasePath),
	)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, database.EmbeddedMigrations()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabasePath string

	// Data（アップロードファイルの保存先ルート）
	DataDir string

	// GitHub OAuth
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	// 管理者として許可する唯一のGitHubユーザーID。0は「誰も許可しない」。
	AllowedGitHubUserID int64

	// Session
	SessionMaxAge int // セッション有効期間（秒）

	// GitHub活動サマリ
	GitHubToken      string
	GitHubUsername   string
	ActivityCacheTTL time.Duration

	// Rate Limit（問い合わせ送信、req/min/IP）
	RateLimitContact int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool

	// CORS
	CORSAllowedOrigin string
}

// defaultSessionMaxAge はセッションの既定有効期間（7日）。
const defaultSessionMaxAge = 60 * 60 * 24 * 7

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	if cfg.DatabasePath == "" {
		missing = append(missing, "DATABASE_PATH")
	}

	cfg.GitHubClientID = os.Getenv("GITHUB_CLIENT_ID")
	if cfg.GitHubClientID == "" {
		missing = append(missing, "GITHUB_CLIENT_ID")
	}

	cfg.GitHubClientSecret = os.Getenv("GITHUB_CLIENT_SECRET")
	if cfg.GitHubClientSecret == "" {
		missing = append(missing, "GITHUB_CLIENT_SECRET")
	}

	cfg.GitHubCallbackURL = os.Getenv("GITHUB_CALLBACK_URL")
	if cfg.GitHubCallbackURL == "" {
		missing = append(missing, "GITHUB_CALLBACK_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	// ALLOWED_GITHUB_USER_ID未設定時は0のまま＝全ユーザー拒否（フェイルクローズ）。
	cfg.AllowedGitHubUserID = getEnvInt64("ALLOWED_GITHUB_USER_ID", 0)
	cfg.DataDir = getEnvString("DATA_DIR", filepath.Join(".", "data"))
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", defaultSessionMaxAge)
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.GitHubUsername = getEnvString("GITHUB_USERNAME", "")
	cfg.ActivityCacheTTL = getEnvDuration("ACTIVITY_CACHE_TTL", 15*time.Minute)
	cfg.RateLimitContact = getEnvInt("RATE_LIMIT_CONTACT", 5)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

// UploadsDir はアップロードファイルのルートディレクトリを返す。
func (c *Config) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

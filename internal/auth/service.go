// Package auth はGitHub OAuth認証フローとセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	GitHubUserID   int64
	GitHubUsername string
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）

	// 管理者として許可する唯一のGitHubユーザーID。0は「誰も許可しない」。
	AllowedGitHubUserID int64
}

// Service は認証に関するビジネスロジックを提供する。
// 管理者は単一のGitHubアカウントのみ。ユーザーテーブルは持たず、
// セッション行にGitHubのユーザー情報を直接保持する。
type Service struct {
	oauth       OAuthProvider
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(oauth OAuthProvider, sessionRepo repository.SessionRepository, config ServiceConfig) *Service {
	return &Service{
		oauth:       oauth,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// IsAllowedUser は指定GitHubユーザーIDが管理者として許可されているかを返す。
// 許可IDが未設定（0）の場合は常にfalse（フェイルクローズ）。
func (s *Service) IsAllowedUser(githubUserID int64) bool {
	return s.config.AllowedGitHubUserID != 0 && githubUserID == s.config.AllowedGitHubUserID
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
// 許可リストにないユーザーの場合はセッションを発行せずForbiddenエラーを返す。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	// 1. 認可コードをトークンに交換し、ユーザー情報を取得
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	// 2. 許可リスト照合。IDが一致しなければ認証済みでも拒否する。
	if !s.IsAllowedUser(userInfo.GitHubUserID) {
		slog.Warn("login denied for unauthorized user",
			slog.Int64("github_user_id", userInfo.GitHubUserID),
			slog.String("github_username", userInfo.GitHubUsername),
		)
		return nil, model.NewForbiddenError()
	}

	// 3. セッションを発行
	session, err := s.createSession(ctx, userInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("admin logged in",
		slog.Int64("github_user_id", userInfo.GitHubUserID),
		slog.String("github_username", userInfo.GitHubUsername),
	)
	return session, nil
}

// GetSession はトークンから有効なセッションを取得する。
// 期限切れまたは未存在の場合はnilを返す。
func (s *Service) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		// 期限切れ行が残っている可能性があるため、その場で片付ける（冪等）。
		if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
			slog.Warn("failed to evict stale session", slog.String("error", err.Error()))
		}
		return nil, nil
	}
	return session, nil
}

// Logout はセッションを破棄する。トークンが存在しない場合も成功扱い。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("admin logged out")
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userInfo *OAuthUserInfo) (*model.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := &model.Session{
		Token:          token,
		GitHubUserID:   userInfo.GitHubUserID,
		GitHubUsername: userInfo.GitHubUsername,
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionToken は暗号的に安全なセッショントークンを生成する。
func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateState はOAuthのstateパラメータ用ランダム値を生成する。
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

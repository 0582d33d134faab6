// Package model はドメインモデルを定義する。
package model

import "time"

// Session は管理者のログインセッションを表す。
// トークンはCookie経由でのみ受け渡しされ、DBに平文で保存される。
type Session struct {
	Token          string
	GitHubUserID   int64
	GitHubUsername string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

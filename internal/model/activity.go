// Package model はドメインモデルを定義する。
package model

import "time"

// TimeOfDay は現在時刻の帯域を表す表示用バケット。
type TimeOfDay string

const (
	// TimeOfDaySleep は深夜帯（3時〜9時）。
	TimeOfDaySleep TimeOfDay = "sleep"
	// TimeOfDayMorning は午前帯（9時〜12時）。
	TimeOfDayMorning TimeOfDay = "morning"
	// TimeOfDayOffice は日中帯（12時〜18時）。
	TimeOfDayOffice TimeOfDay = "office"
	// TimeOfDayEvening は夜帯（18時〜24時）。
	TimeOfDayEvening TimeOfDay = "evening"
	// TimeOfDayNight はそれ以外の時間帯。
	TimeOfDayNight TimeOfDay = "night"
)

// LastCommit は直近コミットの表示用サマリ。
type LastCommit struct {
	Message  string
	HoursAgo float64
	TimeText string
	URL      string
}

// GitHubActivity はGitHubの活動状況の集約サマリを表す。
// 15分TTLのキャッシュ行としてDBに保存される。
type GitHubActivity struct {
	IsActive    bool
	LastCommit  *LastCommit
	WeekCommits int
	Streak      int
	Languages   map[string]int
	CurrentRepo string
	TimeOfDay   TimeOfDay
}

// ActivityCacheRow はgithub_activity_cacheテーブルの1行（id=1固定）。
type ActivityCacheRow struct {
	Activity GitHubActivity
	CachedAt time.Time
}

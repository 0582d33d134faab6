package github

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// maxCommitMessageLen はlastCommit.messageの最大表示長。
const maxCommitMessageLen = 30

// ActivityFetcher はGitHub APIからの元データ取得に必要なインターフェース。
// Clientの部分集合として定義する。
type ActivityFetcher interface {
	FetchContributions(ctx context.Context) (*Contributions, error)
	FetchPushEvents(ctx context.Context) ([]PushEvent, error)
	FetchLanguages(ctx context.Context, repo string) (map[string]int64, error)
}

// ActivityMetrics は活動サマリ取得のメトリクス記録インターフェース。
type ActivityMetrics interface {
	RecordActivityFetchSuccess()
	RecordActivityFetchFailure()
	RecordActivityCacheHit()
	RecordActivityFetchLatency(duration time.Duration)
}

// ServiceConfig は活動サマリサービスの設定。
type ServiceConfig struct {
	Username string
	Token    string
	CacheTTL time.Duration
}

// Service はGitHub活動サマリの集約とキャッシュを提供する。
// キャッシュがTTL内なら保存済みサマリをそのまま返し、
// 失効時はAPIから再集約する。API障害時はゼロ値のフォールバックを
// キャッシュを汚さずに返す。
type Service struct {
	fetcher ActivityFetcher
	cache   repository.ActivityCacheRepository
	metrics ActivityMetrics
	config  ServiceConfig

	// テストで時刻を固定するためのフック
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(fetcher ActivityFetcher, cache repository.ActivityCacheRepository, metrics ActivityMetrics, config ServiceConfig) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		metrics: metrics,
		config:  config,
		now:     time.Now,
	}
}

// GetActivity は活動サマリを返す。
// キャッシュが新鮮ならそれを返し、失効していればAPIから再集約して
// キャッシュを上書きする。取得に失敗した場合はゼロ値のフォールバックを返す。
func (s *Service) GetActivity(ctx context.Context) (*model.GitHubActivity, error) {
	now := s.now()

	cached, err := s.cache.Get(ctx)
	if err != nil {
		slog.Error("failed to read activity cache", slog.String("error", err.Error()))
	} else if cached != nil && now.Sub(cached.CachedAt) < s.config.CacheTTL {
		if s.metrics != nil {
			s.metrics.RecordActivityCacheHit()
		}
		// 表示用フィールドはキャッシュ行に保存されないため、読み出しごとに再計算する
		activity := cached.Activity
		activity.TimeOfDay = timeOfDayBucket(now.Hour())
		if activity.LastCommit != nil {
			activity.LastCommit.TimeText = timeText(activity.LastCommit.HoursAgo)
		}
		return &activity, nil
	}

	if s.config.Token == "" || s.config.Username == "" {
		slog.Warn("github activity disabled: token or username not configured")
		return fallbackActivity(now), nil
	}

	start := s.now()
	activity, err := s.aggregate(ctx, now)
	if s.metrics != nil {
		s.metrics.RecordActivityFetchLatency(s.now().Sub(start))
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordActivityFetchFailure()
		}
		slog.Error("failed to aggregate github activity", slog.String("error", err.Error()))
		// 失敗時はキャッシュを汚さずフォールバックを返す
		return fallbackActivity(now), nil
	}

	if err := s.cache.Save(ctx, activity); err != nil {
		slog.Error("failed to save activity cache", slog.String("error", err.Error()))
	}
	if s.metrics != nil {
		s.metrics.RecordActivityFetchSuccess()
	}

	return activity, nil
}

// aggregate はGraphQLとREST APIから活動サマリを構築する。
func (s *Service) aggregate(ctx context.Context, now time.Time) (*model.GitHubActivity, error) {
	contributions, err := s.fetcher.FetchContributions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contributions: %w", err)
	}

	pushes, err := s.fetcher.FetchPushEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch push events: %w", err)
	}

	activity := &model.GitHubActivity{
		WeekCommits: contributions.TotalCommits,
		Streak:      streakDays(pushes, now),
		Languages:   map[string]int{},
		TimeOfDay:   timeOfDayBucket(now.Hour()),
	}

	if last := latestCommit(pushes, now); last != nil {
		activity.LastCommit = last
		activity.IsActive = last.HoursAgo < 24
		activity.CurrentRepo = shortRepoName(pushes[0].Repo)
	}

	languages, err := s.weightedLanguages(ctx, contributions.CommitsByRepo)
	if err != nil {
		return nil, err
	}
	activity.Languages = languages

	return activity, nil
}

// weightedLanguages はコミット数で重み付けした言語別の整数パーセンテージを返す。
// 各言語の重み = バイト数 × そのリポジトリのコミット数。登場した言語は最低1%。
func (s *Service) weightedLanguages(ctx context.Context, commitsByRepo map[string]int) (map[string]int, error) {
	weights := map[string]float64{}
	var total float64

	for repo, commits := range commitsByRepo {
		if commits <= 0 {
			continue
		}
		bytes, err := s.fetcher.FetchLanguages(ctx, repo)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch languages for %s: %w", repo, err)
		}
		for lang, b := range bytes {
			w := float64(b) * float64(commits)
			weights[lang] += w
			total += w
		}
	}

	percentages := map[string]int{}
	if total == 0 {
		return percentages, nil
	}
	for lang, w := range weights {
		pct := int(w / total * 100)
		if pct < 1 {
			pct = 1
		}
		percentages[lang] = pct
	}

	return percentages, nil
}

// latestCommit は最新のPushEventからlastCommitサマリを構築する。
// pushesは新しい順である前提。コミットのないイベントは読み飛ばす。
func latestCommit(pushes []PushEvent, now time.Time) *model.LastCommit {
	for _, p := range pushes {
		if len(p.Commits) == 0 {
			continue
		}
		// ペイロード内のコミットは古い順なので末尾が最新
		newest := p.Commits[len(p.Commits)-1]
		hoursAgo := now.Sub(p.CreatedAt).Hours()
		return &model.LastCommit{
			Message:  truncateMessage(newest.Message),
			HoursAgo: hoursAgo,
			TimeText: timeText(hoursAgo),
			URL:      fmt.Sprintf("https://github.com/%s/commit/%s", p.Repo, newest.SHA),
		}
	}
	return nil
}

// truncateMessage はコミットメッセージの1行目を最大30文字に切り詰める。
// 切り詰めた場合は末尾に"..."を付ける。
func truncateMessage(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	runes := []rune(message)
	if len(runes) > maxCommitMessageLen {
		return string(runes[:maxCommitMessageLen]) + "..."
	}
	return message
}

// timeText は経過時間を表示用テキストに変換する。
func timeText(hoursAgo float64) string {
	switch {
	case hoursAgo < 1:
		return "JUST NOW"
	case hoursAgo < 2:
		return "1H AGO"
	case hoursAgo < 24:
		return fmt.Sprintf("%dH AGO", int(hoursAgo))
	case hoursAgo < 48:
		return "1 DAY AGO"
	default:
		return fmt.Sprintf("%d DAYS AGO", int(hoursAgo/24))
	}
}

// streakDays は今日（またはまだ今日のpushがなければ昨日）から遡って
// 連続してpushがあった日数を数える。
func streakDays(pushes []PushEvent, now time.Time) int {
	days := map[string]bool{}
	for _, p := range pushes {
		days[p.CreatedAt.UTC().Format("2006-01-02")] = true
	}

	day := now.UTC()
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// timeOfDayBucket は時刻の帯域を表示用バケットに変換する。
func timeOfDayBucket(hour int) model.TimeOfDay {
	switch {
	case hour >= 3 && hour < 9:
		return model.TimeOfDaySleep
	case hour >= 9 && hour < 12:
		return model.TimeOfDayMorning
	case hour >= 12 && hour < 18:
		return model.TimeOfDayOffice
	case hour >= 18:
		return model.TimeOfDayEvening
	default:
		return model.TimeOfDayNight
	}
}

// shortRepoName はowner/name形式からname部分を返す。
func shortRepoName(repo string) string {
	if i := strings.IndexByte(repo, '/'); i >= 0 {
		return repo[i+1:]
	}
	return repo
}

// fallbackActivity はAPI障害時に返すゼロ値サマリを構築する。
func fallbackActivity(now time.Time) *model.GitHubActivity {
	return &model.GitHubActivity{
		Languages: map[string]int{},
		TimeOfDay: timeOfDayBucket(now.Hour()),
	}
}

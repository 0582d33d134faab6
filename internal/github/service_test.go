package github

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hitoshi/folio/internal/database"
	"github.com/hitoshi/folio/internal/model"
	"github.com/hitoshi/folio/internal/repository"
)

// --- モック定義 ---

type mockFetcher struct {
	fetchContributionsFn func(ctx context.Context) (*Contributions, error)
	fetchPushEventsFn    func(ctx context.Context) ([]PushEvent, error)
	fetchLanguagesFn     func(ctx context.Context, repo string) (map[string]int64, error)
}

func (m *mockFetcher) FetchContributions(ctx context.Context) (*Contributions, error) {
	if m.fetchContributionsFn != nil {
		return m.fetchContributionsFn(ctx)
	}
	return &Contributions{}, nil
}

func (m *mockFetcher) FetchPushEvents(ctx context.Context) ([]PushEvent, error) {
	if m.fetchPushEventsFn != nil {
		return m.fetchPushEventsFn(ctx)
	}
	return nil, nil
}

func (m *mockFetcher) FetchLanguages(ctx context.Context, repo string) (map[string]int64, error) {
	if m.fetchLanguagesFn != nil {
		return m.fetchLanguagesFn(ctx, repo)
	}
	return nil, nil
}

type mockActivityCache struct {
	getFn  func(ctx context.Context) (*model.ActivityCacheRow, error)
	saveFn func(ctx context.Context, activity *model.GitHubActivity) error

	saved *model.GitHubActivity
}

func (m *mockActivityCache) Get(ctx context.Context) (*model.ActivityCacheRow, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, nil
}

func (m *mockActivityCache) Save(ctx context.Context, activity *model.GitHubActivity) error {
	m.saved = activity
	if m.saveFn != nil {
		return m.saveFn(ctx, activity)
	}
	return nil
}

var _ ActivityFetcher = (*mockFetcher)(nil)

// --- テスト ---

func testService(fetcher *mockFetcher, cache *mockActivityCache, now time.Time) *Service {
	svc := NewService(fetcher, cache, nil, ServiceConfig{
		Username: "hitoshi",
		Token:    "test-token",
		CacheTTL: 15 * time.Minute,
	})
	svc.now = func() time.Time { return now }
	return svc
}

// TTL内のキャッシュがあればAPIを呼ばず、表示用フィールドを
// 再計算して返すことを検証。キャッシュ行はTimeText/TimeOfDayを持たない。
func TestGetActivity_ReturnsFreshCache(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	cached := &model.ActivityCacheRow{
		Activity: model.GitHubActivity{
			WeekCommits: 12,
			Languages:   map[string]int{"Go": 80},
			LastCommit: &model.LastCommit{
				Message:  "add featured projects endpoint",
				HoursAgo: 3.2,
				URL:      "https://github.com/hitoshi/folio/commit/abc123",
			},
		},
		CachedAt: now.Add(-5 * time.Minute),
	}

	fetchCalled := false
	fetcher := &mockFetcher{
		fetchContributionsFn: func(_ context.Context) (*Contributions, error) {
			fetchCalled = true
			return &Contributions{}, nil
		},
	}
	cache := &mockActivityCache{
		getFn: func(_ context.Context) (*model.ActivityCacheRow, error) { return cached, nil },
	}

	svc := testService(fetcher, cache, now)
	got, err := svc.GetActivity(context.Background())
	if err != nil {
		t.Fatalf("GetActivity() error = %v", err)
	}

	if fetchCalled {
		t.Error("fetcher was called despite fresh cache")
	}
	if got.WeekCommits != 12 {
		t.Errorf("WeekCommits = %d, want 12", got.WeekCommits)
	}
	// 保存されないフィールドは読み出し時に埋め直される
	if got.TimeOfDay != model.TimeOfDayOffice {
		t.Errorf("TimeOfDay = %q, want %q (14時)", got.TimeOfDay, model.TimeOfDayOffice)
	}
	if got.LastCommit.TimeText != "3H AGO" {
		t.Errorf("LastCommit.TimeText = %q, want %q", got.LastCommit.TimeText, "3H AGO")
	}
}

// 実DBのキャッシュ行を経由しても表示用フィールドが欠落しないことを検証。
// SQLiteの行はTimeText/TimeOfDayカラムを持たないため、サービス側の
// 再計算がないとキャッシュヒット応答で空文字になる。
func TestGetActivity_CacheHitThroughSQLiteRepo(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	if err := database.Migrate(ctx, db, database.EmbeddedMigrations()); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	cache := repository.NewSQLiteActivityCacheRepo(db)

	// 集約直後の保存をシミュレート（表示用フィールド込みで渡す）
	if err := cache.Save(ctx, &model.GitHubActivity{
		IsActive: true,
		LastCommit: &model.LastCommit{
			Message:  "add featured projects endpoint",
			HoursAgo: 3.2,
			TimeText: "3H AGO",
			URL:      "https://github.com/hitoshi/folio/commit/abc123",
		},
		WeekCommits: 9,
		Languages:   map[string]int{"Go": 100},
		CurrentRepo: "folio",
		TimeOfDay:   model.TimeOfDayOffice,
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fetchCalled := false
	fetcher := &mockFetcher{
		fetchContributionsFn: func(_ context.Context) (*Contributions, error) {
			fetchCalled = true
			return &Contributions{}, nil
		},
	}
	// Saveがcached_atを実時刻で記録するため、freshness判定も実時刻に固定する
	now := time.Now().UTC()
	svc := NewService(fetcher, cache, nil, ServiceConfig{
		Username: "hitoshi",
		Token:    "test-token",
		CacheTTL: 15 * time.Minute,
	})
	svc.now = func() time.Time { return now }

	got, err := svc.GetActivity(ctx)
	if err != nil {
		t.Fatalf("GetActivity() error = %v", err)
	}

	if fetchCalled {
		t.Error("fetcher was called despite fresh cache")
	}
	if got.LastCommit == nil {
		t.Fatal("LastCommit = nil")
	}
	if got.LastCommit.TimeText != "3H AGO" {
		t.Errorf("LastCommit.TimeText = %q, want %q", got.LastCommit.TimeText, "3H AGO")
	}
	if want := timeOfDayBucket(now.Hour()); got.TimeOfDay != want {
		t.Errorf("TimeOfDay = %q, want %q", got.TimeOfDay, want)
	}
}

// TTL失効時はAPIから再集約してキャッシュを上書きすることを検証
func TestGetActivity_RefetchesWhenCacheExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	cache := &mockActivityCache{
		getFn: func(_ context.Context) (*model.ActivityCacheRow, error) {
			return &model.ActivityCacheRow{
				Activity: model.GitHubActivity{WeekCommits: 1},
				CachedAt: now.Add(-20 * time.Minute),
			}, nil
		},
	}
	fetcher := &mockFetcher{
		fetchContributionsFn: func(_ context.Context) (*Contributions, error) {
			return &Contributions{
				TotalCommits:  7,
				CommitsByRepo: map[string]int{"hitoshi/folio": 7},
			}, nil
		},
		fetchPushEventsFn: func(_ context.Context) ([]PushEvent, error) {
			return []PushEvent{
				{
					Repo:      "hitoshi/folio",
					CreatedAt: now.Add(-3 * time.Hour),
					Commits: []PushCommit{
						{SHA: "aaa111", Message: "add contact form"},
						{SHA: "bbb222", Message: "fix validation on contact form\n\ndetails"},
					},
				},
			}, nil
		},
		fetchLanguagesFn: func(_ context.Context, repo string) (map[string]int64, error) {
			return map[string]int64{"Go": 9000, "TypeScript": 1000}, nil
		},
	}

	svc := testService(fetcher, cache, now)
	got, err := svc.GetActivity(context.Background())
	if err != nil {
		t.Fatalf("GetActivity() error = %v", err)
	}

	if got.WeekCommits != 7 {
		t.Errorf("WeekCommits = %d, want 7", got.WeekCommits)
	}
	if !got.IsActive {
		t.Error("IsActive = false, want true (last commit 3h ago)")
	}
	if got.LastCommit == nil {
		t.Fatal("LastCommit = nil, want non-nil")
	}
	// ペイロード末尾（最新）のコミットの1行目が使われる
	if got.LastCommit.Message != "fix validation on contact form" {
		t.Errorf("LastCommit.Message = %q", got.LastCommit.Message)
	}
	if got.LastCommit.TimeText != "3H AGO" {
		t.Errorf("LastCommit.TimeText = %q, want %q", got.LastCommit.TimeText, "3H AGO")
	}
	if got.LastCommit.URL != "https://github.com/hitoshi/folio/commit/bbb222" {
		t.Errorf("LastCommit.URL = %q", got.LastCommit.URL)
	}
	if got.CurrentRepo != "folio" {
		t.Errorf("CurrentRepo = %q, want %q", got.CurrentRepo, "folio")
	}
	if got.Languages["Go"] != 90 || got.Languages["TypeScript"] != 10 {
		t.Errorf("Languages = %v, want Go:90 TypeScript:10", got.Languages)
	}
	if cache.saved == nil {
		t.Error("cache.Save was not called after successful fetch")
	}
}

// API障害時はゼロ値フォールバックを返し、キャッシュを上書きしないことを検証
func TestGetActivity_FallbackOnFetchErrorWithoutCaching(t *testing.T) {
	now := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	fetcher := &mockFetcher{
		fetchContributionsFn: func(_ context.Context) (*Contributions, error) {
			return nil, errors.New("api down")
		},
	}
	cache := &mockActivityCache{}

	svc := testService(fetcher, cache, now)
	got, err := svc.GetActivity(context.Background())
	if err != nil {
		t.Fatalf("GetActivity() error = %v", err)
	}

	if got.WeekCommits != 0 || got.IsActive || got.LastCommit != nil {
		t.Errorf("fallback activity = %+v, want zero values", got)
	}
	if got.Languages == nil {
		t.Error("Languages = nil, want empty map")
	}
	if got.TimeOfDay != model.TimeOfDayOffice {
		t.Errorf("TimeOfDay = %q, want %q (14時)", got.TimeOfDay, model.TimeOfDayOffice)
	}
	if cache.saved != nil {
		t.Error("cache.Save was called on fetch failure")
	}
}

// トークン未設定時はAPIを呼ばずフォールバックを返すことを検証
func TestGetActivity_FallbackWhenTokenMissing(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	fetchCalled := false
	fetcher := &mockFetcher{
		fetchContributionsFn: func(_ context.Context) (*Contributions, error) {
			fetchCalled = true
			return &Contributions{}, nil
		},
	}

	svc := NewService(fetcher, &mockActivityCache{}, nil, ServiceConfig{
		Username: "hitoshi",
		CacheTTL: 15 * time.Minute,
	})
	svc.now = func() time.Time { return now }

	got, err := svc.GetActivity(context.Background())
	if err != nil {
		t.Fatalf("GetActivity() error = %v", err)
	}
	if fetchCalled {
		t.Error("fetcher was called without token")
	}
	if got.TimeOfDay != model.TimeOfDayEvening {
		t.Errorf("TimeOfDay = %q, want %q", got.TimeOfDay, model.TimeOfDayEvening)
	}
}

// 経過時間テキストの変換を検証
func TestTimeText(t *testing.T) {
	tests := []struct {
		hoursAgo float64
		want     string
	}{
		{0.2, "JUST NOW"},
		{0.99, "JUST NOW"},
		{1.0, "1H AGO"},
		{1.9, "1H AGO"},
		{2.0, "2H AGO"},
		{23.5, "23H AGO"},
		{24.0, "1 DAY AGO"},
		{47.9, "1 DAY AGO"},
		{48.0, "2 DAYS AGO"},
		{100.0, "4 DAYS AGO"},
	}
	for _, tt := range tests {
		if got := timeText(tt.hoursAgo); got != tt.want {
			t.Errorf("timeText(%v) = %q, want %q", tt.hoursAgo, got, tt.want)
		}
	}
}

// コミットメッセージの切り詰めを検証
func TestTruncateMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"short", "fix bug", "fix bug"},
		{"first line only", "fix bug\n\nlong body here", "fix bug"},
		{"exactly 30 runes kept as-is", "aaaaaaaaaabbbbbbbbbbcccccccccc", "aaaaaaaaaabbbbbbbbbbcccccccccc"},
		{"truncated with ellipsis", "aaaaaaaaaabbbbbbbbbbccccccccccdddddddddd", "aaaaaaaaaabbbbbbbbbbcccccccccc..."},
		{"multibyte safe", "ポートフォリオサイトのコンタクトフォームのバリデーションを修正する", "ポートフォリオサイトのコンタクトフォームのバリデーションを修..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateMessage(tt.message); got != tt.want {
				t.Errorf("truncateMessage(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

// 連続push日数の計算を検証
func TestStreakDays(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	tests := []struct {
		name   string
		pushes []PushEvent
		want   int
	}{
		{"no pushes", nil, 0},
		{
			"today only",
			[]PushEvent{{CreatedAt: day(0)}},
			1,
		},
		{
			"streak starting yesterday",
			[]PushEvent{{CreatedAt: day(-1)}, {CreatedAt: day(-2)}, {CreatedAt: day(-3)}},
			3,
		},
		{
			"gap breaks streak",
			[]PushEvent{{CreatedAt: day(0)}, {CreatedAt: day(-1)}, {CreatedAt: day(-3)}},
			2,
		},
		{
			"last push two days ago",
			[]PushEvent{{CreatedAt: day(-2)}},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := streakDays(tt.pushes, now); got != tt.want {
				t.Errorf("streakDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

// 時間帯バケットの境界を検証
func TestTimeOfDayBucket(t *testing.T) {
	tests := []struct {
		hour int
		want model.TimeOfDay
	}{
		{0, model.TimeOfDayNight},
		{2, model.TimeOfDayNight},
		{3, model.TimeOfDaySleep},
		{8, model.TimeOfDaySleep},
		{9, model.TimeOfDayMorning},
		{11, model.TimeOfDayMorning},
		{12, model.TimeOfDayOffice},
		{17, model.TimeOfDayOffice},
		{18, model.TimeOfDayEvening},
		{23, model.TimeOfDayEvening},
	}
	for _, tt := range tests {
		if got := timeOfDayBucket(tt.hour); got != tt.want {
			t.Errorf("timeOfDayBucket(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

// 言語の重み付けパーセンテージを検証
func TestWeightedLanguages(t *testing.T) {
	fetcher := &mockFetcher{
		fetchLanguagesFn: func(_ context.Context, repo string) (map[string]int64, error) {
			switch repo {
			case "hitoshi/api":
				return map[string]int64{"Go": 8000, "Shell": 10}, nil
			case "hitoshi/web":
				return map[string]int64{"TypeScript": 2000}, nil
			default:
				return nil, nil
			}
		},
	}
	svc := testService(fetcher, &mockActivityCache{}, time.Now())

	got, err := svc.weightedLanguages(context.Background(), map[string]int{
		"hitoshi/api": 5,
		"hitoshi/web": 1,
		"hitoshi/old": 0, // コミット0は無視される
	})
	if err != nil {
		t.Fatalf("weightedLanguages() error = %v", err)
	}

	// 重み: Go=40000, Shell=50, TypeScript=2000 / 合計=42050
	if got["Go"] != 95 {
		t.Errorf("Go = %d, want 95", got["Go"])
	}
	if got["TypeScript"] != 4 {
		t.Errorf("TypeScript = %d, want 4", got["TypeScript"])
	}
	// 登場した言語は切り捨てでも最低1%
	if got["Shell"] != 1 {
		t.Errorf("Shell = %d, want 1", got["Shell"])
	}
}

// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordUpload(owner string)
	RecordActivityFetchSuccess()
	RecordActivityFetchFailure()
	RecordActivityCacheHit()
	RecordActivityFetchLatency(duration time.Duration)
	RecordContactSubmission()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus           *prometheus.CounterVec
	uploads              *prometheus.CounterVec
	activityFetchSuccess prometheus.Counter
	activityFetchFail    prometheus.Counter
	activityCacheHit     prometheus.Counter
	activityLatency      prometheus.Histogram
	contactSubmissions   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_uploads_total",
			Help: "所有者種別ごとの画像アップロード数",
		}, []string{"owner"}),
		activityFetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_activity_fetch_success_total",
			Help: "GitHub活動サマリ取得成功の合計数",
		}),
		activityFetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_activity_fetch_fail_total",
			Help: "GitHub活動サマリ取得失敗の合計数",
		}),
		activityCacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_activity_cache_hit_total",
			Help: "GitHub活動サマリのキャッシュヒット数",
		}),
		activityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "folio_activity_fetch_latency_seconds",
			Help:    "GitHub活動サマリ取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		contactSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_contact_submissions_total",
			Help: "問い合わせ送信の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.uploads,
		c.activityFetchSuccess,
		c.activityFetchFail,
		c.activityCacheHit,
		c.activityLatency,
		c.contactSubmissions,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordUpload は画像アップロードを記録する。
func (c *Collector) RecordUpload(owner string) {
	c.uploads.WithLabelValues(owner).Inc()
}

// RecordActivityFetchSuccess は活動サマリ取得成功を記録する。
func (c *Collector) RecordActivityFetchSuccess() {
	c.activityFetchSuccess.Inc()
}

// RecordActivityFetchFailure は活動サマリ取得失敗を記録する。
func (c *Collector) RecordActivityFetchFailure() {
	c.activityFetchFail.Inc()
}

// RecordActivityCacheHit はキャッシュヒットを記録する。
func (c *Collector) RecordActivityCacheHit() {
	c.activityCacheHit.Inc()
}

// RecordActivityFetchLatency は活動サマリ取得のレイテンシを記録する。
func (c *Collector) RecordActivityFetchLatency(duration time.Duration) {
	c.activityLatency.Observe(duration.Seconds())
}

// RecordContactSubmission は問い合わせ送信を記録する。
func (c *Collector) RecordContactSubmission() {
	c.contactSubmissions.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)

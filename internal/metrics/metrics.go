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
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordJobCreated()
	RecordJobClosed()
	RecordOfferCreated()
	RecordOfferDecided(status string)
	RecordNotificationEmitted(typ string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	jobsCreated          prometheus.Counter
	jobsClosed           prometheus.Counter
	offersCreated        prometheus.Counter
	offersDecided        *prometheus.CounterVec
	notificationsEmitted *prometheus.CounterVec
	httpStatus           *prometheus.CounterVec
	requestLatency       prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		jobsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shigotoba_jobs_created_total",
			Help: "作成された仕事の合計数",
		}),
		jobsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shigotoba_jobs_closed_total",
			Help: "完了した仕事の合計数",
		}),
		offersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shigotoba_offers_created_total",
			Help: "作成されたオファーの合計数",
		}),
		offersDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shigotoba_offers_decided_total",
			Help: "決定されたオファーの状態別合計数",
		}, []string{"status"}),
		notificationsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shigotoba_notifications_emitted_total",
			Help: "生成された通知の種別ごとの合計数",
		}, []string{"type"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shigotoba_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shigotoba_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.jobsCreated,
		c.jobsClosed,
		c.offersCreated,
		c.offersDecided,
		c.notificationsEmitted,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordJobCreated は仕事の作成を記録する。
func (c *Collector) RecordJobCreated() {
	c.jobsCreated.Inc()
}

// RecordJobClosed は仕事の完了を記録する。
func (c *Collector) RecordJobClosed() {
	c.jobsClosed.Inc()
}

// RecordOfferCreated はオファーの作成を記録する。
func (c *Collector) RecordOfferCreated() {
	c.offersCreated.Inc()
}

// RecordOfferDecided はオファーの決定を状態別に記録する。
func (c *Collector) RecordOfferDecided(status string) {
	c.offersDecided.WithLabelValues(status).Inc()
}

// RecordNotificationEmitted は通知の生成を種別ごとに記録する。
func (c *Collector) RecordNotificationEmitted(typ string) {
	c.notificationsEmitted.WithLabelValues(typ).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

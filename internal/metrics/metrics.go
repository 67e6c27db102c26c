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
// カタログ、クエストエンジン、ストレージ層、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordEventCreated()
	RecordBooking()
	RecordAlbumCreated()
	RecordPhotoAdded()
	RecordQuestAnswer(kind, verdict string)
	SetActiveQuestSessions(count int)
	RecordQuestSessionsExpired(count int)
	ObserveStorageOperation(operation string, duration time.Duration, err error)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	eventsCreated  prometheus.Counter
	bookings       prometheus.Counter
	albumsCreated  prometheus.Counter
	photosAdded    prometheus.Counter
	questAnswers   *prometheus.CounterVec
	questSessions  prometheus.Gauge
	questExpired   prometheus.Counter
	storageLatency *prometheus.HistogramVec
	storageErrors  *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		eventsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "woodbine_events_created_total",
			Help: "作成されたイベントの合計数",
		}),
		bookings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "woodbine_bookings_total",
			Help: "イベント予約の合計数",
		}),
		albumsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "woodbine_albums_created_total",
			Help: "作成されたアルバムの合計数",
		}),
		photosAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "woodbine_photos_added_total",
			Help: "アルバムに追加された写真の合計数",
		}),
		questAnswers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "woodbine_quest_answers_total",
			Help: "クエスト種別・判定別の回答数",
		}, []string{"kind", "verdict"}),
		questSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "woodbine_quest_sessions_active",
			Help: "アクティブなクエストセッション数",
		}),
		questExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "woodbine_quest_sessions_expired_total",
			Help: "アイドルで破棄されたクエストセッションの合計数",
		}),
		storageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "woodbine_storage_operation_seconds",
			Help:    "キーバリューストア操作のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "woodbine_storage_errors_total",
			Help: "キーバリューストア操作のエラー数",
		}, []string{"operation"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "woodbine_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.eventsCreated,
		c.bookings,
		c.albumsCreated,
		c.photosAdded,
		c.questAnswers,
		c.questSessions,
		c.questExpired,
		c.storageLatency,
		c.storageErrors,
		c.httpStatus,
	)

	return c
}

// RecordEventCreated はイベント作成を記録する。
func (c *Collector) RecordEventCreated() {
	c.eventsCreated.Inc()
}

// RecordBooking はイベント予約を記録する。
func (c *Collector) RecordBooking() {
	c.bookings.Inc()
}

// RecordAlbumCreated はアルバム作成を記録する。
func (c *Collector) RecordAlbumCreated() {
	c.albumsCreated.Inc()
}

// RecordPhotoAdded は写真追加を記録する。
func (c *Collector) RecordPhotoAdded() {
	c.photosAdded.Inc()
}

// RecordQuestAnswer はクエスト回答の判定結果を記録する。
func (c *Collector) RecordQuestAnswer(kind, verdict string) {
	c.questAnswers.WithLabelValues(kind, verdict).Inc()
}

// SetActiveQuestSessions はアクティブなセッション数を設定する。
func (c *Collector) SetActiveQuestSessions(count int) {
	c.questSessions.Set(float64(count))
}

// RecordQuestSessionsExpired は破棄されたセッション数を加算する。
func (c *Collector) RecordQuestSessionsExpired(count int) {
	c.questExpired.Add(float64(count))
}

// ObserveStorageOperation はストレージ操作のレイテンシを記録し、失敗時はエラー数も加算する。
func (c *Collector) ObserveStorageOperation(operation string, duration time.Duration, err error) {
	c.storageLatency.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		c.storageErrors.WithLabelValues(operation).Inc()
	}
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

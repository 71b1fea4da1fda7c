// Package metrics публикует технические метрики конвейера в Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adscore-bot/internal/domain/port"
)

// Recorder реализует port.MetricsRecorder. Нулевой указатель ничего не пишет.
type Recorder struct {
	gatherer prometheus.Gatherer

	stageDuration *prometheus.HistogramVec
	requests      *prometheus.CounterVec
	abDecisions   *prometheus.CounterVec
}

// New регистрирует метрики в собственном реестре
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		gatherer: gatherer,

		// stageDuration время этапов: palette, heatmap, ctr, balance, abtest
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adscore_stage_duration_seconds",
			Help:    "Duration of scoring pipeline stages in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms .. ~800ms
		}, []string{"stage"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adscore_requests_total",
			Help: "Total scoring requests by operation and outcome",
		}, []string{"operation", "outcome"}),

		abDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adscore_ab_winners_total",
			Help: "A/B predictions by whether a winner was declared",
		}, []string{"decided"}),
	}
}

// ObserveStage записывает длительность этапа
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// CountRequest считает запрос с исходом ok или error
func (r *Recorder) CountRequest(operation string, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.requests.WithLabelValues(operation, outcome).Inc()
}

// CountABDecision считает прогнозы A/B с победителем и без
func (r *Recorder) CountABDecision(decided bool) {
	if r == nil {
		return
	}
	label := "false"
	if decided {
		label = "true"
	}
	r.abDecisions.WithLabelValues(label).Inc()
}

// Handler отдаёт метрики в формате Prometheus
func (r *Recorder) Handler() http.Handler {
	if r == nil || r.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

var _ port.MetricsRecorder = (*Recorder)(nil)

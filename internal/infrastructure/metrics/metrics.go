package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pcb-inspector/internal/domain/port"
)

// Metrics метрики сервиса в собственном реестре Prometheus.
// Методы безопасны для nil-получателя.
type Metrics struct {
	registry *prometheus.Registry

	uploads  *prometheus.CounterVec
	defects  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New регистрирует коллекторы.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcb_uploads_total",
			Help: "Inspection requests by source and outcome",
		}, []string{"source", "outcome"}),
		defects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pcb_defects_total",
			Help: "Reported defects by type",
		}, []string{"type"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pcb_inspection_duration_seconds",
			Help:    "Time spent in the inspection pipeline by stage",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.uploads,
		m.defects,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveUpload учитывает завершённый запрос.
func (m *Metrics) ObserveUpload(source, outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(source, outcome).Inc()
}

// ObserveDefect учитывает дефект.
func (m *Metrics) ObserveDefect(defectType string) {
	if m == nil {
		return
	}
	m.defects.WithLabelValues(defectType).Inc()
}

// ObserveStage записывает длительность этапа конвейера.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(stage).Observe(d.Seconds())
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Проверка реализации интерфейса
var _ port.InspectionMetrics = (*Metrics)(nil)

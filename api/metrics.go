package api

import (
	"net/http"
	"time"

	"github.com/d0ngw/namedcounter/counter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "counterd"

// Metrics 计数器操作的监控指标,每个App使用独立的Registry
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewMetrics 创建监控指标,store用于统计存活的计数器个数
func NewMetrics(store *counter.Store) *Metrics {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "operations_total",
			Help:      "Number of counter operations by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of counter operations",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"op"},
	)

	live := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "counters",
			Help:      "Number of live counters",
		},
		func() float64 { return float64(store.Len()) },
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(operations, latency, live,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Metrics{
		registry:   registry,
		operations: operations,
		latency:    latency,
	}
}

// Observe 记录一次op操作的结果和耗时
func (p *Metrics) Observe(op string, outcome counter.Outcome, start time.Time) {
	p.operations.WithLabelValues(op, outcome.Kind.String()).Inc()
	p.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Handler 输出prometheus格式的指标
func (p *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

package world

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит Prometheus-метрики реестра чанков.
// Все методы безопасны для nil-получателя, чтобы реестр работал без метрик.
type Metrics struct {
	chunks        prometheus.Gauge
	tiles         prometheus.Gauge
	initDuration  prometheus.Histogram
	allocFailures prometheus.Counter
}

// NewMetrics создаёт метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dwarf",
			Subsystem: "world",
			Name:      "chunks",
			Help:      "Количество чанков в реестре.",
		}),
		tiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dwarf",
			Subsystem: "world",
			Name:      "tiles",
			Help:      "Количество тайлов во всех чанках.",
		}),
		initDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dwarf",
			Subsystem: "world",
			Name:      "init_duration_seconds",
			Help:      "Длительность инициализации мира.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		allocFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwarf",
			Subsystem: "world",
			Name:      "alloc_failures_total",
			Help:      "Число неудачных попыток выделить чанк.",
		}),
	}

	reg.MustRegister(m.chunks, m.tiles, m.initDuration, m.allocFailures)
	return m
}

func (m *Metrics) observeInit(chunks int, d time.Duration) {
	if m == nil {
		return
	}
	m.chunks.Set(float64(chunks))
	m.tiles.Set(float64(chunks * TileAreaPerChunk))
	m.initDuration.Observe(d.Seconds())
}

func (m *Metrics) allocFailed() {
	if m == nil {
		return
	}
	m.allocFailures.Inc()
}

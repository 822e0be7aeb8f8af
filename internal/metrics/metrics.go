package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics владеет собственным реестром prometheus.
// Все методы записи безопасны для nil-получателя и для незарегистрированных коллекторов.
type Metrics struct {
	registry *prometheus.Registry

	processed      *prometheus.CounterVec
	produced       *prometheus.CounterVec
	flushes        prometheus.Counter
	flushedRecords prometheus.Counter
	batchSize      prometheus.Histogram
	linesGenerated prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		registry: prometheus.NewRegistry(),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CollectStreams регистрирует счётчики обработанных и отправленных записей.
func (m *Metrics) CollectStreams() error {
	processed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_records_processed_total",
			Help: "Records processed by a stream thread.",
		},
		[]string{"thread"},
	)
	produced := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_records_produced_total",
			Help: "Records written to output topics.",
		},
		[]string{"topic", "success"},
	)

	for _, c := range []prometheus.Collector{processed, produced} {
		if err := m.registry.Register(c); err != nil {
			zap.L().Error(err.Error())
			return err
		}
	}

	m.processed = processed
	m.produced = produced

	return nil
}

// CollectFlusher регистрирует метрики периодического flush батчей.
func (m *Metrics) CollectFlusher() error {
	flushes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flusher_flush_total",
			Help: "Non-empty batch flushes.",
		},
	)
	flushedRecords := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flusher_flushed_records_total",
			Help: "Records drained by batch flushes.",
		},
	)
	batchSize := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flusher_batch_size",
			Help:    "Size of a flushed batch.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	for _, c := range []prometheus.Collector{flushes, flushedRecords, batchSize} {
		if err := m.registry.Register(c); err != nil {
			zap.L().Error(err.Error())
			return err
		}
	}

	m.flushes = flushes
	m.flushedRecords = flushedRecords
	m.batchSize = batchSize

	return nil
}

// CollectGenerator регистрирует счётчик строк, созданных генератором нагрузки.
func (m *Metrics) CollectGenerator(gen LinesListenerRegistrar) error {
	linesGenerated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_lines_generated_total",
			Help: "Lines produced by the load generator.",
		},
	)

	if err := m.registry.Register(linesGenerated); err != nil {
		zap.L().Error(err.Error())
		return err
	}

	m.linesGenerated = linesGenerated
	gen.AddPostCreateLinesListener(func(count int) {
		linesGenerated.Add(float64(count))
	})

	return nil
}

func (m *Metrics) RecordProcessed(thread string) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(thread).Inc()
}

func (m *Metrics) RecordProduced(topic string, success bool) {
	if m == nil || m.produced == nil {
		return
	}
	m.produced.WithLabelValues(topic, strconv.FormatBool(success)).Inc()
}

func (m *Metrics) ObserveFlush(count int) {
	if m == nil || m.flushes == nil {
		return
	}
	m.flushes.Inc()
	m.flushedRecords.Add(float64(count))
	m.batchSize.Observe(float64(count))
}

package flusher

import (
	"context"
	"errors"

	"simple-stream/internal/metrics"

	"go.uber.org/zap"
)

// LogReporter пишет отчёт о flush в лог.
type LogReporter struct {
	logger *zap.Logger
}

// NewLogReporter создаёт LogReporter; nil означает глобальный логгер.
func NewLogReporter(logger *zap.Logger) *LogReporter {
	if logger == nil {
		logger = zap.L()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(_ context.Context, report Report) error {
	r.logger.Info("flushing batch",
		zap.Int64("timestamp", report.Timestamp.UnixMilli()),
		zap.String("thread", report.ThreadName),
		zap.String("task", report.TaskID),
		zap.Int("count", report.Count),
	)
	return nil
}

// MetricsReporter отражает flush в метриках prometheus.
type MetricsReporter struct {
	metrics *metrics.Metrics
}

func NewMetricsReporter(m *metrics.Metrics) *MetricsReporter {
	return &MetricsReporter{metrics: m}
}

func (r *MetricsReporter) Report(_ context.Context, report Report) error {
	r.metrics.ObserveFlush(report.Count)
	return nil
}

// Reporters передаёт отчёт каждому из вложенных Reporter.
// Ошибка одного не мешает остальным.
type Reporters []Reporter

func (rs Reporters) Report(ctx context.Context, report Report) error {
	var errs []error
	for _, r := range rs {
		if err := r.Report(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"simple-stream/internal/app"
	"simple-stream/internal/config"
	"simple-stream/internal/flusher"
	"simple-stream/internal/metrics"
	"simple-stream/internal/sink"
	"simple-stream/internal/streams"

	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}

func main() {
	if err := run(); err != nil {
		zap.L().Error(err.Error())
		_ = zap.L().Sync()
		os.Exit(1)
	}
	_ = zap.L().Sync()
}

// run не завершает процесс сам: выход с кодом 1 только после отложенных Close.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	m := metrics.NewMetrics()
	if err := m.CollectStreams(); err != nil {
		return err
	}
	if err := m.CollectFlusher(); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.MetricsPort), Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error(err.Error())
		}
	}()
	defer func() {
		if err := server.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}()

	reporter := flusher.Reporters{
		flusher.NewLogReporter(nil),
		flusher.NewMetricsReporter(m),
	}

	topology, err := app.BuildTopology(cfg, reporter)
	if err != nil {
		return err
	}

	if err := streams.EnsureTopics(ctx, cfg.Brokers[0], app.TopicConfigs(cfg, topology)...); err != nil {
		return err
	}

	kafkaSink, err := sink.NewKafkaSink(ctx, sink.NewKafkaWriter(cfg.Brokers), cfg.PublisherWorkers, cfg.PublisherBuffer)
	if err != nil {
		return err
	}
	kafkaSink.SetMetrics(m)
	kafkaSink.SetBackoff(cfg.RetryBackoff, cfg.RetryAttempts)
	defer func() {
		if err := kafkaSink.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}()

	fmt.Println(topology.Describe())

	s := streams.New(topology, app.StreamsConfig(cfg), kafkaSink)
	s.SetMetrics(m)

	zap.L().Info("starting streams",
		zap.String("client_id", s.ClientID()),
		zap.Strings("brokers", cfg.Brokers),
		zap.Int("threads", cfg.StreamThreads),
	)

	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("streams: %w", err)
	}

	zap.L().Info("streams stopped")
	return nil
}

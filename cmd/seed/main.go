package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"simple-stream/internal/config"
	"simple-stream/internal/generator"
	"simple-stream/internal/metrics"
	"simple-stream/internal/sink"

	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}

// seed пишет во входной топик последовательность 1..N
// (аналог `seq N | kafka-console-producer`) или строки telegraf.
// С -sync каждая строка ждёт подтверждения брокера.
func main() {
	if err := run(); err != nil {
		zap.L().Error(err.Error())
		_ = zap.L().Sync()
		os.Exit(1)
	}
	_ = zap.L().Sync()
}

func run() error {
	mode := flag.String("mode", string(generator.SequenceMode), "sequence | telegraf")
	syncMode := flag.Bool("sync", false, "wait for each write to be acknowledged")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(flag.Args())
	if err != nil {
		return err
	}

	gen := generator.NewLineGenerator()
	if err := gen.SetMode(generator.Mode(*mode)); err != nil {
		return err
	}
	if err := gen.SetCount(cfg.SeedCount); err != nil {
		return err
	}

	m := metrics.NewMetrics()
	if err := m.CollectStreams(); err != nil {
		return err
	}
	if err := m.CollectGenerator(gen); err != nil {
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

	send := kafkaSink.Send
	if *syncMode {
		send = kafkaSink.SendSync
	}

	sent := 0
	for line := range gen.Lines(ctx) {
		if err = send(ctx, cfg.InputTopic, nil, []byte(line)); err != nil {
			break
		}
		sent++
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err == nil {
		err = kafkaSink.Flush(context.WithoutCancel(ctx))
	}

	zap.L().Info("seed finished",
		zap.String("topic", cfg.InputTopic),
		zap.String("mode", *mode),
		zap.Bool("sync", *syncMode),
		zap.Int("sent", sent),
	)
	return err
}

package config

import "time"

const (
	defaultBootstrapServers = "localhost:9092"
	defaultApplicationID    = "simple-stream"
	defaultStreamThreads    = 3
	defaultCommitInterval   = 5 * time.Second
	defaultAutoOffsetReset  = OffsetEarliest

	defaultInputTopic       = "telegraf"
	defaultByThreadTopic    = "telegraf-input-by-thread"
	defaultGlobalCountTopic = "telegraf-global-count"
	defaultWindowCountTopic = "telegraf-10s-window-count"

	defaultWindowSize    = 10 * time.Second
	defaultFlushInterval = 10 * time.Second

	defaultInputPartitions   = 3
	defaultReplicationFactor = 1

	defaultMetricsPort = 8090

	defaultPublisherWorkers = 8
	defaultPublisherBuffer  = 4096

	defaultRetryBackoff  = 1 * time.Second
	defaultRetryAttempts = 5

	defaultSeedCount = 10_000
)

// Переменные окружения, переопределяющие значения по умолчанию.
const (
	envBootstrapServers  = "BOOTSTRAP_SERVERS"
	envApplicationID     = "APPLICATION_ID"
	envStreamThreads     = "NUM_STREAM_THREADS"
	envCommitInterval    = "COMMIT_INTERVAL"
	envAutoOffsetReset   = "AUTO_OFFSET_RESET"
	envInputTopic        = "INPUT_TOPIC"
	envByThreadTopic     = "BY_THREAD_TOPIC"
	envGlobalCountTopic  = "GLOBAL_COUNT_TOPIC"
	envWindowCountTopic  = "WINDOW_COUNT_TOPIC"
	envWindowSize        = "WINDOW_SIZE"
	envFlushInterval     = "FLUSH_INTERVAL"
	envInputPartitions   = "INPUT_PARTITIONS"
	envReplicationFactor = "REPLICATION_FACTOR"
	envMetricsPort       = "METRICS_PORT"
	envPublisherWorkers  = "PUBLISHER_WORKERS"
	envPublisherBuffer   = "PUBLISHER_BUFFER"
	envSeedCount         = "SEED_COUNT"
	envRetryBackoff      = "PRODUCE_RETRY_BACKOFF"
	envRetryAttempts     = "PRODUCE_RETRY_ATTEMPTS"
)

type OffsetReset string

const (
	OffsetEarliest OffsetReset = "earliest"
	OffsetLatest   OffsetReset = "latest"
)

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Brokers         []string
	ApplicationID   string
	StreamThreads   int
	CommitInterval  time.Duration
	AutoOffsetReset OffsetReset

	InputTopic       string
	ByThreadTopic    string
	GlobalCountTopic string
	WindowCountTopic string

	WindowSize    time.Duration
	FlushInterval time.Duration

	InputPartitions   int
	ReplicationFactor int

	MetricsPort int

	PublisherWorkers int
	PublisherBuffer  int

	// RetryBackoff задаёт таймаут первой попытки записи, каждая следующая длиннее.
	RetryBackoff  time.Duration
	RetryAttempts int

	SeedCount int
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		Brokers:           []string{defaultBootstrapServers},
		ApplicationID:     defaultApplicationID,
		StreamThreads:     defaultStreamThreads,
		CommitInterval:    defaultCommitInterval,
		AutoOffsetReset:   defaultAutoOffsetReset,
		InputTopic:        defaultInputTopic,
		ByThreadTopic:     defaultByThreadTopic,
		GlobalCountTopic:  defaultGlobalCountTopic,
		WindowCountTopic:  defaultWindowCountTopic,
		WindowSize:        defaultWindowSize,
		FlushInterval:     defaultFlushInterval,
		InputPartitions:   defaultInputPartitions,
		ReplicationFactor: defaultReplicationFactor,
		MetricsPort:       defaultMetricsPort,
		PublisherWorkers:  defaultPublisherWorkers,
		PublisherBuffer:   defaultPublisherBuffer,
		RetryBackoff:      defaultRetryBackoff,
		RetryAttempts:     defaultRetryAttempts,
		SeedCount:         defaultSeedCount,
	}
}

// Load читает .env (если он есть), переменные окружения и аргументы командной строки.
// Единственный позиционный аргумент переопределяет список брокеров.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}

	if len(args) == 1 {
		cfg.Brokers = splitBrokers(args[0])
	}

	if err := cfg.Validate(); err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrNoBrokers
	}
	if c.ApplicationID == "" {
		return ErrNoApplicationID
	}
	if c.StreamThreads < 1 {
		return ErrInvalidThreadCount
	}
	if c.CommitInterval <= 0 || c.WindowSize <= 0 || c.FlushInterval <= 0 {
		return ErrInvalidInterval
	}
	if c.AutoOffsetReset != OffsetEarliest && c.AutoOffsetReset != OffsetLatest {
		return ErrInvalidOffsetReset
	}
	for _, topic := range c.Topics() {
		if topic == "" {
			return ErrInvalidTopic
		}
	}
	if c.InputPartitions < 1 || c.ReplicationFactor < 1 {
		return ErrInvalidPartitions
	}
	if c.PublisherWorkers < 1 || c.PublisherBuffer < 1 {
		return ErrInvalidPublisher
	}
	if c.RetryBackoff <= 0 || c.RetryAttempts < 1 {
		return ErrInvalidRetry
	}

	return nil
}

// Topics возвращает все топики, с которыми работает приложение.
func (c *Config) Topics() []string {
	return []string{c.InputTopic, c.ByThreadTopic, c.GlobalCountTopic, c.WindowCountTopic}
}

type lookupFn = func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFn) error {
	if v, ok := lookup(envBootstrapServers); ok {
		c.Brokers = splitBrokers(v)
	}

	texts := map[string]*string{
		envApplicationID:    &c.ApplicationID,
		envInputTopic:       &c.InputTopic,
		envByThreadTopic:    &c.ByThreadTopic,
		envGlobalCountTopic: &c.GlobalCountTopic,
		envWindowCountTopic: &c.WindowCountTopic,
	}
	for key, dst := range texts {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(envAutoOffsetReset); ok {
		c.AutoOffsetReset = OffsetReset(v)
	}

	ints := map[string]*int{
		envStreamThreads:     &c.StreamThreads,
		envInputPartitions:   &c.InputPartitions,
		envReplicationFactor: &c.ReplicationFactor,
		envMetricsPort:       &c.MetricsPort,
		envPublisherWorkers:  &c.PublisherWorkers,
		envPublisherBuffer:   &c.PublisherBuffer,
		envSeedCount:         &c.SeedCount,
		envRetryAttempts:     &c.RetryAttempts,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	durations := map[string]*time.Duration{
		envCommitInterval: &c.CommitInterval,
		envWindowSize:     &c.WindowSize,
		envFlushInterval:  &c.FlushInterval,
		envRetryBackoff:   &c.RetryBackoff,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	return nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

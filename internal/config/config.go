package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	USGSEndpoint string
	USGSFormat   string
	MinMagnitude int

	PollInterval        time.Duration
	BackfillSpan        time.Duration
	BackfillConcurrency int

	ClusterCount int
	ClusterSeed  uint64
	StatsOutput  string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Relational sink; empty disables it.
	DatabaseURL string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	minMagnitude, err := parseInt("MIN_MAGNITUDE", "3", 0)
	if err != nil {
		return nil, err
	}
	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	backfillSpan, err := parsePositiveDuration("BACKFILL_SPAN", "48h")
	if err != nil {
		return nil, err
	}
	concurrency, err := parseInt("BACKFILL_CONCURRENCY", "4", 1)
	if err != nil {
		return nil, err
	}
	clusterCount, err := parseInt("CLUSTER_COUNT", "10", 1)
	if err != nil {
		return nil, err
	}
	clusterSeed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("CLUSTER_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid CLUSTER_SEED")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		USGSEndpoint:        sharedcfg.EnvOrDefault("USGS_ENDPOINT", "https://earthquake.usgs.gov/fdsnws/event/1/query"),
		USGSFormat:          sharedcfg.EnvOrDefault("USGS_FORMAT", "geojson"),
		MinMagnitude:        minMagnitude,
		PollInterval:        pollInterval,
		BackfillSpan:        backfillSpan,
		BackfillConcurrency: concurrency,
		ClusterCount:        clusterCount,
		ClusterSeed:         clusterSeed,
		StatsOutput:         sharedcfg.EnvOrDefault("STATS_OUTPUT", "cluster_statistics.parquet"),
		KafkaBrokers:        brokers,
		KafkaTopic:          sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-events"),
		KafkaEnabled:        kafkaEnabled,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		BatchSize:           batchSize,
		BatchFlushInterval:  flushInterval,
	}

	if cfg.USGSEndpoint == "" {
		return nil, errors.New("USGS_ENDPOINT is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func parseInt(key, def string, minimum int) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n < minimum {
		return 0, fmt.Errorf("invalid %s: must be an integer >= %d", key, minimum)
	}
	return n, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

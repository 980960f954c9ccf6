package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// HistoryPath is the JSON report history written by the reporting backend.
	HistoryPath string

	// Fusion policy selection. FusionPolicy is resolved from the built-in
	// policies and, when set, FusionPolicyFile.
	FusionPolicyName string
	FusionPolicyFile string
	FusionPolicy     domain.FusionPolicy

	// Zero-shot classifier configuration.
	ClassifierURL       string
	ClassifierToken     string
	ClassifierEnabled   bool
	ClassifierTimeout   time.Duration
	ClassifierCacheSize int

	// Kafka verification pipeline configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	classifierTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("CLASSIFIER_TIMEOUT", "5s"))
	if err != nil || classifierTimeout <= 0 {
		return nil, errors.New("invalid CLASSIFIER_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	classifierURL := os.Getenv("CLASSIFIER_URL")
	classifierEnabled := classifierURL != ""
	if v := os.Getenv("CLASSIFIER_ENABLED"); v != "" {
		classifierEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		HistoryPath: sharedcfg.EnvOrDefault("HISTORY_PATH", "data/reports.json"),

		FusionPolicyName: sharedcfg.EnvOrDefault("FUSION_POLICY", domain.PolicyCorroboration),
		FusionPolicyFile: os.Getenv("FUSION_POLICY_FILE"),

		ClassifierURL:       classifierURL,
		ClassifierToken:     os.Getenv("CLASSIFIER_TOKEN"),
		ClassifierEnabled:   classifierEnabled,
		ClassifierTimeout:   classifierTimeout,
		ClassifierCacheSize: parseClassifierCacheSize(),

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "hazard-reports"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "hazard-verdicts"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "hazard-verify"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.ClassifierEnabled && cfg.ClassifierURL == "" {
		return nil, errors.New("CLASSIFIER_ENABLED is true but CLASSIFIER_URL is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}

	policy, err := LoadFusionPolicy(cfg.FusionPolicyName, cfg.FusionPolicyFile)
	if err != nil {
		return nil, fmt.Errorf("FUSION_POLICY: %w", err)
	}
	cfg.FusionPolicy = policy

	return cfg, nil
}

func parseClassifierCacheSize() int {
	if s := os.Getenv("CLASSIFIER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

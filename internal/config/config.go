package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g. 0.0.0.0)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// StorageConfig represents the embedded store configuration.
type StorageConfig struct {
	Path           string        `mapstructure:"path"`             // SQLite file path (:memory: for tests)
	ArchiveDir     string        `mapstructure:"archive_dir"`      // Directory for compressed day archives
	Retention      time.Duration `mapstructure:"retention"`        // How long raw messages stay queryable
	ArchiveOnPurge bool          `mapstructure:"archive_on_purge"` // Archive days before retention deletes them
}

// IngestConfig represents message-event ingestion configuration.
type IngestConfig struct {
	Type    string `mapstructure:"type"`    // Broker type: nats (default), kafka, memory
	URL     string `mapstructure:"url"`     // Broker URL (e.g. nats://localhost:4222)
	Subject string `mapstructure:"subject"` // Subject/topic carrying message events

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// CacheConfig represents the prediction result cache configuration.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"` // Enable the redis result cache
	URL     string        `mapstructure:"url"`     // Redis URL (e.g. redis://localhost:6379)
	TTL     time.Duration `mapstructure:"ttl"`     // How long cached predictions stay valid
}

// PredictionConfig represents prediction engine configuration.
type PredictionConfig struct {
	// Seed fixes the momentum predictor's noise source. Zero means a
	// time-based seed per call; tests set a nonzero value for
	// reproducible forecasts.
	Seed int64 `mapstructure:"seed"`
}

// AuthConfig represents API authentication configuration.
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := c.Ingest.Validate(); err != nil {
		return fmt.Errorf("ingest config: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates server configuration.
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	return nil
}

// Validate validates storage configuration.
func (c *StorageConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.Retention <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	if c.ArchiveOnPurge && c.ArchiveDir == "" {
		return fmt.Errorf("archive_dir is required when archive_on_purge is set")
	}
	return nil
}

// Supported ingest broker types.
const (
	IngestTypeNATS   = "nats"
	IngestTypeKafka  = "kafka"
	IngestTypeMemory = "memory"
)

// Validate validates ingest configuration.
func (c *IngestConfig) Validate() error {
	switch c.Type {
	case "", IngestTypeNATS, IngestTypeKafka, IngestTypeMemory:
	default:
		return fmt.Errorf("unsupported ingest type: %s (supported: nats, kafka, memory)", c.Type)
	}
	if c.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if c.Type == IngestTypeKafka && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka_brokers is required for kafka ingest")
	}
	return nil
}

// Validate validates cache configuration.
func (c *CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" {
		return fmt.Errorf("url is required when cache is enabled")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be positive")
	}
	return nil
}

// Validate validates logging configuration.
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}
	return nil
}

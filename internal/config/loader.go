package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")              // Current directory
		v.AddConfigPath("./configs")      // Project configs directory
		v.AddConfigPath("/etc/chatpulse") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("CHATPULSE")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8086)

	// Storage defaults
	v.SetDefault("storage.path", "./data/chatpulse.db")
	v.SetDefault("storage.archive_dir", "./data/archive")
	v.SetDefault("storage.retention", "2160h") // 90 days
	v.SetDefault("storage.archive_on_purge", true)

	// Ingest defaults
	v.SetDefault("ingest.type", "nats")
	v.SetDefault("ingest.url", "nats://localhost:4222")
	v.SetDefault("ingest.subject", "chat.messages")

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.url", "redis://localhost:6379")
	v.SetDefault("cache.ttl", "1h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 8086,
		},
		Storage: StorageConfig{
			Path:           "./data/chatpulse.db",
			ArchiveDir:     "./data/archive",
			Retention:      90 * 24 * time.Hour,
			ArchiveOnPurge: true,
		},
		Ingest: IngestConfig{
			Type:    "nats",
			URL:     "nats://localhost:4222",
			Subject: "chat.messages",
		},
		Cache: CacheConfig{
			Enabled: false,
			URL:     "redis://localhost:6379",
			TTL:     time.Hour,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
